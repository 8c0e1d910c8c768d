package errors

import (
	"fmt"
)

// Error is the structured error type for txtsearch.
// It provides rich context for error handling, logging, and user presentation.
type Error struct {
	// Code is the unique error code (e.g., "ERR_301_STRATEGY_UNAVAILABLE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Dependency, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with Error.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// New creates a new Error with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates an Error from an existing error.
// The error's message becomes the Error message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// InvalidInput creates a validation error. Reported immediately, no
// partial effect.
func InvalidInput(message string) *Error {
	return New(ErrCodeInvalidInput, message, nil)
}

// Unavailable creates a dependency error for an unusable strategy.
// The reason must be human-actionable (missing executable, no semantic
// data, unreachable model endpoint, disabled in config).
func Unavailable(strategy, reason string) *Error {
	e := New(ErrCodeStrategyUnavailable,
		fmt.Sprintf("strategy %q unavailable: %s", strategy, reason), nil)
	return e.WithDetail("strategy", strategy)
}

// BuildFailure creates an IO error for a failed index build. The active
// index is unaffected; the error names the failing step.
func BuildFailure(step string, cause error) *Error {
	e := New(ErrCodeBuildFailed,
		fmt.Sprintf("index build failed during %s: %v", step, cause), cause)
	return e.WithDetail("step", step)
}

// BackendError creates an error for a transient failure inside a
// strategy executor during search.
func BackendError(strategy string, cause error) *Error {
	e := New(ErrCodeBackend,
		fmt.Sprintf("%s backend error: %v", strategy, cause), cause)
	return e.WithDetail("strategy", strategy)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *Error {
	return New(ErrCodeInternal, message, cause)
}

// IsInvalidInput reports whether err is a validation error.
func IsInvalidInput(err error) bool {
	return hasCategory(err, CategoryValidation)
}

// IsUnavailable reports whether err is a dependency-unavailable error.
func IsUnavailable(err error) bool {
	return hasCategory(err, CategoryDependency)
}

// IsBuildFailure reports whether err is an IO/build error.
func IsBuildFailure(err error) bool {
	return hasCategory(err, CategoryIO)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Retryable
	}
	return false
}

// GetCode extracts the error code from an Error.
// Returns empty string if not an Error.
func GetCode(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// GetCategory extracts the category from an Error.
// Returns empty string if not an Error.
func GetCategory(err error) Category {
	if e, ok := err.(*Error); ok {
		return e.Category
	}
	return ""
}

func hasCategory(err error, cat Category) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok {
		return e.Category == cat
	}
	return false
}
