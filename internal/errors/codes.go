// Package errors provides structured error handling for txtsearch.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO and build errors (file, disk, staging)
//   - 3XX: Dependency errors (missing executable, unreachable model, absent data)
//   - 4XX: Validation errors
//   - 5XX: Internal and backend errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file I/O and index build errors.
	CategoryIO Category = "IO"
	// CategoryDependency indicates an absent or unreachable collaborator.
	CategoryDependency Category = "DEPENDENCY"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal or backend errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO and build errors (200-299)
	ErrCodeFileRead        = "ERR_201_FILE_READ"
	ErrCodeStoreWrite      = "ERR_202_STORE_WRITE"
	ErrCodeBuildFailed     = "ERR_203_BUILD_FAILED"
	ErrCodeIndexCorrupt    = "ERR_204_INDEX_CORRUPT"
	ErrCodeBuildInProgress = "ERR_205_BUILD_IN_PROGRESS"
	ErrCodeNoIndex         = "ERR_206_NO_INDEX"

	// Dependency errors (300-399)
	ErrCodeStrategyUnavailable = "ERR_301_STRATEGY_UNAVAILABLE"
	ErrCodeExecutableMissing   = "ERR_302_EXECUTABLE_MISSING"
	ErrCodeModelUnreachable    = "ERR_303_MODEL_UNREACHABLE"
	ErrCodeSemanticDataMissing = "ERR_304_SEMANTIC_DATA_MISSING"
	ErrCodeStrategyDisabled    = "ERR_305_STRATEGY_DISABLED"

	// Validation errors (400-499)
	ErrCodeInvalidInput    = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidGlob     = "ERR_402_INVALID_GLOB"
	ErrCodeRootMissing     = "ERR_403_ROOT_MISSING"
	ErrCodeQueryEmpty      = "ERR_404_QUERY_EMPTY"
	ErrCodeUnknownStrategy = "ERR_405_UNKNOWN_STRATEGY"

	// Internal and backend errors (500-599)
	ErrCodeInternal        = "ERR_501_INTERNAL"
	ErrCodeBackend         = "ERR_502_BACKEND"
	ErrCodeEmbeddingFailed = "ERR_503_EMBEDDING_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryDependency
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeIndexCorrupt:
		return SeverityFatal
	case ErrCodeBuildInProgress:
		return SeverityWarning
	}
	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
// Only literal/lexical backend failures are safe to retry; remote model
// calls are never retried by the core (spec: retries would mask
// configuration problems).
func isRetryableCode(code string) bool {
	return code == ErrCodeBackend
}
