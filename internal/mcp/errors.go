// Package mcp implements the Model Context Protocol server for
// txtsearch, exposing search and indexing tools to AI clients.
package mcp

import (
	"context"
	"errors"
	"fmt"

	tserrors "github.com/txtsearch/txtsearch/internal/errors"
)

// Custom MCP error codes for txtsearch.
const (
	// ErrCodeIndexNotFound indicates no index exists for the root.
	ErrCodeIndexNotFound = -32001

	// ErrCodeStrategyUnavailable indicates a search strategy cannot run.
	ErrCodeStrategyUnavailable = -32002

	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout = -32003

	// ErrCodeBuildInProgress indicates another build holds the lock.
	ErrCodeBuildInProgress = -32004

	// Standard JSON-RPC error codes.
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// MCPError represents an MCP protocol error with code and message.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts internal errors to MCP errors.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	if tsErr, ok := err.(*tserrors.Error); ok {
		return mapAppError(tsErr)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request timed out."}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request was canceled."}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
	}
}

// NewInvalidParamsError creates an error for invalid parameters with a custom message.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewMethodNotFoundError creates an error for unknown tools.
func NewMethodNotFoundError(name string) *MCPError {
	return &MCPError{Code: ErrCodeMethodNotFound, Message: fmt.Sprintf("Tool '%s' not found.", name)}
}

// mapAppError converts a structured application error to an MCPError.
func mapAppError(e *tserrors.Error) *MCPError {
	message := e.Message
	if e.Suggestion != "" {
		message = fmt.Sprintf("%s %s", e.Message, e.Suggestion)
	}

	switch {
	case e.Code == tserrors.ErrCodeNoIndex:
		return &MCPError{Code: ErrCodeIndexNotFound, Message: message}
	case e.Code == tserrors.ErrCodeBuildInProgress:
		return &MCPError{Code: ErrCodeBuildInProgress, Message: message}
	case tserrors.IsUnavailable(e):
		return &MCPError{Code: ErrCodeStrategyUnavailable, Message: message}
	case tserrors.IsInvalidInput(e):
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: message}
	}
}
