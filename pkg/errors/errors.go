// Package errors provides structured error types for famtree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, TUI and HTTP surfaces
//   - Machine-readable error codes for programmatic handling
//   - User-friendly status messages
//   - Error wrapping with context preservation
//
// The tree engine itself (kinship index, tree builder, layout, resolver) never
// returns errors: missing links and cycles are represented structurally. Codes
// here cover the edges of the system: loading person lists, validating user
// options, and the two user-visible "nothing to show" states.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - NO_DATA: An empty person list was handed to the engine
//   - NETWORK_*, INTERNAL_*: Backend failures (cache, database)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidMode, "unknown mode: %s", mode)
//	if errors.Is(err, errors.ErrCodeInvalidMode) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "connect to %s", addr)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidMode        Code = "INVALID_MODE"
	ErrCodeInvalidGenerations Code = "INVALID_GENERATIONS"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidXref        Code = "INVALID_XREF"
	ErrCodeDuplicateXref      Code = "DUPLICATE_XREF"
	ErrCodeInvalidPath        Code = "INVALID_PATH"

	// "Nothing to show" states
	ErrCodeNoData       Code = "NO_DATA"
	ErrCodeRootNotFound Code = "ROOT_NOT_FOUND"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsEmptyState reports whether err is one of the user-visible "nothing to
// show" states (no data loaded, or a root that resolves to nobody). Callers
// render these as a status line instead of a failure.
func IsEmptyState(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoData, ErrCodeRootNotFound:
		return true
	}
	return false
}
