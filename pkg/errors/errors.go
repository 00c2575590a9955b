// Package errors provides structured error types for Machina.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: construction-time validation failures
//   - UNSUPPORTED_*: shape or output kind the diagram cannot serve
//   - RENDER_*: failures of the external layout backend
//   - NOT_FOUND / INTERNAL_ERROR: ambient resource and server errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidState, "start state %d out of range", q0)
//	if errors.Is(err, errors.ErrCodeInvalidState) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderBackend, origErr, "convert DOT")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Construction-time validation errors
	ErrCodeInvalidEdge     Code = "INVALID_EDGE"
	ErrCodeInvalidState    Code = "INVALID_STATE"
	ErrCodeInvalidShape    Code = "INVALID_SHAPE"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// Render-time compatibility errors
	ErrCodeUnsupportedShape   Code = "UNSUPPORTED_SHAPE"
	ErrCodeIncompatibleRender Code = "INCOMPATIBLE_RENDER"
	ErrCodeUnsupportedOutput  Code = "UNSUPPORTED_OUTPUT"

	// External collaborator errors
	ErrCodeRenderBackend Code = "RENDER_BACKEND"

	// Ambient errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// IsValidation reports whether err carries one of the INVALID_* codes
// raised during diagram or shape construction.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidEdge, ErrCodeInvalidState, ErrCodeInvalidShape, ErrCodeInvalidManifest:
		return true
	}
	return false
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
