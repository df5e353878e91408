// Package errors provides structured error types for emind.
//
// Every failure that crosses a package boundary carries a [Code] so the CLI
// and the HTTP server can decide how to report it without string matching:
//
//   - INVALID_*: caller contract violations (bad trees, flags, config)
//   - DEGENERATE_CONTENT: nothing renderable (no nodes, zero-size bounds)
//   - EXPORT_DECODE_FAILURE: the raster decode step failed or timed out
//   - NOT_RENDERED: an export was requested before a successful render
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "node %q has an empty name", path)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // report to the caller
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExportDecode, cause, "decode %d bytes", len(doc))
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Rendering errors
	ErrCodeDegenerateContent Code = "DEGENERATE_CONTENT"
	ErrCodeExportDecode      Code = "EXPORT_DECODE_FAILURE"
	ErrCodeNotRendered       Code = "NOT_RENDERED"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
