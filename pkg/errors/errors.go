// Package errors provides structured error types for labelsheet.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can
// map them to exit codes and status codes without string matching.
//
// # Error Codes
//
//   - INVALID_*: input validation failures (bad job file, unknown paper)
//   - LABEL_DOES_NOT_FIT: the label is larger than the printable area
//   - RENDER_FAILED, EXPORT_FAILED: output could not be produced
//   - CANCELED: the caller gave up
//   - NOT_FOUND, INTERNAL_ERROR
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPaper, "unknown paper size %q", key)
//	if errors.Is(err, errors.ErrCodeInvalidPaper) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeExportFailed, cause, "page %d", page)
package errors

import (
	"context"
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
	ErrCodeInvalidPaper  Code = "INVALID_PAPER"

	// Layout errors
	ErrCodeLabelDoesNotFit Code = "LABEL_DOES_NOT_FIT"

	// Output errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeExportFailed Code = "EXPORT_FAILED"
	ErrCodeCanceled     Code = "CANCELED"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
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

// Wrap creates a new Error wrapping an existing error. A canceled or
// expired context in the chain always yields [ErrCodeCanceled].
func Wrap(code Code, cause error, format string, args ...any) *Error {
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		code = ErrCodeCanceled
	}
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
// For *Error types, returns the message without the code prefix, followed
// by the cause if there is one.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
