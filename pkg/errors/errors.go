// Package errors provides structured error types for the blockgrid engine and
// its outer surfaces.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The grid engine rejects operations with one of four core codes:
//   - INVALID_DIMENSION: a non-positive row or column request
//   - CAPACITY_EXCEEDED: a mutation that would drop or overflow blocks
//   - OCCUPIED_TARGET: a move into a non-empty cell
//   - MINIMUM_SIZE: removing the last non-header row or column
//
// The remaining codes cover input validation, lifecycle state and storage.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeCapacityExceeded, "need %d cells, have %d", need, capacity)
//	if errors.Is(err, errors.ErrCodeCapacityExceeded) {
//	    // Handle rejected mutation
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "persist workspace %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Engine rejections
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeCapacityExceeded Code = "CAPACITY_EXCEEDED"
	ErrCodeOccupiedTarget   Code = "OCCUPIED_TARGET"
	ErrCodeMinimumSize      Code = "MINIMUM_SIZE"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeOutOfBounds    Code = "OUT_OF_BOUNDS"
	ErrCodeInvalidName    Code = "INVALID_NAME"
	ErrCodeHeaderNotFound Code = "HEADER_NOT_FOUND"

	// Lifecycle errors
	ErrCodeNoGrid     Code = "NO_GRID"
	ErrCodeGridExists Code = "GRID_EXISTS"
	ErrCodeItemExists Code = "ITEM_EXISTS"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeStore        Code = "STORE"
	ErrCodeCorruptState Code = "CORRUPT_STATE"

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

// As calls errors.As from the standard library.
func As(err error, target any) bool {
	return errors.As(err, target)
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

// IsRejection reports whether err is one of the engine's precondition
// rejections. A rejected operation leaves the engine untouched and usable.
func IsRejection(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidDimension, ErrCodeCapacityExceeded, ErrCodeOccupiedTarget,
		ErrCodeMinimumSize, ErrCodeInvalidInput, ErrCodeOutOfBounds,
		ErrCodeHeaderNotFound, ErrCodeNoGrid, ErrCodeGridExists, ErrCodeItemExists:
		return true
	}
	return false
}
