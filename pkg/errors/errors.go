// Package errors provides structured error types for labforge.
//
// Errors raised inside packages are plain sentinels and typed errors (see
// [topology.ErrDuplicateName]). At the CLI and HTTP boundaries they are
// converted into an [*Error] carrying a machine-readable [Code], which the
// server maps to a status and the CLI prints without the code prefix.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "cpu must be a number, got %q", raw)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Map a store failure
//	if err := store.AddNode(n); err != nil {
//	    return errors.FromTopology(err)
//	}
package errors

import (
	"errors"
	"fmt"

	"github.com/matzehuels/labforge/pkg/topology"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeDuplicateName   Code = "DUPLICATE_NAME"
	ErrCodeUnknownEndpoint Code = "UNKNOWN_ENDPOINT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"
	ErrCodeUnavailable Code = "UNAVAILABLE"

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

// FromTopology converts a store mutation error into a coded error.
// Errors that already carry a code, and nil, are returned unchanged.
// Anything unrecognized becomes ErrCodeInternal.
func FromTopology(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, topology.ErrDuplicateName):
		return &Error{Code: ErrCodeDuplicateName, Message: err.Error(), Cause: err}
	case errors.Is(err, topology.ErrUnknownEndpoint):
		return &Error{Code: ErrCodeUnknownEndpoint, Message: err.Error(), Cause: err}
	case errors.Is(err, topology.ErrInvalidAttribute):
		return &Error{Code: ErrCodeInvalidInput, Message: err.Error(), Cause: err}
	default:
		return &Error{Code: ErrCodeInternal, Message: err.Error(), Cause: err}
	}
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
