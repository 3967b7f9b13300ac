// Package errors provides structured error types for portraitgrid.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the batch runner and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror how far a failure propagates during a batch run:
//   - LAYOUT_INFEASIBLE: no photo size fits three rows; fatal for one category
//   - ASSET_MISSING: a photo could not be read; a placeholder is drawn instead
//   - FONT_UNRESOLVED: a font name could not be resolved; a fallback face is used
//   - CONFIG_MALFORMED: a settings file could not be parsed; defaults are used
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLayoutInfeasible, "no width fits %d photos", n)
//	if errors.Is(err, errors.ErrCodeLayoutInfeasible) {
//	    // skip this category
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeAssetMissing, origErr, "open %s", path)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidCategory Code = "INVALID_CATEGORY"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"

	// Layout and rendering errors
	ErrCodeLayoutInfeasible Code = "LAYOUT_INFEASIBLE"
	ErrCodeAssetMissing     Code = "ASSET_MISSING"
	ErrCodeFontUnresolved   Code = "FONT_UNRESOLVED"

	// Configuration errors
	ErrCodeConfigMalformed Code = "CONFIG_MALFORMED"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
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

// Recoverable reports whether err is one the batch runner substitutes a
// default for instead of failing: missing assets, unresolved fonts and
// malformed settings.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeAssetMissing, ErrCodeFontUnresolved, ErrCodeConfigMalformed:
		return true
	}
	return false
}
