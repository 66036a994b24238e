// Package errs carries the error taxonomy of the key-bootstrap layer.
// Errors wrap a Code so callers can decide between retry, fallback and
// abort without string matching.
package errs

import (
	"errors"
	"fmt"
)

// AppError is a coded error with an optional cause.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// New returns a coded error without a cause.
func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

// Wrap returns a coded error wrapping cause.
func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the code from err, or CodeUnknown.
func CodeOf(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool { return CodeOf(err) == code }

// Convenience constructors for the common classes.

func KeyGeneration(msg string, cause error) error {
	return Wrap(CodeKeyGenerationFailure, msg, cause)
}

func Persistence(msg string, cause error) error {
	return Wrap(CodePersistenceFailure, msg, cause)
}

func BundleNotFound(msg string) error {
	return New(CodeBundleNotFound, msg)
}

func DirectoryUnavailable(msg string, cause error) error {
	return Wrap(CodeDirectoryUnavailable, msg, cause)
}
