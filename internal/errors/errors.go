package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorises an application error.
type ErrorCode string

const (
	ErrCodeNotFound    ErrorCode = "not_found"
	ErrCodeConflict    ErrorCode = "conflict"
	ErrCodeValidation  ErrorCode = "validation"
	ErrCodeUnavailable ErrorCode = "unavailable"
	ErrCodeInternal    ErrorCode = "internal"
	ErrCodeTimeout     ErrorCode = "timeout"
	ErrCodeCanceled    ErrorCode = "canceled"
)

// AppError carries a code, a user-facing message and an optional cause.
// Validation errors may also name the form field that failed.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Field   string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// MetricClass reports the error code as a metric tag value.
func (e *AppError) MetricClass() string {
	return string(e.Code)
}

// NotFound creates a not_found error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Validation creates a validation error not tied to a field.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a validation error for one form field.
// The message is user facing and is shown verbatim.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Unavailable marks a dependency that could not answer.
func Unavailable(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeUnavailable, Message: message, Cause: cause}
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

func IsNotFound(err error) bool    { return GetCode(err) == ErrCodeNotFound }
func IsValidation(err error) bool  { return GetCode(err) == ErrCodeValidation }
func IsUnavailable(err error) bool { return GetCode(err) == ErrCodeUnavailable }

// GetCode returns the code of the first AppError in the chain, or "".
func GetCode(err error) ErrorCode {
	if appErr, ok := asAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// GetField returns the failing field of a validation error, or "".
func GetField(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Field
	}
	return ""
}

// UserMessage returns the AppError message when err carries one, else fallback.
func UserMessage(err error, fallback string) string {
	if appErr, ok := asAppError(err); ok && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
