// Package errors defines the coded application error shared by the data,
// service and HTTP layers.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "not_found"
	ErrCodeConflict   ErrorCode = "conflict"
	ErrCodeValidation ErrorCode = "validation"
	ErrCodeInternal   ErrorCode = "internal"
	ErrCodeTimeout    ErrorCode = "timeout"
	ErrCodeCanceled   ErrorCode = "canceled"
)

// StatusClientClosedRequest is reported when the caller went away mid-request.
const StatusClientClosedRequest = 499

// AppError is an application error with a code, message, and optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Field   string // offending column, when the database reports one
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error { return e.Cause }

// NotFoundf reports a missing user or session.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf reports a duplicate user or session.
func Conflictf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation reports input rejected before it reached storage.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// Code returns the ErrorCode carried anywhere in err's chain, or "".
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool   { return Code(err) == ErrCodeNotFound }
func IsConflict(err error) bool   { return Code(err) == ErrCodeConflict }
func IsValidation(err error) bool { return Code(err) == ErrCodeValidation }

// HTTPStatus maps a coded error to a response status; uncoded errors are 500.
func HTTPStatus(err error) int {
	switch Code(err) {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeCanceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}
