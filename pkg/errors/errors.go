package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrInternal
	ErrNotConnected
	ErrValidation
	ErrBackend
	ErrTranscription
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

// NotConnected signals that the database is unreachable. Writes fail fast
// with this error; reads degrade to stale or empty results instead.
func NotConnected(err error) *AppError {
	return &AppError{
		Code:    ErrNotConnected,
		Message: "database not connected",
		Err:     err,
	}
}

// Validation signals a missing or malformed required field, raised before
// any side effect takes place.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

// Backend signals that an assistant or retrieval backend call failed or
// returned a failure flag.
func Backend(err error) *AppError {
	return &AppError{
		Code:    ErrBackend,
		Message: "backend request failed",
		Err:     err,
	}
}

// Transcription signals empty or undersized audio, or a backend-reported
// transcription error.
func Transcription(message string, err error) *AppError {
	return &AppError{
		Code:    ErrTranscription,
		Message: message,
		Err:     err,
	}
}

// IsNotFound reports whether err is a not-found AppError.
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrNotFound
	}
	return false
}

// IsNotConnected reports whether err is a not-connected AppError.
func IsNotConnected(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrNotConnected
	}
	return false
}
