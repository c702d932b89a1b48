package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindNotFound           ErrorKind = "not_found"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindTooManyAttempts    ErrorKind = "too_many_attempts"
	KindForbidden          ErrorKind = "forbidden"
	KindConflict           ErrorKind = "conflict"
	KindInvalidInput       ErrorKind = "invalid_input"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindInternal           ErrorKind = "internal"
)

// AppError is the only error type that leaves the services package. Message is safe to show
// to clients; Err keeps the underlying cause for logs.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, format string, args ...interface{}) error {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return newError(KindNotFound, format, args...)
}

func InvalidCredentials(format string, args ...interface{}) error {
	return newError(KindInvalidCredentials, format, args...)
}

func Unauthorized(format string, args ...interface{}) error {
	return newError(KindUnauthorized, format, args...)
}

func TooManyAttempts(format string, args ...interface{}) error {
	return newError(KindTooManyAttempts, format, args...)
}

func Forbidden(format string, args ...interface{}) error {
	return newError(KindForbidden, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return newError(KindConflict, format, args...)
}

func InvalidInput(format string, args ...interface{}) error {
	return newError(KindInvalidInput, format, args...)
}

func ServiceUnavailable(format string, args ...interface{}) error {
	return newError(KindServiceUnavailable, format, args...)
}

// Internal hides err behind a generic message.
func Internal(op string, err error) error {
	log.Printf("[ERROR] %s: %v", op, err)
	return &AppError{Kind: KindInternal, Message: "internal error", Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf returns the kind of err. Anything that is not an AppError counts as internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// storeError translates a repository error: a missing row becomes NotFound(what), anything
// else becomes Internal.
func storeError(op, what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("%s not found", what)
	}
	return Internal(op, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
