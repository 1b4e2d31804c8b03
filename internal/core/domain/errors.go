package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error leaving the service layer wraps exactly one of
// these so transports can classify it with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("not found")
)

// ErrInvalidCredentials is returned for every failed login, whatever the cause.
var ErrInvalidCredentials = &Error{Kind: ErrUnauthorized, Message: "Invalid email or password"}

// Error carries a user-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return newError(ErrValidation, format, args...) }

func Conflict(format string, args ...any) error { return newError(ErrConflict, format, args...) }

func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) error { return newError(ErrForbidden, format, args...) }

func NotFound(format string, args ...any) error { return newError(ErrNotFound, format, args...) }

// Message returns the user-facing text of err: the message of the outermost
// *Error, or the kind's own text when err is a bare sentinel.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
