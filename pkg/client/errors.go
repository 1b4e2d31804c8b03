package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds surfaced by the SDK. Classify with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("network error")
	ErrServer       = errors.New("server error")
)

// Error is a failed API call. Message is the server's user-facing text.
type Error struct {
	Kind    error
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Kind }

// Message returns the user-facing text of err.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

func kindFor(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return ErrServer
}

func networkError(err error) error {
	return &Error{Kind: ErrNetwork, Message: "Network error: Unable to connect to server: " + err.Error()}
}
