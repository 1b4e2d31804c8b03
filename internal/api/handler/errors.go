package handler

import (
	"errors"
	"net/http"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

// StatusCode maps a domain error kind to its HTTP status. The second return
// is false for errors that carry no known kind.
func StatusCode(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, true
	}
	return 0, false
}
