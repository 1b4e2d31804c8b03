package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

// Context keys populated by the Auth middleware.
const (
	CtxUserID = "user_id"
	CtxClaims = "claims"
)

// ctxOwner extracts the authenticated identity id injected by the Auth
// middleware. Its absence means the route was mounted without Auth.
func ctxOwner(c echo.Context) (string, error) {
	id, _ := c.Get(CtxUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// ctxClaims returns the validated token claims for the request.
func ctxClaims(c echo.Context) (*domain.TokenClaims, error) {
	claims, _ := c.Get(CtxClaims).(*domain.TokenClaims)
	if claims == nil || claims.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// bindJSON decodes the request body, reporting malformed payloads as 400.
func bindJSON(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
