package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/legalvibes/practice-api/internal/api/handler"
	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

// Auth validates the bearer token and injects its claims into context.
func Auth(tokens ports.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := handler.BearerToken(c.Request())
			if err != nil {
				return err
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.Message(err))
			}

			c.Set(handler.CtxUserID, claims.UserID)
			c.Set(handler.CtxClaims, claims)

			return next(c)
		}
	}
}
