package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/legalvibes/practice-api/internal/api/handler"
	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

// RequireAdmin admits only active identities whose stored job title derives
// the admin role. The identity is reloaded on every request, so token claims
// never grant privilege on their own. Must be mounted after Auth.
func RequireAdmin(users ports.IdentityRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(handler.CtxUserID).(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if user == nil || !user.IsActive || user.Role() != domain.RoleAdmin {
				log.Warn().
					Str("user_id", userID).
					Str("path", c.Path()).
					Msg("admin access denied")
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}

			return next(c)
		}
	}
}
