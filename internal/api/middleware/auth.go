package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brainydx/task-tracker/internal/core/ports"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Auth verifies the bearer token and injects the authenticated identity into
// the request context. When users is non-nil the role is re-read from the
// store per request (AUTH_RECHECK_ROLE); otherwise the token's role claim is
// trusted until expiry.
func Auth(verifier ports.TokenVerifier, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			role := claims.Role
			if users != nil {
				user, err := users.FindByID(c.Request().Context(), claims.UserID)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				role = user.Role
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, role)

			return next(c)
		}
	}
}
