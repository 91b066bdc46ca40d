package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brainydx/task-tracker/internal/core/domain"
)

// RBAC enforces role-based access control over the identity injected by Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(domain.Role)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
