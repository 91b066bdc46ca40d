package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brainydx/task-tracker/internal/api/middleware"
	"github.com/brainydx/task-tracker/internal/core/domain"
	"github.com/brainydx/task-tracker/internal/core/ports"
)

// ctxIdentity extracts the authenticated identity injected by the Auth
// middleware. Presence of both fields proves the middleware ran; server-set
// fields like Project.manager are always taken from here, never from client
// input, so callers cannot forge another user's identity.
func ctxIdentity(c echo.Context) (ports.Identity, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	role, _ := c.Get(middleware.CtxRole).(domain.Role)
	if userID == "" || !role.Valid() {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Identity{UserID: userID, Role: role}, nil
}
