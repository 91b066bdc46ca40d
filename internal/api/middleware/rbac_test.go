package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/brainydx/task-tracker/internal/core/domain"
)

func invokeRBAC(t *testing.T, mw echo.MiddlewareFunc, role interface{}) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set(CtxRole, role)
	}
	return mw(okHandler)(c)
}

func TestRBAC_AllowedRole(t *testing.T) {
	mw := RBAC(domain.RoleAdmin, domain.RoleManager)

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleManager} {
		if err := invokeRBAC(t, mw, role); err != nil {
			t.Errorf("role %s: expected pass-through, got %v", role, err)
		}
	}
}

func TestRBAC_DeniedRole(t *testing.T) {
	mw := RBAC(domain.RoleAdmin, domain.RoleManager)

	err := invokeRBAC(t, mw, domain.RoleEmployee)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestRBAC_MissingIdentity(t *testing.T) {
	mw := RBAC(domain.RoleAdmin)

	// no role in context, e.g. a route wired without Auth in front
	err := invokeRBAC(t, mw, nil)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestRBAC_WrongTypeInContext(t *testing.T) {
	mw := RBAC(domain.RoleAdmin)

	err := invokeRBAC(t, mw, "admin")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for untyped role value, got %v", err)
	}
}
