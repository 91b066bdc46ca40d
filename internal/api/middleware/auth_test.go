package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brainydx/task-tracker/internal/core/domain"
	"github.com/brainydx/task-tracker/internal/core/service"
)

type stubUserRepo struct {
	user *domain.User
	err  error
}

func (r *stubUserRepo) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, nil
}

func (r *stubUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.user, nil
}

func (r *stubUserRepo) NamesByIDs(context.Context, []string) (map[string]string, error) {
	return nil, nil
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func invokeAuth(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, mw(okHandler)(c)
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, err := tokens.Issue("u1", domain.RoleManager)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	c, err := invokeAuth(t, Auth(tokens, nil), "Bearer "+token)
	if err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}
	if got := c.Get(CtxUserID); got != "u1" {
		t.Errorf("user id = %v, want u1", got)
	}
	if got := c.Get(CtxRole); got != domain.RoleManager {
		t.Errorf("role = %v, want manager", got)
	}
}

func TestAuth_LowercaseBearerScheme(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, _ := tokens.Issue("u1", domain.RoleEmployee)

	if _, err := invokeAuth(t, Auth(tokens, nil), "bearer "+token); err != nil {
		t.Fatalf("scheme should be case-insensitive, got %v", err)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)

	_, err := invokeAuth(t, Auth(tokens, nil), "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)

	for _, header := range []string{"Bearer", "Basic abc", "token-without-scheme"} {
		_, err := invokeAuth(t, Auth(tokens, nil), header)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %v", header, err)
		}
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	other := service.NewTokenService("other-secret", time.Hour)
	token, _ := other.Issue("u1", domain.RoleAdmin)

	_, err := invokeAuth(t, Auth(tokens, nil), "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for foreign signature, got %v", err)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	expired := service.NewTokenService("secret", -time.Minute)
	token, _ := expired.Issue("u1", domain.RoleAdmin)

	tokens := service.NewTokenService("secret", time.Hour)
	_, err := invokeAuth(t, Auth(tokens, nil), "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %v", err)
	}
}

func TestAuth_RoleRecheckOverridesClaim(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, _ := tokens.Issue("u1", domain.RoleManager)

	// the store says the user was demoted after the token was issued
	repo := &stubUserRepo{user: &domain.User{ID: "u1", Role: domain.RoleEmployee}}
	c, err := invokeAuth(t, Auth(tokens, repo), "Bearer "+token)
	if err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}
	if got := c.Get(CtxRole); got != domain.RoleEmployee {
		t.Errorf("role = %v, want the store's employee role", got)
	}
}

func TestAuth_RoleRecheckDeletedUser(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, _ := tokens.Issue("u1", domain.RoleManager)

	repo := &stubUserRepo{err: domain.ErrUserNotFound}
	_, err := invokeAuth(t, Auth(tokens, repo), "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %v", err)
	}
}
