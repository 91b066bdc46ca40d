package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/brainydx/task-tracker/internal/core/domain"
)

type stubAuthService struct {
	registerErr error
	loginErr    error
	token       string
	role        domain.Role

	gotName  string
	gotEmail string
	gotRole  domain.Role
}

func (s *stubAuthService) Register(_ context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	s.gotName, s.gotEmail, s.gotRole = name, email, role
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &domain.User{ID: "u1", Name: name, Email: email, Role: role}, nil
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (string, domain.Role, error) {
	s.gotEmail = email
	if s.loginErr != nil {
		return "", "", s.loginErr
	}
	return s.token, s.role, nil
}

func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"ana@example.com","password":"secret1","role":"manager"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if svc.gotRole != domain.RoleManager {
		t.Errorf("service got role %s, want manager", svc.gotRole)
	}

	var body registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.User == nil || body.User.Email != "ana@example.com" {
		t.Errorf("unexpected user payload: %+v", body.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("password material leaked into response: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	cases := map[string]string{
		"missing name":   `{"email":"a@b.com","password":"secret1","role":"admin"}`,
		"bad email":      `{"name":"A","email":"not-an-email","password":"secret1","role":"admin"}`,
		"short password": `{"name":"A","email":"a@b.com","password":"abc","role":"admin"}`,
		"unknown role":   `{"name":"A","email":"a@b.com","password":"secret1","role":"root"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newJSONContext(http.MethodPost, "/api/auth/register", body)
			err := h.Register(c)
			if got := httpStatus(t, err); got != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", got)
			}
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{registerErr: domain.ErrEmailTaken})

	c, _ := newJSONContext(http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"ana@example.com","password":"secret1","role":"employee"}`)
	err := h.Register(c)
	if got := httpStatus(t, err); got != http.StatusConflict {
		t.Errorf("status = %d, want 409", got)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{token: "signed.jwt.token", role: domain.RoleAdmin}
	h := NewAuthHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Token != "signed.jwt.token" {
		t.Errorf("token = %q", body.Token)
	}
	if body.Role != "admin" {
		t.Errorf("role = %q, want admin", body.Role)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrInvalidCredentials})

	c, _ := newJSONContext(http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"wrong-password"}`)
	err := h.Login(c)
	if got := httpStatus(t, err); got != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", got)
	}
}

func TestAuthHandler_Login_Validation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com"}`)
	err := h.Login(c)
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", got)
	}
}
