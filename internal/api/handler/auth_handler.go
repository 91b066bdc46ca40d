package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brainydx/task-tracker/internal/api/metrics"
	"github.com/brainydx/task-tracker/internal/core/domain"
	"github.com/brainydx/task-tracker/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=admin manager employee"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	User *domain.User `json:"user"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidRole):
			status = http.StatusBadRequest
		}
		return echo.NewHTTPError(status, err.Error())
	}

	metrics.UsersRegisteredTotal.WithLabelValues(string(user.Role)).Inc()
	return c.JSON(http.StatusCreated, registerResponse{User: user})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, role, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token, Role: string(role)})
}
