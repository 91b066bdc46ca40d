package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brainydx/task-tracker/internal/api/handler"
	"github.com/brainydx/task-tracker/internal/api/middleware"
	"github.com/brainydx/task-tracker/internal/core/domain"
	"github.com/brainydx/task-tracker/internal/core/ports"
	"github.com/brainydx/task-tracker/internal/core/service"
	"github.com/brainydx/task-tracker/internal/infrastructure/broadcast"
	"github.com/brainydx/task-tracker/internal/infrastructure/config"
	mongodb "github.com/brainydx/task-tracker/internal/infrastructure/db/mongo"
)

// guardedRoute binds a route to its access policy. Every non-public route
// must appear here with a non-empty role set; the table is validated when the
// router is built so a route without a declared policy is a startup failure,
// not a silently public endpoint.
type guardedRoute struct {
	method  string
	path    string
	roles   []domain.Role
	handler echo.HandlerFunc
}

var allRoles = []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, hub *broadcast.Hub, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("tasktracker"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService, log)
	projectService := service.NewProjectService(projectRepo, userRepo, log)
	taskService := service.NewTaskService(taskRepo, projectRepo, userRepo, hub, log)

	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	streamHandler := handler.NewStreamHandler(hub, log)

	// Role re-check per request is an explicit deployment choice; the default
	// trusts the token's role claim for its 24h lifetime.
	var roleSource ports.UserRepository
	if cfg.AuthRecheckRole {
		roleSource = userRepo
	}
	authMiddleware := middleware.Auth(tokenService, roleSource)

	// --- Public routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Guarded routes ---
	guarded := []guardedRoute{
		{http.MethodPost, "/api/projects", []domain.Role{domain.RoleManager}, projectHandler.Create},
		{http.MethodGet, "/api/projects", allRoles, projectHandler.List},
		{http.MethodPost, "/api/tasks", []domain.Role{domain.RoleManager}, taskHandler.Create},
		{http.MethodPut, "/api/tasks/:id", []domain.Role{domain.RoleEmployee, domain.RoleManager}, taskHandler.Update},
		{http.MethodGet, "/api/tasks", allRoles, taskHandler.List},
		{http.MethodGet, "/api/events", allRoles, streamHandler.Stream},
	}
	for _, r := range guarded {
		if len(r.roles) == 0 {
			return nil, fmt.Errorf("router: %s %s has no declared role policy", r.method, r.path)
		}
		for _, role := range r.roles {
			if !role.Valid() {
				return nil, fmt.Errorf("router: %s %s declares unknown role %q", r.method, r.path, role)
			}
		}
		e.Add(r.method, r.path, r.handler, authMiddleware, middleware.RBAC(r.roles...))
	}

	return e, nil
}
