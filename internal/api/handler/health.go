package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler handles GET /health — liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready — checks MongoDB (and Redis when
// the broadcast bridge is enabled) before declaring the service ready.
type ReadinessHandler struct {
	mongo *mongo.Database
	redis *redis.Client // nil when the redis bridge is disabled
}

func NewReadinessHandler(db *mongo.Database, rdb *redis.Client) *ReadinessHandler {
	return &ReadinessHandler{mongo: db, redis: rdb}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.mongo.Client().Ping(ctx, nil); err != nil {
		deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["mongodb"] = dependencyStatus{Status: "ok"}
	}

	if h.redis != nil {
		if _, err := h.redis.Ping(ctx).Result(); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
