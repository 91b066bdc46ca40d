package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brainydx/task-tracker/internal/core/domain"
	"github.com/brainydx/task-tracker/internal/core/ports"
)

type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	Title       string     `json:"title"      validate:"required"`
	Description string     `json:"description"`
	ProjectID   string     `json:"projectId"  validate:"required"`
	EmployeeID  string     `json:"employeeId" validate:"required"`
	Priority    string     `json:"priority"   validate:"omitempty,oneof=low medium high"`
	Deadline    *time.Time `json:"deadline"`
}

// updateTaskRequest is the whitelisted patch surface. Unknown body fields are
// dropped at bind time and never reach the store.
type updateTaskRequest struct {
	Status      *string    `json:"status"      validate:"omitempty,oneof=pending in-progress completed"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// Create handles POST /api/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  ports.TaskView
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.EmployeeID,
		Priority:    domain.TaskPriority(req.Priority),
		Deadline:    req.Deadline,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

// Update handles PUT /api/tasks/:id. The updated record is returned
// synchronously and also broadcast to every connected session.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  ports.TaskView
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	patch := ports.TaskPatch{
		Description: req.Description,
		Deadline:    req.Deadline,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}

	task, err := h.service.Update(c.Request().Context(), c.Param("id"), patch, identity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// List handles GET /api/tasks with optional filters.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Case-insensitive title substring"
// @Param        status    query     string  false  "Exact status"
// @Param        priority  query     string  false  "Exact priority"
// @Param        employee  query     string  false  "Exact assignee id"
// @Success      200       {array}   ports.TaskView
// @Failure      401       {object}  errorResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.service.List(c.Request().Context(), ports.TaskFilter{
		Search:     c.QueryParam("search"),
		Status:     c.QueryParam("status"),
		Priority:   c.QueryParam("priority"),
		AssigneeID: c.QueryParam("employee"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}
