package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brainydx/task-tracker/internal/core/ports"
)

type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

type createProjectRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Employees   []string `json:"employees"`
}

// Create handles POST /api/projects. The manager is always the authenticated
// caller; a manager id in the body is ignored.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  ports.ProjectView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var req createProjectRequest
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

	project, err := h.service.Create(c.Request().Context(), ports.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		EmployeeIDs: req.Employees,
		ManagerID:   identity.UserID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, project)
}

// List handles GET /api/projects. All authorized roles see all projects.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.ProjectView
// @Failure      401  {object}  errorResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}
