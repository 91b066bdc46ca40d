package ports

import (
	"context"
	"time"

	"github.com/brainydx/task-tracker/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	// TitlesByIDs resolves a set of project ids to titles. Unknown ids are
	// absent from the result.
	TitlesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

// CreateProjectInput carries the data needed to create a project. ManagerID
// comes from the authenticated identity, never from the request body.
type CreateProjectInput struct {
	Title       string
	Description string
	EmployeeIDs []string
	ManagerID   string
}

// MemberView is a user reference expanded to its display name.
type MemberView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectView is the read model with references expanded to display names.
type ProjectView struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Manager     MemberView   `json:"manager"`
	Employees   []MemberView `json:"employees"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// ProjectService defines use-case operations for projects.
type ProjectService interface {
	Create(ctx context.Context, input CreateProjectInput) (*ProjectView, error)
	List(ctx context.Context) ([]ProjectView, error)
}
