package ports

import (
	"context"
	"time"

	"github.com/brainydx/task-tracker/internal/core/domain"
)

// TaskFilter carries the optional list filters. Empty fields are not applied.
type TaskFilter struct {
	Search     string // case-insensitive substring match on title
	Status     string // exact match
	Priority   string // exact match
	AssigneeID string // exact match
}

// TaskPatch is the whitelisted set of mutable task fields. Nil means "leave
// unchanged"; anything outside this set can never be overwritten through an
// update.
type TaskPatch struct {
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	Description *string
	Deadline    *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Status == nil && p.Priority == nil && p.Description == nil && p.Deadline == nil
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// Update applies a partial patch and returns the updated record.
	Update(ctx context.Context, id string, patch TaskPatch) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
}

// CreateTaskInput carries the data needed to create a task.
type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   string
	AssigneeID  string
	Priority    domain.TaskPriority // empty = medium
	Deadline    *time.Time
}

// ProjectRef is a project reference expanded to its title.
type ProjectRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TaskView is the read model with references expanded to display fields. It is
// also the broadcast payload, so the push path and the response path always
// deliver the same shape.
type TaskView struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Project     ProjectRef          `json:"project"`
	AssignedTo  MemberView          `json:"assignedTo"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	Deadline    *time.Time          `json:"deadline,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// TaskService defines use-case operations for tasks.
type TaskService interface {
	Create(ctx context.Context, input CreateTaskInput) (*TaskView, error)
	// Update applies patch to the task after checking the actor may touch it:
	// managers always, employees only on their own tasks.
	Update(ctx context.Context, id string, patch TaskPatch, actor Identity) (*TaskView, error)
	List(ctx context.Context, filter TaskFilter) ([]TaskView, error)
}
