package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority represents how urgent a task is.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrUnknownProject  = errors.New("referenced project does not exist")
	ErrUnknownAssignee = errors.New("referenced employee does not exist")
)

// Task is a unit of work inside a project, assigned to exactly one user.
// Referential integrity on ProjectID and AssigneeID is enforced at write time.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ProjectID   string       `json:"project"`
	AssigneeID  string       `json:"assignedTo"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}
