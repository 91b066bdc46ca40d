package domain

import (
	"errors"
	"time"
)

var ErrProjectNotFound = errors.New("project not found")

// Project groups tasks under a single manager. The manager reference is
// always the authenticated creator, never client input.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ManagerID   string    `json:"manager"`
	EmployeeIDs []string  `json:"employees"`
	CreatedAt   time.Time `json:"createdAt"`
}
