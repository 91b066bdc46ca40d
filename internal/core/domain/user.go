package domain

import (
	"errors"
	"fmt"
	"time"
)

// Role is the closed set of actor roles. A dedicated type keeps invalid roles
// unrepresentable past the parsing boundary.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole converts a raw string into a Role, rejecting anything outside the
// closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access forbidden")
)

// User models a registered actor. PasswordHash never crosses the API boundary.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
