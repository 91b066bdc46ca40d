package ports

import (
	"context"
	"time"

	"github.com/brainydx/task-tracker/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// NamesByIDs resolves a set of user ids to display names. Unknown ids are
	// simply absent from the result.
	NamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

// AuthService implements registration and the login composition.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	// Login returns a signed session token and the user's role. It fails with
	// domain.ErrInvalidCredentials for both unknown email and wrong password.
	Login(ctx context.Context, email, password string) (string, domain.Role, error)
}

// TokenClaims is the verified content of a session token. Callers must not
// trust any field not present here.
type TokenClaims struct {
	UserID    string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer mints signed, time-limited session tokens.
type TokenIssuer interface {
	Issue(userID string, role domain.Role) (string, error)
}

// TokenVerifier validates a session token and returns its claims. It fails
// with domain.ErrInvalidToken on bad signature, malformed payload or expiry.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// Identity is the authenticated actor attached to a request after the guard
// middleware has run.
type Identity struct {
	UserID string
	Role   domain.Role
}
