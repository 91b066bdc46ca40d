package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/brainydx/task-tracker/internal/core/domain"
	"github.com/brainydx/task-tracker/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

// Register hashes the password and persists a new user. The plaintext password
// is never stored or logged.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login verifies credentials and mints a session token. Unknown email and
// wrong password are indistinguishable to the caller so accounts cannot be
// enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.Role, error) {
	if email == "" || password == "" {
		return "", "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", "", domain.ErrInvalidCredentials
		}
		return "", "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")
	return token, user.Role, nil
}
