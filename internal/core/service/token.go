package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/brainydx/task-tracker/internal/core/domain"
	"github.com/brainydx/task-tracker/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// sessionClaims is the signed token payload: subject id, role, issued-at and
// expires-at. Verification is stateless; there is no revocation list, so a
// token stays valid until natural expiry.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue mints a token for the given subject and role.
func (s *TokenService) Issue(userID string, role domain.Role) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token. Signature mismatch, malformed payload
// and expiry all collapse into domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (*ports.TokenClaims, error) {
	var claims sessionClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}

	out := &ports.TokenClaims{
		UserID: claims.Subject,
		Role:   role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
