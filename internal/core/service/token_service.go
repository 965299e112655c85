package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// TokenService signs and verifies HS256 bearer tokens. The secret is fixed for
// the lifetime of the process.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns how long issued tokens stay valid.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue returns a signed token carrying the user's id, public fields and role.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":        user.ID,
		"user_name": user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its identity.
// Every failure is reported as domain.ErrUnauthorized.
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	name, _ := claims["user_name"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	return domain.Identity{UserID: id, Name: name, Email: email, Role: role}, nil
}
