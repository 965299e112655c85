package ports

import (
	"context"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier validates a bearer token and returns its identity payload.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// RevocationStore records users whose outstanding tokens must be rejected.
type RevocationStore interface {
	RevokeUser(ctx context.Context, userID string) error
	IsRevoked(ctx context.Context, userID string) (bool, error)
}

// OwnerCleanup schedules removal of every cat owned by a deleted user.
type OwnerCleanup interface {
	Enqueue(ownerID string)
}
