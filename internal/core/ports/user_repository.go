package ports

import (
	"context"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a user and returns it with its store-assigned id.
	// Returns domain.ErrEmailTaken when the unique email index rejects it.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update applies patch and returns the updated record.
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	// Delete removes the user and returns the deleted record.
	Delete(ctx context.Context, id string) (*domain.User, error)
}
