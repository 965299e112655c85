package ports

import (
	"context"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// RegisterUserInput carries the fields accepted at registration.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserInput carries the fields a user may change on their own account.
// Role is deliberately absent.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService defines use-case operations for user accounts.
type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateCurrent(ctx context.Context, actor domain.Identity, input UpdateUserInput) (*domain.User, error)
	DeleteCurrent(ctx context.Context, actor domain.Identity) (*domain.User, error)
}
