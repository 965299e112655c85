package ports

import (
	"context"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// CatFilter narrows a cat listing. Zero values mean "no restriction".
type CatFilter struct {
	OwnerID string
	Area    *domain.BoundingBox
	// PopulateOwner expands each cat's owner to its public fields.
	PopulateOwner bool
}

// CatRepository defines persistence operations for cats.
type CatRepository interface {
	Create(ctx context.Context, cat *domain.Cat) (*domain.Cat, error)
	// FindByID returns the cat with its owner expanded.
	FindByID(ctx context.Context, id string) (*domain.Cat, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter CatFilter) ([]*domain.Cat, error)
	// Update applies patch to the cat with the given id. When ownerID is
	// non-empty the write is conditioned on the cat being owned by ownerID;
	// a non-matching condition returns domain.ErrCatNotFound.
	Update(ctx context.Context, id, ownerID string, patch domain.CatPatch) (*domain.Cat, error)
	// Delete removes the cat and returns its last state. ownerID behaves as in Update.
	Delete(ctx context.Context, id, ownerID string) (*domain.Cat, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
