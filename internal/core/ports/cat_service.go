package ports

import (
	"context"
	"time"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// CreateCatInput carries every cat field except the owner, which is always
// taken from the authenticated identity.
type CreateCatInput struct {
	Name      string
	Weight    float64
	Filename  string
	Birthdate time.Time
	Location  domain.Location
}

// CatService defines use-case operations for cats.
type CatService interface {
	List(ctx context.Context) ([]*domain.Cat, error)
	Get(ctx context.Context, id string) (*domain.Cat, error)
	ListByOwner(ctx context.Context, actor domain.Identity) ([]*domain.Cat, error)
	ListInArea(ctx context.Context, box domain.BoundingBox) ([]*domain.Cat, error)
	Create(ctx context.Context, actor domain.Identity, input CreateCatInput) (*domain.Cat, error)
	Update(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error)
	UpdateAsAdmin(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error)
	Delete(ctx context.Context, actor domain.Identity, id string) (*domain.Cat, error)
	DeleteAsAdmin(ctx context.Context, actor domain.Identity, id string) (*domain.Cat, error)
}
