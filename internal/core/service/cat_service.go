package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

type CatService struct {
	repo   ports.CatRepository
	logger zerolog.Logger
}

func NewCatService(repo ports.CatRepository, logger zerolog.Logger) *CatService {
	return &CatService{repo: repo, logger: logger}
}

// List returns every cat with its owner expanded.
func (s *CatService) List(ctx context.Context) ([]*domain.Cat, error) {
	return s.repo.List(ctx, ports.CatFilter{PopulateOwner: true})
}

func (s *CatService) Get(ctx context.Context, id string) (*domain.Cat, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByOwner returns the caller's own cats.
func (s *CatService) ListByOwner(ctx context.Context, actor domain.Identity) ([]*domain.Cat, error) {
	return s.repo.List(ctx, ports.CatFilter{OwnerID: actor.UserID})
}

// ListInArea returns every cat located inside box, edges included.
func (s *CatService) ListInArea(ctx context.Context, box domain.BoundingBox) ([]*domain.Cat, error) {
	return s.repo.List(ctx, ports.CatFilter{Area: &box})
}

// Create stores a new cat owned by the caller.
func (s *CatService) Create(ctx context.Context, actor domain.Identity, input ports.CreateCatInput) (*domain.Cat, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	created, err := s.repo.Create(ctx, &domain.Cat{
		Name:      input.Name,
		Weight:    input.Weight,
		Filename:  input.Filename,
		Birthdate: input.Birthdate,
		Location:  input.Location,
		OwnerID:   actor.UserID,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", actor.UserID).Msg("failed to create cat")
		return nil, err
	}

	s.logger.Info().Str("cat_id", created.ID).Str("owner_id", created.OwnerID).Msg("cat created")
	return created, nil
}

// Update replaces the provided fields of a cat owned by the caller. Ownership
// cannot be changed on this path.
func (s *CatService) Update(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error) {
	patch.OwnerID = nil

	updated, err := s.repo.Update(ctx, id, actor.UserID, patch)
	if err != nil {
		return nil, s.ownershipError(ctx, "update", actor, id, err)
	}

	s.logger.Info().Str("cat_id", id).Str("user_id", actor.UserID).Msg("cat updated")
	return updated, nil
}

// UpdateAsAdmin replaces the provided fields of any cat, including its owner.
func (s *CatService) UpdateAsAdmin(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}

	updated, err := s.repo.Update(ctx, id, "", patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("cat_id", id).Str("admin_id", actor.UserID).Msg("cat updated by admin")
	return updated, nil
}

// Delete removes a cat owned by the caller and returns its last state.
func (s *CatService) Delete(ctx context.Context, actor domain.Identity, id string) (*domain.Cat, error) {
	deleted, err := s.repo.Delete(ctx, id, actor.UserID)
	if err != nil {
		return nil, s.ownershipError(ctx, "delete", actor, id, err)
	}

	s.logger.Info().Str("cat_id", id).Str("user_id", actor.UserID).Msg("cat deleted")
	return deleted, nil
}

// DeleteAsAdmin removes any cat.
func (s *CatService) DeleteAsAdmin(ctx context.Context, actor domain.Identity, id string) (*domain.Cat, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}

	deleted, err := s.repo.Delete(ctx, id, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("cat_id", id).Str("admin_id", actor.UserID).Msg("cat deleted by admin")
	return deleted, nil
}

// ownershipError tells apart "no such cat" from "someone else's cat" after an
// owner-conditioned write matched nothing.
func (s *CatService) ownershipError(ctx context.Context, op string, actor domain.Identity, id string, err error) error {
	if !errors.Is(err, domain.ErrCatNotFound) {
		return err
	}

	exists, existsErr := s.repo.Exists(ctx, id)
	if existsErr != nil {
		return fmt.Errorf("%s cat: %w", op, existsErr)
	}
	if !exists {
		return domain.ErrCatNotFound
	}

	s.logger.Warn().Str("cat_id", id).Str("user_id", actor.UserID).Str("operation", op).Msg("ownership check failed")
	return domain.ErrNotCatOwner
}
