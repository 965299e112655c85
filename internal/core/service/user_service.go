package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

// UserService implements registration, login and self-service account management.
type UserService struct {
	repo    ports.UserRepository
	tokens  ports.TokenIssuer
	revoker ports.RevocationStore // optional
	cleanup ports.OwnerCleanup    // optional; nil leaves a deleted user's cats in place
	logger  zerolog.Logger
	cost    int
}

func NewUserService(
	repo ports.UserRepository,
	tokens ports.TokenIssuer,
	revoker ports.RevocationStore,
	cleanup ports.OwnerCleanup,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		repo:    repo,
		tokens:  tokens,
		revoker: revoker,
		cleanup: cleanup,
		logger:  logger,
		cost:    bcrypt.DefaultCost,
	}
}

// Register creates an account with the default role. The email must not be
// in use by another account.
func (s *UserService) Register(ctx context.Context, input ports.RegisterUserInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if input.Name == "" || email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: user_name, email and password are required", domain.ErrInvalidInput)
	}

	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        email,
		Role:         domain.RoleUser,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login checks the credentials and returns a signed token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// UpdateCurrent applies the caller's changes to their own account. A new
// password is hashed exactly once; an absent password leaves the stored hash
// alone. Role cannot be changed here.
func (s *UserService) UpdateCurrent(ctx context.Context, actor domain.Identity, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	var patch domain.UserPatch
	if input.Name != nil {
		patch.Name = input.Name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
		}
		patch.Email = &email
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := s.hash(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	if patch.IsEmpty() {
		return user, nil
	}

	updated, err := s.repo.Update(ctx, user.ID, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

// DeleteCurrent removes the caller's account, revokes their outstanding
// tokens and, when configured, schedules removal of their cats.
func (s *UserService) DeleteCurrent(ctx context.Context, actor domain.Identity) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if s.revoker != nil {
		if err := s.revoker.RevokeUser(ctx, deleted.ID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", deleted.ID).Msg("failed to revoke tokens")
		}
	}
	if s.cleanup != nil {
		s.cleanup.Enqueue(deleted.ID)
	}

	s.logger.Info().Str("user_id", deleted.ID).Msg("user deleted")
	return deleted, nil
}

// ensureEmailFree fails with ErrEmailTaken when email belongs to an account
// other than selfID.
func (s *UserService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check email: %w", err)
	case existing.ID != selfID:
		return domain.ErrEmailTaken
	}
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
