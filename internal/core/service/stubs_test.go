package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	nextID    int
	findErr   error // if set, FindByEmail returns this error
	updateLog []domain.UserPatch
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[created.ID] = created
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	r.updateLog = append(r.updateLog, patch)
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.users, id)
	return cloneUser(u), nil
}

// ---------------------------------------------------------------------------
// In-memory cat repository (mirrors the Mongo query semantics)
// ---------------------------------------------------------------------------

type stubCatRepo struct {
	cats      map[string]*domain.Cat
	users     map[string]*domain.User // used to expand owners
	nextID    int
	createErr error
	existsErr error
}

func newStubCatRepo() *stubCatRepo {
	return &stubCatRepo{cats: make(map[string]*domain.Cat), users: make(map[string]*domain.User)}
}

func (r *stubCatRepo) clone(c *domain.Cat, populate bool) *domain.Cat {
	clone := *c
	clone.Owner = nil
	if populate {
		if u, ok := r.users[c.OwnerID]; ok {
			clone.Owner = &domain.User{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	return &clone
}

func (r *stubCatRepo) Create(_ context.Context, cat *domain.Cat) (*domain.Cat, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	stored := *cat
	stored.ID = fmt.Sprintf("cat-%d", r.nextID)
	r.cats[stored.ID] = &stored
	return r.clone(&stored, false), nil
}

func (r *stubCatRepo) FindByID(_ context.Context, id string) (*domain.Cat, error) {
	c, ok := r.cats[id]
	if !ok {
		return nil, domain.ErrCatNotFound
	}
	return r.clone(c, true), nil
}

func (r *stubCatRepo) Exists(_ context.Context, id string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.cats[id]
	return ok, nil
}

func (r *stubCatRepo) List(_ context.Context, f ports.CatFilter) ([]*domain.Cat, error) {
	var out []*domain.Cat
	for _, c := range r.cats {
		if f.OwnerID != "" && c.OwnerID != f.OwnerID {
			continue
		}
		if f.Area != nil && !boxContains(*f.Area, c.Location) {
			continue
		}
		out = append(out, r.clone(c, f.PopulateOwner))
	}
	return out, nil
}

func (r *stubCatRepo) match(id, ownerID string) (*domain.Cat, bool) {
	c, ok := r.cats[id]
	if !ok || (ownerID != "" && c.OwnerID != ownerID) {
		return nil, false
	}
	return c, true
}

func (r *stubCatRepo) Update(_ context.Context, id, ownerID string, p domain.CatPatch) (*domain.Cat, error) {
	c, ok := r.match(id, ownerID)
	if !ok {
		return nil, domain.ErrCatNotFound
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Weight != nil {
		c.Weight = *p.Weight
	}
	if p.Filename != nil {
		c.Filename = *p.Filename
	}
	if p.Birthdate != nil {
		c.Birthdate = *p.Birthdate
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.OwnerID != nil {
		c.OwnerID = *p.OwnerID
	}
	return r.clone(c, false), nil
}

func (r *stubCatRepo) Delete(_ context.Context, id, ownerID string) (*domain.Cat, error) {
	c, ok := r.match(id, ownerID)
	if !ok {
		return nil, domain.ErrCatNotFound
	}
	delete(r.cats, id)
	return r.clone(c, false), nil
}

func (r *stubCatRepo) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for id, c := range r.cats {
		if c.OwnerID == ownerID {
			delete(r.cats, id)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubTokens struct {
	issued []string
	err    error
}

func (s *stubTokens) Issue(user *domain.User) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.issued = append(s.issued, user.ID)
	return "token-" + user.ID, nil
}

type stubRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
	err     error
}

func (s *stubRevoker) RevokeUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.revoked == nil {
		s.revoked = make(map[string]bool)
	}
	s.revoked[userID] = true
	return nil
}

func (s *stubRevoker) IsRevoked(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[userID], nil
}

type stubCleanup struct {
	owners []string
}

func (s *stubCleanup) Enqueue(ownerID string) {
	s.owners = append(s.owners, ownerID)
}

// boxContains mirrors the inclusive edges of Mongo's $geoWithin $box.
func boxContains(b domain.BoundingBox, loc domain.Location) bool {
	return loc.Lat >= b.BottomLeft.Lat && loc.Lat <= b.TopRight.Lat &&
		loc.Lon >= b.BottomLeft.Lon && loc.Lon <= b.TopRight.Lon
}
