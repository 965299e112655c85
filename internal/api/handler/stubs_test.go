package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/api/middleware"
	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

type stubUserService struct {
	registerFn      func(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error)
	loginFn         func(ctx context.Context, email, password string) (string, *domain.User, error)
	getFn           func(ctx context.Context, id string) (*domain.User, error)
	listFn          func(ctx context.Context) ([]*domain.User, error)
	updateCurrentFn func(ctx context.Context, actor domain.Identity, in ports.UpdateUserInput) (*domain.User, error)
	deleteCurrentFn func(ctx context.Context, actor domain.Identity) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) UpdateCurrent(ctx context.Context, actor domain.Identity, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateCurrentFn(ctx, actor, in)
}

func (s *stubUserService) DeleteCurrent(ctx context.Context, actor domain.Identity) (*domain.User, error) {
	return s.deleteCurrentFn(ctx, actor)
}

type stubCatService struct {
	listFn          func(ctx context.Context) ([]*domain.Cat, error)
	getFn           func(ctx context.Context, id string) (*domain.Cat, error)
	listByOwnerFn   func(ctx context.Context, actor domain.Identity) ([]*domain.Cat, error)
	listInAreaFn    func(ctx context.Context, box domain.BoundingBox) ([]*domain.Cat, error)
	createFn        func(ctx context.Context, actor domain.Identity, in ports.CreateCatInput) (*domain.Cat, error)
	updateFn        func(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error)
	updateAsAdminFn func(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error)
	deleteFn        func(ctx context.Context, actor domain.Identity, id string) (*domain.Cat, error)
	deleteAsAdminFn func(ctx context.Context, actor domain.Identity, id string) (*domain.Cat, error)
}

func (s *stubCatService) List(ctx context.Context) ([]*domain.Cat, error) { return s.listFn(ctx) }

func (s *stubCatService) Get(ctx context.Context, id string) (*domain.Cat, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatService) ListByOwner(ctx context.Context, actor domain.Identity) ([]*domain.Cat, error) {
	return s.listByOwnerFn(ctx, actor)
}

func (s *stubCatService) ListInArea(ctx context.Context, box domain.BoundingBox) ([]*domain.Cat, error) {
	return s.listInAreaFn(ctx, box)
}

func (s *stubCatService) Create(ctx context.Context, actor domain.Identity, in ports.CreateCatInput) (*domain.Cat, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubCatService) Update(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubCatService) UpdateAsAdmin(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error) {
	return s.updateAsAdminFn(ctx, actor, id, patch)
}

func (s *stubCatService) Delete(ctx context.Context, actor domain.Identity, id string) (*domain.Cat, error) {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubCatService) DeleteAsAdmin(ctx context.Context, actor domain.Identity, id string) (*domain.Cat, error) {
	return s.deleteAsAdminFn(ctx, actor, id)
}

const (
	ownerID = "64b7f0a1c2d3e4f5a6b7c8d9"
	catID   = "64b7f0a1c2d3e4f5a6b7c8e0"
)

var owner = domain.Identity{UserID: ownerID, Name: "Ann Lee", Email: "ann@example.com", Role: domain.RoleUser}

// requestOpts describes one request to a handler under test.
type requestOpts struct {
	method   string
	target   string
	body     string
	identity *domain.Identity
	params   map[string]string
}

func newContext(opts requestOpts) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var body io.Reader
	if opts.body != "" {
		body = strings.NewReader(opts.body)
	}
	req := httptest.NewRequest(opts.method, opts.target, body)
	if opts.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(opts.params) > 0 {
		names := make([]string, 0, len(opts.params))
		values := make([]string, 0, len(opts.params))
		for k, v := range opts.params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if opts.identity != nil {
		c.Set(middleware.IdentityKey, *opts.identity)
	}
	return c, rec
}
