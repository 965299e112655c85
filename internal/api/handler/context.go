package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/api/middleware"
	"github.com/catregistry/cat-api/internal/core/domain"
)

// currentIdentity returns the identity verified by the Auth middleware. A
// missing identity means the route was wired without Auth.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := c.Get(middleware.IdentityKey).(domain.Identity)
	if !ok || identity.UserID == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return identity, nil
}

// bindAndValidate binds the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
