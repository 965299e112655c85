package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/api/metrics"
	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

// CatHandler handles HTTP requests for cats.
type CatHandler struct {
	service ports.CatService
}

func NewCatHandler(service ports.CatService) *CatHandler {
	return &CatHandler{service: service}
}

// List handles GET /cats. Owners are expanded to their public fields.
//
// @Summary      List cats
// @Tags         cats
// @Produce      json
// @Success      200  {array}   catResponse
// @Failure      500  {object}  errorResponse
// @Router       /cats [get]
func (h *CatHandler) List(c echo.Context) error {
	cats, err := h.service.List(c.Request().Context())
	if err != nil {
		return failure(err, "Error while getting cats")
	}
	return c.JSON(http.StatusOK, toCatResponses(cats))
}

// Get handles GET /cats/:id.
//
// @Summary      Get a cat by id
// @Tags         cats
// @Produce      json
// @Param        id   path      string  true  "Cat id"
// @Success      200  {object}  catResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /cats/{id} [get]
func (h *CatHandler) Get(c echo.Context) error {
	var req idParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := h.service.Get(c.Request().Context(), req.ID)
	if err != nil {
		return failure(err, "Error while getting cat")
	}
	return c.JSON(http.StatusOK, toCatResponse(cat))
}

// ListInArea handles GET /cats/area?topRight=lat,lon&bottomLeft=lat,lon.
//
// @Summary      List cats inside a bounding box
// @Tags         cats
// @Produce      json
// @Param        topRight    query     string  true  "Top right corner as lat,lon"
// @Param        bottomLeft  query     string  true  "Bottom left corner as lat,lon"
// @Success      200         {array}   catResponse
// @Failure      400         {object}  errorResponse
// @Failure      500         {object}  errorResponse
// @Router       /cats/area [get]
func (h *CatHandler) ListInArea(c echo.Context) error {
	var req areaQuery
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	box, err := domain.ParseBoundingBox(req.BottomLeft, req.TopRight)
	if err != nil {
		return err
	}

	cats, err := h.service.ListInArea(c.Request().Context(), box)
	if err != nil {
		return failure(err, "Error while getting cats")
	}
	return c.JSON(http.StatusOK, toCatResponses(cats))
}

// ListMine handles GET /cats/mycats.
//
// @Summary      List the authenticated user's cats
// @Tags         cats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   catResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /cats/mycats [get]
func (h *CatHandler) ListMine(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	cats, err := h.service.ListByOwner(c.Request().Context(), identity)
	if err != nil {
		return failure(err, "Error while getting cats")
	}
	return c.JSON(http.StatusOK, toCatResponses(cats))
}

// Create handles POST /cats. The owner is always the authenticated user.
//
// @Summary      Create a cat
// @Tags         cats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCatRequest  true  "Cat details"
// @Success      201   {object}  catMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /cats [post]
func (h *CatHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req createCatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := h.service.Create(c.Request().Context(), identity, toCreateCatInput(req))
	if err != nil {
		return failure(err, "Error while creating cat")
	}
	metrics.CatsCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, catMessageResponse{
		Message: "Cat created",
		Data:    toCatResponse(cat),
	})
}

// Update handles PUT /cats/:id for the cat's owner. Ownership cannot be
// changed here.
//
// @Summary      Update one of your cats
// @Tags         cats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Cat id"
// @Param        body  body      updateCatRequest  true  "Fields to change"
// @Success      200   {object}  catMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /cats/{id} [put]
func (h *CatHandler) Update(c echo.Context) error {
	return h.update(c, h.service.Update)
}

// UpdateAsAdmin handles PUT /cats/admin/:id. Admins may reassign the owner.
//
// @Summary      Update any cat (admin)
// @Tags         cats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Cat id"
// @Param        body  body      updateCatRequest  true  "Fields to change, including owner"
// @Success      200   {object}  catMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /cats/admin/{id} [put]
func (h *CatHandler) UpdateAsAdmin(c echo.Context) error {
	return h.update(c, h.service.UpdateAsAdmin)
}

// Delete handles DELETE /cats/:id for the cat's owner.
//
// @Summary      Delete one of your cats
// @Tags         cats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cat id"
// @Success      200  {object}  catMessageResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /cats/{id} [delete]
func (h *CatHandler) Delete(c echo.Context) error {
	return h.delete(c, h.service.Delete)
}

// DeleteAsAdmin handles DELETE /cats/admin/:id.
//
// @Summary      Delete any cat (admin)
// @Tags         cats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cat id"
// @Success      200  {object}  catMessageResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /cats/admin/{id} [delete]
func (h *CatHandler) DeleteAsAdmin(c echo.Context) error {
	return h.delete(c, h.service.DeleteAsAdmin)
}

type updateFunc func(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error)

type deleteFunc func(ctx context.Context, actor domain.Identity, id string) (*domain.Cat, error)

func (h *CatHandler) update(c echo.Context, apply updateFunc) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req updateCatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := apply(c.Request().Context(), identity, req.ID, toCatPatch(req))
	if err != nil {
		return failure(err, "Error while updating cat")
	}
	return c.JSON(http.StatusOK, catMessageResponse{
		Message: "Cat updated",
		Data:    toCatResponse(cat),
	})
}

func (h *CatHandler) delete(c echo.Context, remove deleteFunc) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req idParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := remove(c.Request().Context(), identity, req.ID)
	if err != nil {
		return failure(err, "Error while deleting cat")
	}
	return c.JSON(http.StatusOK, catMessageResponse{
		Message: "Cat deleted",
		Data:    toCatResponse(cat),
	})
}
