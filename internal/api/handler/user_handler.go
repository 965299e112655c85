package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/api/metrics"
	"github.com/catregistry/cat-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   userResponse
// @Failure      500  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return failure(err, "Error while getting users")
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	var req idParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), req.ID)
	if err != nil {
		return failure(err, "Error while getting user")
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Create handles POST /users.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), ports.RegisterUserInput{
		Name:     req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return failure(err, "Error while creating user")
	}
	metrics.UsersRegisteredTotal.Inc()

	return c.JSON(http.StatusCreated, userMessageResponse{
		Message: "User created",
		Data:    toUserResponse(user),
	})
}

// UpdateCurrent handles PUT /users.
//
// @Summary      Update the authenticated user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users [put]
func (h *UserHandler) UpdateCurrent(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateCurrent(c.Request().Context(), identity, toUpdateUserInput(req))
	if err != nil {
		return failure(err, "Error while updating user")
	}
	return c.JSON(http.StatusOK, userMessageResponse{
		Message: "User updated",
		Data:    toUserResponse(user),
	})
}

// DeleteCurrent handles DELETE /users.
//
// @Summary      Delete the authenticated user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userMessageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users [delete]
func (h *UserHandler) DeleteCurrent(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.DeleteCurrent(c.Request().Context(), identity)
	if err != nil {
		return failure(err, "Error while deleting user")
	}
	return c.JSON(http.StatusOK, userMessageResponse{
		Message: "User deleted",
		Data:    toUserResponse(user),
	})
}

// CheckToken handles GET /users/token. It answers from the verified token
// alone and never touches the database.
//
// @Summary      Check a bearer token
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/token [get]
func (h *UserHandler) CheckToken(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{
		ID:       identity.UserID,
		UserName: identity.Name,
		Email:    identity.Email,
	})
}
