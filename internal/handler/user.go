package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-service/internal/repository"
	"github.com/iliyamo/user-auth-service/internal/utils"
)

// UserHandler bundles dependencies for the admin user-management endpoints.
// Every route using it sits behind RequireAuth + RequireActive + RequireAdmin.
type UserHandler struct {
	Users    repository.UserStore
	validate *validator.Validate
}

func NewUserHandler(users repository.UserStore) *UserHandler {
	return &UserHandler{Users: users, validate: validator.New()}
}

type userUpdateReq struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Username  *string `json:"username" validate:"omitempty,min=3,max=50,alphanum"`
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	IsActive  *bool   `json:"is_active"`
	IsAdmin   *bool   `json:"is_admin"`
}

type userListResp struct {
	Users      interface{}    `json:"users"`
	Pagination utils.PageInfo `json:"pagination"`
}

// List returns a page of users. Query params: page (1-based), size,
// active_only.
func (h *UserHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	activeOnly := c.QueryParam("active_only") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	total, err := h.Users.Count(ctx, activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count users failed"})
	}
	users, err := h.Users.List(ctx, (page-1)*size, size, activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}
	return c.JSON(http.StatusOK, userListResp{Users: users, Pagination: utils.Paginate(total, page, size)})
}

// Search matches active users by name, email or username substring.
func (h *UserHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q required"})
	}
	page, size := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Users.Search(ctx, q, (page-1)*size, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search users failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "page": page, "size": size})
}

// Get returns one user by id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// Update applies partial changes to a user record.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fieldErrors(err)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Username != nil {
		u.Username = strings.TrimSpace(*req.Username)
	}
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.IsAdmin != nil {
		u.IsAdmin = *req.IsAdmin
	}

	if err := h.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) || errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}

	u, err = h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// Delete soft deletes a user by clearing the active flag. The record stays in
// the store so uniqueness checks keep seeing its email and username.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deactivated"})
}

func idParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(c.QueryParam("size"))
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}
