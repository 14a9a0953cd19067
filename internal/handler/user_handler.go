package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ratehub/internal/model"
	"ratehub/internal/repository"
	"ratehub/internal/service"
)

// UserHandler bundles the admin-only user endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest represents an admin create-user request. Role is limited
// to admin or user; store owners are created through store creation.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address" validate:"required,max=400"`
	Role     string `json:"role" validate:"required"`
}

// DashboardStats godoc
// @Summary Admin dashboard counters
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/dashboard/stats [get]
func (h *UserHandler) DashboardStats(c echo.Context) error {
	stats, err := h.svc.DashboardStats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// CreateUser godoc
// @Summary Create a user with an assigned role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}

	user, err := h.svc.CreateUser(c.Request().Context(), req.Name, req.Email, req.Password, req.Address, model.Role(req.Role))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user created successfully",
		"user":    user,
	})
}

// ListUsers godoc
// @Summary List users with filters and sorting
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name substring"
// @Param email query string false "Email substring"
// @Param address query string false "Address substring"
// @Param role query string false "Exact role"
// @Param sortBy query string false "name|email|address|role|created_at"
// @Param sortOrder query string false "asc|desc"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	filter := repository.UserFilter{
		Name:      c.QueryParam("name"),
		Email:     c.QueryParam("email"),
		Address:   c.QueryParam("address"),
		Role:      c.QueryParam("role"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}

	users, err := h.svc.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// GetUser godoc
// @Summary User details, with the owned store for store owners
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return badRequest(c, "invalid user id")
	}

	details, err := h.svc.GetUser(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": details})
}
