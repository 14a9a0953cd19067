package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ratehub/internal/auth"
	"ratehub/internal/repository"
	"ratehub/internal/service"
)

// StoreHandler handles store endpoints.
type StoreHandler struct {
	storeService service.StoreService
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(storeService service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// CreateStoreRequest represents a store creation request. The password is
// for the store-owner account provisioned alongside the store.
type CreateStoreRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address" validate:"required,max=400"`
	Password string `json:"password" validate:"required,password"`
}

// CreateStore godoc
// @Summary Create a store and its owner account
// @Tags stores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateStoreRequest true "Store data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /stores [post]
func (h *StoreHandler) CreateStore(c echo.Context) error {
	var req CreateStoreRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}

	store, err := h.storeService.CreateStore(c.Request().Context(), req.Name, req.Email, req.Address, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "store created successfully",
		"store":   store,
	})
}

// ListStores godoc
// @Summary List stores with aggregates
// @Description Normal users additionally see their own rating per store.
// @Tags stores
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name substring"
// @Param email query string false "Email substring"
// @Param address query string false "Address substring"
// @Param sortBy query string false "name|email|address|rating"
// @Param sortOrder query string false "asc|desc"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /stores [get]
func (h *StoreHandler) ListStores(c echo.Context) error {
	viewer, ok := auth.UserFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	filter := repository.StoreFilter{
		Name:      c.QueryParam("name"),
		Email:     c.QueryParam("email"),
		Address:   c.QueryParam("address"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}

	stores, err := h.storeService.ListStores(c.Request().Context(), filter, viewer)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"stores": stores})
}

// Dashboard godoc
// @Summary Store-owner dashboard
// @Tags stores
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.OwnerDashboard
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /stores/dashboard [get]
func (h *StoreHandler) Dashboard(c echo.Context) error {
	owner, ok := auth.UserFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	dashboard, err := h.storeService.OwnerDashboard(c.Request().Context(), owner.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dashboard)
}
