package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ratehub/internal/auth"
	"ratehub/internal/service"
)

// RatingHandler handles rating endpoints.
type RatingHandler struct {
	ratingService service.RatingService
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// SubmitRatingRequest represents a rating submission. A non-integer rating
// fails at bind time.
type SubmitRatingRequest struct {
	StoreID uint `json:"store_id" validate:"required"`
	Rating  int  `json:"rating" validate:"min=1,max=5"`
}

// Submit godoc
// @Summary Submit or update a rating for a store
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitRatingRequest true "Rating"
// @Success 200 {object} map[string]string "existing rating updated"
// @Success 201 {object} map[string]string "new rating created"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ratings [post]
func (h *RatingHandler) Submit(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req SubmitRatingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}

	created, err := h.ratingService.Submit(c.Request().Context(), user.ID, req.StoreID, req.Rating)
	if err != nil {
		return respondError(c, err)
	}

	if created {
		return c.JSON(http.StatusCreated, map[string]string{
			"message": "rating submitted successfully",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "rating updated successfully",
	})
}

// MyRating godoc
// @Summary The caller's rating for a store
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param storeId path int true "Store ID"
// @Success 200 {object} map[string]interface{} "rating is null when none exists"
// @Failure 400 {object} errors.ErrorResponse
// @Router /ratings/store/{storeId} [get]
func (h *RatingHandler) MyRating(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	storeID, err := strconv.Atoi(c.Param("storeId"))
	if err != nil || storeID < 1 {
		return badRequest(c, "invalid store id")
	}

	rating, err := h.ratingService.UserRating(c.Request().Context(), user.ID, uint(storeID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rating": rating})
}
