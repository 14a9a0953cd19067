package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "ratehub/internal/errors"
	"ratehub/internal/validation"
)

// respondError maps a domain error onto its transport status and body.
func respondError(c echo.Context, err error) error {
	he := apperrors.MapErrorToHTTP(err)
	return c.JSON(he.StatusCode, he.ToErrorResponse())
}

// respondValidation reports every failing field, not just the first.
func respondValidation(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
		Message: "Validation failed",
		Code:    "VALIDATION_FAILED",
		Errors:  validation.Translate(err),
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
		Message: message,
		Code:    "BAD_REQUEST",
	})
}
