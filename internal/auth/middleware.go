package auth

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/repository"
)

const currentUserKey = "currentUser"

var errUnauthenticated = echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
	Message: "authentication required",
	Code:    "UNAUTHENTICATED",
})

var errForbidden = echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
	Message: "access denied",
	Code:    "FORBIDDEN",
})

// LoadUser resolves the JWT parsed by the echo-jwt middleware into a
// database user. A valid token whose user no longer exists is treated as
// unauthenticated, not as an internal error.
func LoadUser(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return errUnauthenticated
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return errUnauthenticated
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errUnauthenticated
				}
				return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
					Message: "internal server error",
					Code:    "INTERNAL_ERROR",
				})
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// RequireRoles gates a route group to the given role set. The denial is
// generic: callers learn nothing about which roles would have been allowed.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFromContext(c)
			if !ok {
				return errUnauthenticated
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return errForbidden
		}
	}
}

// UserFromContext returns the authenticated user placed by LoadUser.
func UserFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(currentUserKey).(*model.User)
	return user, ok
}
