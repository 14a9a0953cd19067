package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"ratehub/internal/auth"
	"ratehub/internal/config"
	apperrors "ratehub/internal/errors"
	"ratehub/internal/handler"
	"ratehub/internal/model"
	"ratehub/internal/repository"
	"ratehub/internal/validation"
)

// Register wires routes and middleware. The allowed-role set for every
// operation is declared here, in one place, rather than checked ad hoc
// inside handlers.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	storeHandler *handler.StoreHandler,
	ratingHandler *handler.RatingHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validation.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)

	// Authenticated routes: the token is verified, then the identity is
	// re-resolved from the database so revoked users are rejected.
	authed := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  []byte(cfg.JWTSecret),
			TokenLookup: "header:" + echo.HeaderAuthorization,
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{
					Message: "authentication required",
					Code:    "UNAUTHENTICATED",
				})
			},
		}),
		auth.LoadUser(userRepo),
	)

	// Any authenticated role
	authed.GET("/auth/me", authHandler.Me)
	authed.PUT("/auth/password", authHandler.UpdatePassword)
	authed.GET("/stores", storeHandler.ListStores)

	// Admin only
	admin := authed.Group("/users", auth.RequireRoles(model.RoleAdmin))
	admin.GET("/dashboard/stats", userHandler.DashboardStats)
	admin.POST("", userHandler.CreateUser)
	admin.GET("", userHandler.ListUsers)
	admin.GET("/:id", userHandler.GetUser)

	authed.POST("/stores", storeHandler.CreateStore, auth.RequireRoles(model.RoleAdmin))

	// Store owner only
	authed.GET("/stores/dashboard", storeHandler.Dashboard, auth.RequireRoles(model.RoleStoreOwner))

	// Normal user only
	ratings := authed.Group("/ratings", auth.RequireRoles(model.RoleUser))
	ratings.POST("", ratingHandler.Submit)
	ratings.GET("/store/:storeId", ratingHandler.MyRating)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
