package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	_ "ratehub/docs" // swagger docs

	"ratehub/internal/auth"
	"ratehub/internal/cache"
	"ratehub/internal/config"
	"ratehub/internal/db"
	"ratehub/internal/handler"
	"ratehub/internal/model"
	"ratehub/internal/repository"
	"ratehub/internal/router"
	"ratehub/internal/service"
)

// @title Store Rating API
// @version 1.0
// @description Role-based store-rating API: signup, store browsing with live aggregates, 1-5 star ratings, owner dashboards and admin management, with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Store{},
		&model.Rating{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	storeRepo := repository.NewStoreRepository(gormDB)
	ratingRepo := repository.NewRatingRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo, storeRepo, ratingRepo, cacheClient)
	storeService := service.NewStoreService(storeRepo, userRepo, ratingRepo)
	ratingService := service.NewRatingService(ratingRepo, storeRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	storeHandler := handler.NewStoreHandler(storeService)
	ratingHandler := handler.NewRatingHandler(ratingService)

	router.Register(
		e,
		cfg,
		userRepo,
		authHandler,
		userHandler,
		storeHandler,
		ratingHandler,
	)

	addr := ":" + cfg.ServerPort
	log.Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
