package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ratehub/internal/config"
	"ratehub/internal/db"
	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/repository"
	"ratehub/internal/service"
	"ratehub/internal/validation"
)

// Offline database initializer: migrates the schema, bootstraps the admin
// account and optionally seeds demo stores from a local JSON file. This is
// the operator-invoked replacement for any in-band setup endpoint; it needs
// database credentials, not an HTTP secret.

// SeedStore is one entry of the optional SEED_FILE.
type SeedStore struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

func main() {
	log.Info("starting database initialization")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Store{}, &model.Rating{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}
	log.Info("schema migrated")

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	if err := ensureAdmin(ctx, userRepo); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	if path := os.Getenv("SEED_FILE"); path != "" {
		storeRepo := repository.NewStoreRepository(gormDB)
		ratingRepo := repository.NewRatingRepository(gormDB)
		storeService := service.NewStoreService(storeRepo, userRepo, ratingRepo)

		created, skipped, err := seedStores(ctx, storeService, path)
		if err != nil {
			log.Fatalf("seed stores: %v", err)
		}
		log.Infof("stores seeded: %d created, %d already present", created, skipped)
	}

	log.Info("database initialization completed")
}

// ensureAdmin creates the administrator account unless it already exists.
// Credentials come from the environment; there are no built-in defaults for
// the password.
func ensureAdmin(ctx context.Context, users repository.UserRepository) error {
	email := validation.NormalizeEmail(getEnv("ADMIN_EMAIL", "admin@ratehub.local"))
	password := os.Getenv("ADMIN_PASSWORD")

	if _, err := users.FindByEmail(ctx, email); err == nil {
		log.Infof("admin %s already exists", email)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin existence: %w", err)
	}

	if password == "" {
		return errors.New("ADMIN_PASSWORD must be set to create the admin account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Name:         getEnv("ADMIN_NAME", "System Administrator Account"),
		Email:        email,
		PasswordHash: string(hash),
		Address:      getEnv("ADMIN_ADDRESS", "Platform Operations Office"),
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Infof("admin %s created", email)
	return nil
}

// seedStores creates demo stores (each with its owner account) from a JSON
// file, skipping entries whose email is already taken.
func seedStores(ctx context.Context, stores service.StoreService, path string) (created, skipped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read seed file: %w", err)
	}

	var entries []SeedStore
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, 0, fmt.Errorf("parse seed file: %w", err)
	}

	for _, entry := range entries {
		_, err := stores.CreateStore(ctx, entry.Name, entry.Email, entry.Address, entry.Password)
		if err != nil {
			if errors.Is(err, apperrors.ErrEmailTaken) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("seed store %s: %w", entry.Email, err)
		}
		created++
	}
	return created, skipped, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
