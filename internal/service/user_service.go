package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ratehub/internal/cache"
	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/repository"
	"ratehub/internal/validation"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = time.Minute
)

// DashboardStats are the admin dashboard counters. They are cached with a
// short TTL and may lag by up to that much; per-store rating aggregates are
// never cached.
type DashboardStats struct {
	TotalUsers   int64 `json:"total_users"`
	TotalStores  int64 `json:"total_stores"`
	TotalRatings int64 `json:"total_ratings"`
}

// UserDetails is a user with the owned store attached when the user is a
// store owner.
type UserDetails struct {
	model.User
	Store *repository.StoreWithRating `json:"store,omitempty"`
}

// UserService exposes the admin-side user operations.
type UserService interface {
	// CreateUser creates a user with an admin-assigned role. Only admin and
	// user are assignable; store_owner is minted by store creation alone.
	CreateUser(ctx context.Context, name, email, password, address string, role model.Role) (*model.User, error)
	ListUsers(ctx context.Context, f repository.UserFilter) ([]model.User, error)
	GetUser(ctx context.Context, id uint) (*UserDetails, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type userService struct {
	users   repository.UserRepository
	stores  repository.StoreRepository
	ratings repository.RatingRepository
	cache   *cache.Client
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(users repository.UserRepository, stores repository.StoreRepository, ratings repository.RatingRepository, cache *cache.Client) UserService {
	return &userService{users: users, stores: stores, ratings: ratings, cache: cache}
}

func (s *userService) CreateUser(ctx context.Context, name, email, password, address string, role model.Role) (*model.User, error) {
	if !role.Assignable() {
		return nil, apperrors.ErrInvalidRole
	}
	email = validation.NormalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Address:      address,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	_ = s.cache.Delete(ctx, statsCacheKey)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, f repository.UserFilter) ([]model.User, error) {
	return s.users.List(ctx, f)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*UserDetails, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	details := &UserDetails{User: *user}
	if user.Role == model.RoleStoreOwner {
		store, err := s.stores.FindByOwnerWithRating(ctx, user.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find owned store: %w", err)
		}
		if store != nil {
			store.AverageRating = round2(store.AverageRating)
			details.Store = store
		}
	}
	return details, nil
}

func (s *userService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	if data, _ := s.cache.Get(ctx, statsCacheKey); data != nil {
		var cached DashboardStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	stores, err := s.stores.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count stores: %w", err)
	}
	ratings, err := s.ratings.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}

	stats := &DashboardStats{TotalUsers: users, TotalStores: stores, TotalRatings: ratings}
	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, statsCacheKey, payload, statsCacheTTL)
	}
	return stats, nil
}
