package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/repository"
	"ratehub/internal/validation"
)

// OwnerDashboard is the store-owner view: the owned store with its
// recomputed aggregate and every rating with the rater's details, newest
// first.
type OwnerDashboard struct {
	Store  repository.StoreWithRating `json:"store"`
	Raters []repository.RaterRating   `json:"raters"`
}

// StoreService handles store creation, listing and the owner dashboard.
type StoreService interface {
	// CreateStore atomically provisions a store-owner user and the store it
	// owns. Emails are unique across users and stores alike.
	CreateStore(ctx context.Context, name, email, address, ownerPassword string) (*model.Store, error)
	// ListStores returns all stores with their aggregates. The viewer's own
	// rating is included only for normal-user viewers.
	ListStores(ctx context.Context, f repository.StoreFilter, viewer *model.User) ([]repository.StoreWithRating, error)
	OwnerDashboard(ctx context.Context, ownerID uint) (*OwnerDashboard, error)
}

type storeService struct {
	stores  repository.StoreRepository
	users   repository.UserRepository
	ratings repository.RatingRepository
}

// NewStoreService creates a new store service.
func NewStoreService(stores repository.StoreRepository, users repository.UserRepository, ratings repository.RatingRepository) StoreService {
	return &storeService{stores: stores, users: users, ratings: ratings}
}

func (s *storeService) CreateStore(ctx context.Context, name, email, address, ownerPassword string) (*model.Store, error) {
	email = validation.NormalizeEmail(email)

	if _, err := s.stores.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check store email: %w", err)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	owner := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Address:      address,
		Role:         model.RoleStoreOwner,
	}
	store := &model.Store{
		Name:    name,
		Email:   email,
		Address: address,
	}

	if err := s.stores.CreateWithOwner(ctx, owner, store); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create store with owner: %w", err)
	}
	return store, nil
}

func (s *storeService) ListStores(ctx context.Context, f repository.StoreFilter, viewer *model.User) ([]repository.StoreWithRating, error) {
	var viewerID *uint
	if viewer != nil && viewer.Role == model.RoleUser {
		viewerID = &viewer.ID
	}

	stores, err := s.stores.List(ctx, f, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	for i := range stores {
		stores[i].AverageRating = round2(stores[i].AverageRating)
	}
	return stores, nil
}

func (s *storeService) OwnerDashboard(ctx context.Context, ownerID uint) (*OwnerDashboard, error) {
	store, err := s.stores.FindByOwnerWithRating(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStoreNotFound
		}
		return nil, fmt.Errorf("find owned store: %w", err)
	}
	store.AverageRating = round2(store.AverageRating)

	raters, err := s.ratings.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, fmt.Errorf("list raters: %w", err)
	}

	return &OwnerDashboard{Store: *store, Raters: raters}, nil
}

// round2 rounds a mean rating to two decimals for presentation.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
