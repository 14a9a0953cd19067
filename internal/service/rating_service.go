package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/repository"
)

// RatingService handles rating submission and lookup. Aggregates are never
// maintained here; every read recomputes them from the ratings table.
type RatingService interface {
	// Submit upserts the caller's rating for a store. The returned flag is
	// true when a new rating row was created, false when an existing one was
	// updated in place.
	Submit(ctx context.Context, userID, storeID uint, value int) (created bool, err error)
	// UserRating returns the caller's rating for a store, nil when none.
	UserRating(ctx context.Context, userID, storeID uint) (*int, error)
}

type ratingService struct {
	ratings repository.RatingRepository
	stores  repository.StoreRepository
}

// NewRatingService creates a new rating service.
func NewRatingService(ratings repository.RatingRepository, stores repository.StoreRepository) RatingService {
	return &ratingService{ratings: ratings, stores: stores}
}

func (s *ratingService) Submit(ctx context.Context, userID, storeID uint, value int) (bool, error) {
	if value < model.MinRating || value > model.MaxRating {
		return false, apperrors.ErrInvalidRating
	}

	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrStoreNotFound
		}
		return false, fmt.Errorf("find store: %w", err)
	}

	existing, err := s.ratings.FindByUserAndStore(ctx, userID, storeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("find rating: %w", err)
	}

	if existing != nil {
		if err := s.ratings.UpdateValue(ctx, userID, storeID, value); err != nil {
			return false, fmt.Errorf("update rating: %w", err)
		}
		return false, nil
	}

	rating := &model.Rating{UserID: userID, StoreID: storeID, Rating: value}
	if err := s.ratings.Create(ctx, rating); err != nil {
		// A concurrent submission won the insert. The unique index on
		// (user_id, store_id) is the authority here; resolve the race by
		// retrying as an update instead of surfacing a conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := s.ratings.UpdateValue(ctx, userID, storeID, value); err != nil {
				return false, fmt.Errorf("update rating after conflict: %w", err)
			}
			return false, nil
		}
		return false, fmt.Errorf("create rating: %w", err)
	}
	return true, nil
}

func (s *ratingService) UserRating(ctx context.Context, userID, storeID uint) (*int, error) {
	rating, err := s.ratings.FindByUserAndStore(ctx, userID, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find rating: %w", err)
	}
	value := rating.Rating
	return &value, nil
}
