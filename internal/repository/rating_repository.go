package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ratehub/internal/model"
)

// RaterRating is one rating joined with the rater's public fields, for the
// store-owner dashboard.
type RaterRating struct {
	UserID  uint      `json:"user_id" gorm:"column:user_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Address string    `json:"address"`
	Rating  int       `json:"rating"`
	RatedAt time.Time `json:"rated_at" gorm:"column:rated_at"`
}

// RatingRepository defines rating persistence operations. The composite
// unique index on (user_id, store_id) is the authority against duplicate
// rows; callers handle gorm.ErrDuplicatedKey from Create.
type RatingRepository interface {
	Create(ctx context.Context, rating *model.Rating) error
	FindByUserAndStore(ctx context.Context, userID, storeID uint) (*model.Rating, error)
	UpdateValue(ctx context.Context, userID, storeID uint, value int) error
	ListByStore(ctx context.Context, storeID uint) ([]RaterRating, error)
	Count(ctx context.Context) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository builds a GORM-backed repository.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *ratingRepository) FindByUserAndStore(ctx context.Context, userID, storeID uint) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) UpdateValue(ctx context.Context, userID, storeID uint, value int) error {
	return r.db.WithContext(ctx).Model(&model.Rating{}).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Update("rating", value).Error
}

// ListByStore returns every rating for a store with the rater's details,
// newest first.
func (r *ratingRepository) ListByStore(ctx context.Context, storeID uint) ([]RaterRating, error) {
	var raters []RaterRating
	err := r.db.WithContext(ctx).Table("ratings r").
		Select("u.id AS user_id, u.name, u.email, u.address, r.rating, r.created_at AS rated_at").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.store_id = ?", storeID).
		Order("r.created_at DESC").
		Scan(&raters).Error
	if err != nil {
		return nil, err
	}
	return raters, nil
}

func (r *ratingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Rating{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
