package repository

import (
	"context"

	"gorm.io/gorm"

	"ratehub/internal/model"
)

// StoreFilter narrows and orders store listings. All text filters are
// case-insensitive substring matches combined with AND.
type StoreFilter struct {
	Name      string
	Email     string
	Address   string
	SortBy    string
	SortOrder string
}

// storeSortColumns whitelists sortable columns. "rating" sorts by the
// computed mean.
var storeSortColumns = map[string]string{
	"name":    "s.name",
	"email":   "s.email",
	"address": "s.address",
	"rating":  "average_rating",
}

// StoreWithRating is a store row joined with its recomputed aggregate.
// UserRating is populated only when the listing was resolved for a normal
// user viewer; it stays nil (and is omitted from JSON) otherwise.
type StoreWithRating struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
	UserRating    *int    `json:"user_rating,omitempty" gorm:"column:user_rating"`
}

// StoreRepository defines store persistence operations. Aggregates are
// recomputed from the ratings table on every read; nothing is cached.
type StoreRepository interface {
	// CreateWithOwner atomically creates the store-owner user and the store.
	// Either both rows persist or neither does.
	CreateWithOwner(ctx context.Context, owner *model.User, store *model.Store) error
	FindByID(ctx context.Context, id uint) (*model.Store, error)
	FindByEmail(ctx context.Context, email string) (*model.Store, error)
	List(ctx context.Context, f StoreFilter, viewerID *uint) ([]StoreWithRating, error)
	FindByOwnerWithRating(ctx context.Context, ownerID uint) (*StoreWithRating, error)
	Count(ctx context.Context) (int64, error)
}

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository builds a GORM-backed repository.
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) CreateWithOwner(ctx context.Context, owner *model.User, store *model.Store) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		store.OwnerID = owner.ID
		return tx.Create(store).Error
	})
}

func (r *storeRepository) FindByID(ctx context.Context, id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindByEmail(ctx context.Context, email string) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

const storeAggregateColumns = `s.id, s.name, s.email, s.address,
	COALESCE(AVG(r.rating), 0) AS average_rating,
	COUNT(DISTINCT r.user_id) AS total_ratings`

func (r *storeRepository) List(ctx context.Context, f StoreFilter, viewerID *uint) ([]StoreWithRating, error) {
	q := r.db.WithContext(ctx).Table("stores s").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id")

	if viewerID != nil {
		q = q.Select(storeAggregateColumns+`,
			(SELECT rating FROM ratings WHERE user_id = ? AND store_id = s.id) AS user_rating`, *viewerID)
	} else {
		q = q.Select(storeAggregateColumns)
	}

	if f.Name != "" {
		q = q.Where("LOWER(s.name) LIKE ?", substring(f.Name))
	}
	if f.Email != "" {
		q = q.Where("LOWER(s.email) LIKE ?", substring(f.Email))
	}
	if f.Address != "" {
		q = q.Where("LOWER(s.address) LIKE ?", substring(f.Address))
	}

	var stores []StoreWithRating
	err := q.Group("s.id").
		Order(orderClause(storeSortColumns, f.SortBy, f.SortOrder)).
		Scan(&stores).Error
	if err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) FindByOwnerWithRating(ctx context.Context, ownerID uint) (*StoreWithRating, error) {
	var stores []StoreWithRating
	err := r.db.WithContext(ctx).Table("stores s").
		Select(storeAggregateColumns).
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Where("s.owner_id = ?", ownerID).
		Group("s.id").
		Limit(1).
		Scan(&stores).Error
	if err != nil {
		return nil, err
	}
	if len(stores) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &stores[0], nil
}

func (r *storeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Store{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
