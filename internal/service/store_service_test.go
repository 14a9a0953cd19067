package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/repository"
)

func TestStoreService_CreateStore(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*MockStoreRepository, *MockUserRepository)
		wantErr    error
	}{
		{
			name: "successful creation provisions the owner atomically",
			setupMocks: func(stores *MockStoreRepository, users *MockUserRepository) {
				stores.On("FindByEmail", mock.Anything, "best.bakery@example.com").Return(nil, gorm.ErrRecordNotFound)
				users.On("FindByEmail", mock.Anything, "best.bakery@example.com").Return(nil, gorm.ErrRecordNotFound)
				stores.On("CreateWithOwner", mock.Anything,
					mock.MatchedBy(func(owner *model.User) bool {
						return owner.Role == model.RoleStoreOwner &&
							owner.Email == "best.bakery@example.com" &&
							bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte("Owner@Pass1")) == nil
					}),
					mock.MatchedBy(func(store *model.Store) bool {
						return store.Email == "best.bakery@example.com"
					}),
				).Return(nil)
			},
		},
		{
			name: "email already used by a store",
			setupMocks: func(stores *MockStoreRepository, users *MockUserRepository) {
				stores.On("FindByEmail", mock.Anything, "best.bakery@example.com").Return(&model.Store{Email: "best.bakery@example.com"}, nil)
			},
			wantErr: apperrors.ErrEmailTaken,
		},
		{
			name: "email already used by a user",
			setupMocks: func(stores *MockStoreRepository, users *MockUserRepository) {
				stores.On("FindByEmail", mock.Anything, "best.bakery@example.com").Return(nil, gorm.ErrRecordNotFound)
				users.On("FindByEmail", mock.Anything, "best.bakery@example.com").Return(&model.User{Email: "best.bakery@example.com"}, nil)
			},
			wantErr: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores := new(MockStoreRepository)
			users := new(MockUserRepository)
			ratings := new(MockRatingRepository)
			tt.setupMocks(stores, users)

			svc := NewStoreService(stores, users, ratings)
			store, err := svc.CreateStore(context.Background(), "Best Bakery On The Main Street", "best.bakery@example.com", "12 Main Street", "Owner@Pass1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, store)
				// On conflict nothing may be written, neither user nor store.
				stores.AssertNotCalled(t, "CreateWithOwner", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, store)
			}
			stores.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestStoreService_ListStores(t *testing.T) {
	rows := []repository.StoreWithRating{
		{ID: 1, Name: "Best Bakery", AverageRating: 3.6666666666},
		{ID: 2, Name: "Quiet Cafe", AverageRating: 0},
	}

	t.Run("normal user viewer is passed through for the own-rating column", func(t *testing.T) {
		stores := new(MockStoreRepository)
		viewer := &model.User{ID: 7, Role: model.RoleUser}
		stores.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(viewerID *uint) bool {
			return viewerID != nil && *viewerID == 7
		})).Return(rows, nil)

		svc := NewStoreService(stores, new(MockUserRepository), new(MockRatingRepository))
		out, err := svc.ListStores(context.Background(), repository.StoreFilter{}, viewer)

		assert.NoError(t, err)
		assert.Len(t, out, 2)
		stores.AssertExpectations(t)
	})

	t.Run("admin viewer gets no own-rating column", func(t *testing.T) {
		stores := new(MockStoreRepository)
		viewer := &model.User{ID: 9, Role: model.RoleAdmin}
		stores.On("List", mock.Anything, mock.Anything, (*uint)(nil)).Return(rows, nil)

		svc := NewStoreService(stores, new(MockUserRepository), new(MockRatingRepository))
		_, err := svc.ListStores(context.Background(), repository.StoreFilter{}, viewer)

		assert.NoError(t, err)
		stores.AssertExpectations(t)
	})

	t.Run("means are rounded to two decimals, unrated stays zero", func(t *testing.T) {
		stores := new(MockStoreRepository)
		stores.On("List", mock.Anything, mock.Anything, (*uint)(nil)).Return(rows, nil)

		svc := NewStoreService(stores, new(MockUserRepository), new(MockRatingRepository))
		out, err := svc.ListStores(context.Background(), repository.StoreFilter{}, &model.User{Role: model.RoleAdmin})

		assert.NoError(t, err)
		assert.Equal(t, 3.67, out[0].AverageRating)
		assert.Equal(t, 0.0, out[1].AverageRating)
	})
}

func TestStoreService_OwnerDashboard(t *testing.T) {
	t.Run("owner with a store", func(t *testing.T) {
		stores := new(MockStoreRepository)
		ratings := new(MockRatingRepository)
		stores.On("FindByOwnerWithRating", mock.Anything, uint(3)).Return(&repository.StoreWithRating{
			ID: 1, Name: "Best Bakery", AverageRating: 4, TotalRatings: 2,
		}, nil)
		ratings.On("ListByStore", mock.Anything, uint(1)).Return([]repository.RaterRating{
			{UserID: 8, Name: "Newest Rater", Rating: 5},
			{UserID: 7, Name: "Older Rater", Rating: 3},
		}, nil)

		svc := NewStoreService(stores, new(MockUserRepository), ratings)
		dash, err := svc.OwnerDashboard(context.Background(), 3)

		assert.NoError(t, err)
		assert.Equal(t, 4.0, dash.Store.AverageRating)
		assert.Equal(t, int64(2), dash.Store.TotalRatings)
		assert.Len(t, dash.Raters, 2)
		assert.Equal(t, "Newest Rater", dash.Raters[0].Name)
	})

	t.Run("owner without a store", func(t *testing.T) {
		stores := new(MockStoreRepository)
		stores.On("FindByOwnerWithRating", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewStoreService(stores, new(MockUserRepository), new(MockRatingRepository))
		dash, err := svc.OwnerDashboard(context.Background(), 3)

		assert.ErrorIs(t, err, apperrors.ErrStoreNotFound)
		assert.Nil(t, dash)
	})
}
