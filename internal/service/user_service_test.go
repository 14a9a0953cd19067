package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/repository"
)

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name      string
		role      model.Role
		setupMock func(*MockUserRepository)
		wantErr   error
	}{
		{
			name: "admin creates a normal user",
			role: model.RoleUser,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "created.by.admin@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Role == model.RoleUser
				})).Return(nil)
			},
		},
		{
			name: "admin creates another admin",
			role: model.RoleAdmin,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "created.by.admin@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Role == model.RoleAdmin
				})).Return(nil)
			},
		},
		{
			name:      "store_owner cannot be assigned directly",
			role:      model.RoleStoreOwner,
			setupMock: func(*MockUserRepository) {},
			wantErr:   apperrors.ErrInvalidRole,
		},
		{
			name:      "unknown role",
			role:      model.Role("superuser"),
			setupMock: func(*MockUserRepository) {},
			wantErr:   apperrors.ErrInvalidRole,
		},
		{
			name: "duplicate email",
			role: model.RoleUser,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "created.by.admin@example.com").Return(&model.User{}, nil)
			},
			wantErr: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)

			svc := NewUserService(users, new(MockStoreRepository), new(MockRatingRepository), nil)
			user, err := svc.CreateUser(context.Background(), "Administrator Created Account", "created.by.admin@example.com", "Secret@Pass1", "1 Test Street", tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.role, user.Role)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestUserService_GetUser(t *testing.T) {
	t.Run("store owner details include the owned store", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		users.On("FindByID", mock.Anything, uint(3)).Return(&model.User{ID: 3, Role: model.RoleStoreOwner}, nil)
		stores.On("FindByOwnerWithRating", mock.Anything, uint(3)).Return(&repository.StoreWithRating{
			ID: 1, Name: "Best Bakery", AverageRating: 4.5,
		}, nil)

		svc := NewUserService(users, stores, new(MockRatingRepository), nil)
		details, err := svc.GetUser(context.Background(), 3)

		assert.NoError(t, err)
		if assert.NotNil(t, details.Store) {
			assert.Equal(t, uint(1), details.Store.ID)
		}
	})

	t.Run("normal user details carry no store", func(t *testing.T) {
		users := new(MockUserRepository)
		stores := new(MockStoreRepository)
		users.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Role: model.RoleUser}, nil)

		svc := NewUserService(users, stores, new(MockRatingRepository), nil)
		details, err := svc.GetUser(context.Background(), 7)

		assert.NoError(t, err)
		assert.Nil(t, details.Store)
		stores.AssertNotCalled(t, "FindByOwnerWithRating", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(users, new(MockStoreRepository), new(MockRatingRepository), nil)
		_, err := svc.GetUser(context.Background(), 99)

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestUserService_DashboardStats(t *testing.T) {
	users := new(MockUserRepository)
	stores := new(MockStoreRepository)
	ratings := new(MockRatingRepository)
	users.On("Count", mock.Anything).Return(int64(10), nil)
	stores.On("Count", mock.Anything).Return(int64(4), nil)
	ratings.On("Count", mock.Anything).Return(int64(25), nil)

	// nil cache client: every stat read recounts from the repositories
	svc := NewUserService(users, stores, ratings, nil)
	stats, err := svc.DashboardStats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalUsers)
	assert.Equal(t, int64(4), stats.TotalStores)
	assert.Equal(t, int64(25), stats.TotalRatings)
}
