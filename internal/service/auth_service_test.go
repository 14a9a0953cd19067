package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ratehub/internal/auth"
	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
)

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful signup",
			email: "new.customer@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "new.customer@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "email already registered",
			email: "taken@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name: "email is normalized before the uniqueness check",
			// Mixed case and surrounding whitespace collapse to one identity.
			email: "  Taken@Example.COM ",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"))
			user, token, err := svc.Signup(context.Background(), "A Sufficiently Long Person Name", tt.email, "Secret@Pass1", "1 Test Street")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEmpty(t, token)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, "Secret@Pass1", user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Secret@Pass1"), 10)

	tests := []struct {
		name      string
		email     string
		password  string
		setupMock func(*MockUserRepository)
		wantErr   error
	}{
		{
			name:     "successful login",
			email:    "known@example.com",
			password: "Secret@Pass1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "known@example.com").Return(&model.User{
					ID:           7,
					Email:        "known@example.com",
					PasswordHash: string(hashed),
					Role:         model.RoleUser,
				}, nil)
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "Secret@Pass1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "known@example.com",
			password: "Wrong@Pass1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "known@example.com").Return(&model.User{
					Email:        "known@example.com",
					PasswordHash: string(hashed),
				}, nil)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"))
			user, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEmpty(t, token)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

// An unknown email and a wrong password must produce the same error, so a
// caller cannot use the response as an oracle for which emails exist.
func TestAuthService_Login_NoCredentialOracle(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Secret@Pass1"), 10)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", mock.Anything, "known@example.com").Return(&model.User{
		Email:        "known@example.com",
		PasswordHash: string(hashed),
	}, nil)

	svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"))

	_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "Secret@Pass1")
	_, _, wrongErr := svc.Login(context.Background(), "known@example.com", "Other@Pass1")

	assert.Error(t, unknownErr)
	assert.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthService_UpdatePassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Current@Pass1"), 10)

	tests := []struct {
		name      string
		current   string
		setupMock func(*MockUserRepository)
		wantErr   error
	}{
		{
			name:    "successful change",
			current: "Current@Pass1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, PasswordHash: string(hashed)}, nil)
				m.On("UpdatePasswordHash", mock.Anything, uint(7), mock.MatchedBy(func(hash string) bool {
					return bcrypt.CompareHashAndPassword([]byte(hash), []byte("Replacement@1")) == nil
				})).Return(nil)
			},
		},
		{
			name:    "current password mismatch",
			current: "NotCurrent@1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, PasswordHash: string(hashed)}, nil)
			},
			wantErr: apperrors.ErrWrongPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"))
			err := svc.UpdatePassword(context.Background(), 7, tt.current, "Replacement@1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				mockRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
