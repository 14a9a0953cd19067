package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"ratehub/internal/model"
)

// UserFilter narrows and orders admin user listings. Name, Email and Address
// are case-insensitive substring matches combined with AND; Role is an exact
// match when set.
type UserFilter struct {
	Name      string
	Email     string
	Address   string
	Role      string
	SortBy    string
	SortOrder string
}

// userSortColumns whitelists sortable columns; anything else falls back to name.
var userSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"address":    "address",
	"role":       "role",
	"created_at": "created_at",
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, f UserFilter) ([]model.User, error)
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, f UserFilter) ([]model.User, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})

	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", substring(f.Name))
	}
	if f.Email != "" {
		q = q.Where("LOWER(email) LIKE ?", substring(f.Email))
	}
	if f.Address != "" {
		q = q.Where("LOWER(address) LIKE ?", substring(f.Address))
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}

	var users []model.User
	if err := q.Order(orderClause(userSortColumns, f.SortBy, f.SortOrder)).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// substring builds a case-insensitive LIKE pattern.
func substring(term string) string {
	return "%" + strings.ToLower(term) + "%"
}

// orderClause resolves a sort request against a column whitelist. Unknown
// columns fall back to name, unknown directions to ascending.
func orderClause(columns map[string]string, sortBy, sortOrder string) string {
	col, ok := columns[strings.ToLower(sortBy)]
	if !ok {
		col = columns["name"]
	}
	dir := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		dir = "DESC"
	}
	return col + " " + dir
}
