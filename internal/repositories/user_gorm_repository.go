package repositories

import (
	"context"
	"fmt"

	"storerate/internal/listing"
	"storerate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a user. A duplicate email is reported as a conflict.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Create(user).Error
	return translate(err, "", "Email already in use", "create user")
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err, "User not found", "", fmt.Sprintf("get user by email %s", email))
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "User not found", "", fmt.Sprintf("get user by ID %s", id))
	}
	return &user, nil
}

// UpdatePassword replaces the stored credential hash of a user.
func (r *GORMUserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return translate(res.Error, "", "", "update password")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "User not found", "", "update password")
	}
	return nil
}

// List returns one page of users holding any of roles, with the average of
// the ratings each user has given.
func (r *GORMUserRepository) List(ctx context.Context, roles []models.Role, filter UserFilter, opts listing.Options) (listing.Page[models.UserRow], error) {
	roleNames := make([]string, len(roles))
	for i, role := range roles {
		roleNames[i] = string(role)
	}
	matches := listing.Contains(
		listing.Filter{Column: "u.username", Value: filter.Username},
		listing.Filter{Column: "u.email", Value: filter.Email},
		listing.Filter{Column: "u.address", Value: filter.Address},
	)
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Table("users AS u").Where("u.role IN ?", roleNames).Scopes(matches)
	}

	var rows []models.UserRow
	err := base().
		Select("u.id, u.username, u.email, u.address, u.role, u.created_at, COALESCE(ROUND(AVG(r.rating), 1), 0) AS avg_rating").
		Joins("LEFT JOIN ratings r ON r.user_id = u.id").
		Group("u.id, u.username, u.email, u.address, u.role, u.created_at").
		Scopes(opts.Paginate("u")).
		Scan(&rows).Error
	if err != nil {
		return listing.Page[models.UserRow]{}, translate(err, "", "", "list users")
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return listing.Page[models.UserRow]{}, translate(err, "", "", "count users")
	}
	return listing.NewPage(opts, total, rows), nil
}

// Count returns the number of users.
func (r *GORMUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, translate(err, "", "", "count users")
}
