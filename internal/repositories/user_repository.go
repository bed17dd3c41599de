package repositories

import (
	"context"

	"storerate/internal/listing"
	"storerate/internal/models"
)

// UserFilter holds the optional substring filters of a user listing.
type UserFilter struct {
	Username string `query:"username"`
	Email    string `query:"email"`
	Address  string `query:"address"`
}

// UserSortColumns is the sort allow-list of user listings.
var UserSortColumns = []string{"username", "email", "address", "created_at"}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	List(ctx context.Context, roles []models.Role, filter UserFilter, opts listing.Options) (listing.Page[models.UserRow], error)
	Count(ctx context.Context) (int64, error)
}
