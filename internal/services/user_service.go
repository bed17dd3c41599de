package services

import (
	"context"

	"storerate/internal/listing"
	"storerate/internal/models"
	"storerate/internal/repositories"
)

var (
	normalRoles = []models.Role{models.RoleNormal}
	staffRoles  = []models.Role{models.RoleAdmin, models.RoleOwner}
)

// UserService serves the admin user listings.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListNormalUsers returns one page of users with the normal role.
func (s *UserService) ListNormalUsers(ctx context.Context, filter repositories.UserFilter, req listing.Request) (listing.Page[models.UserRow], error) {
	return s.userRepo.List(ctx, normalRoles, filter, listing.Normalize(req, repositories.UserSortColumns...))
}

// ListStaffUsers returns one page of admin and owner users.
func (s *UserService) ListStaffUsers(ctx context.Context, filter repositories.UserFilter, req listing.Request) (listing.Page[models.UserRow], error) {
	return s.userRepo.List(ctx, staffRoles, filter, listing.Normalize(req, repositories.UserSortColumns...))
}
