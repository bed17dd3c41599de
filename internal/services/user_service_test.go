package services_test

import (
	"context"
	"testing"

	"storerate/internal/listing"
	"storerate/internal/models"
	"storerate/internal/repositories"
	"storerate/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListingRoles(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	svc := services.NewUserService(userRepo)
	filter := repositories.UserFilter{Email: "example"}
	want := listing.Options{Page: 2, Limit: 10, Offset: 10, SortColumn: "email", Desc: false}

	userRepo.On("List", ctx, []models.Role{models.RoleNormal}, filter, want).
		Return(listing.NewPage(want, 11, []models.UserRow{{ID: "u1"}}), nil).Once()
	userRepo.On("List", ctx, []models.Role{models.RoleAdmin, models.RoleOwner}, filter, want).
		Return(listing.NewPage[models.UserRow](want, 0, nil), nil).Once()

	req := listing.Request{SortBy: "email", Order: "ASC", Page: "2", Limit: "10"}

	page, err := svc.ListNormalUsers(ctx, filter, req)
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	assert.Len(t, page.Items, 1)

	page, err = svc.ListStaffUsers(ctx, filter, req)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	userRepo.AssertExpectations(t)
}
