package services_test

import (
	"context"
	"testing"

	"storerate/internal/apperrors"
	"storerate/internal/models"
	"storerate/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStoreService() (*services.StoreService, *MockStoreRepository, *MockUserRepository, *MockRatingRepository) {
	storeRepo := new(MockStoreRepository)
	userRepo := new(MockUserRepository)
	ratingRepo := new(MockRatingRepository)
	return services.NewStoreService(storeRepo, userRepo, ratingRepo, nil), storeRepo, userRepo, ratingRepo
}

func TestStoreService_AssignOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("owner role required", func(t *testing.T) {
		svc, storeRepo, userRepo, _ := newStoreService()
		userRepo.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1", Role: models.RoleNormal}, nil).Once()

		err := svc.AssignOwner(ctx, "s1", "u1")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		storeRepo.AssertNotCalled(t, "AssignOwner", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown owner", func(t *testing.T) {
		svc, _, userRepo, _ := newStoreService()
		userRepo.On("GetByID", ctx, "ghost").Return(nil, apperrors.New(apperrors.ErrNotFound, "User not found")).Once()

		err := svc.AssignOwner(ctx, "s1", "ghost")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("missing store", func(t *testing.T) {
		svc, storeRepo, userRepo, _ := newStoreService()
		userRepo.On("GetByID", ctx, "o1").Return(&models.User{ID: "o1", Role: models.RoleOwner}, nil).Once()
		storeRepo.On("AssignOwner", ctx, "gone", "o1").Return(apperrors.New(apperrors.ErrNotFound, "Store not found")).Once()

		err := svc.AssignOwner(ctx, "gone", "o1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("assigned", func(t *testing.T) {
		svc, storeRepo, userRepo, _ := newStoreService()
		userRepo.On("GetByID", ctx, "o1").Return(&models.User{ID: "o1", Role: models.RoleOwner}, nil).Once()
		storeRepo.On("AssignOwner", ctx, "s1", "o1").Return(nil).Once()

		require.NoError(t, svc.AssignOwner(ctx, "s1", "o1"))
		storeRepo.AssertExpectations(t)
	})
}

func TestStoreService_CreateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("owner must hold owner role", func(t *testing.T) {
		svc, storeRepo, userRepo, _ := newStoreService()
		ownerID := "admin-1"
		userRepo.On("GetByID", ctx, ownerID).Return(&models.User{ID: ownerID, Role: models.RoleAdmin}, nil).Once()

		err := svc.CreateStore(ctx, &models.Store{Name: "Shop", Address: "Main St", OwnerID: &ownerID})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		storeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unowned store", func(t *testing.T) {
		svc, storeRepo, userRepo, _ := newStoreService()
		storeRepo.On("Create", ctx, mock.AnythingOfType("*models.Store")).Return(nil).Once()

		require.NoError(t, svc.CreateStore(ctx, &models.Store{Name: "Shop", Address: "Main St"}))
		userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("self service sets the caller as owner", func(t *testing.T) {
		svc, storeRepo, _, _ := newStoreService()
		storeRepo.On("Create", ctx, mock.MatchedBy(func(s *models.Store) bool {
			return s.OwnerID != nil && *s.OwnerID == "caller"
		})).Return(nil).Once()

		require.NoError(t, svc.CreateOwnedStore(ctx, "caller", &models.Store{Name: "Mine", Address: "Side St"}))
		storeRepo.AssertExpectations(t)
	})
}

func TestStoreService_OwnerOf(t *testing.T) {
	ctx := context.Background()
	svc, storeRepo, _, _ := newStoreService()
	owner := "o1"

	storeRepo.On("GetByID", ctx, "s1").Return(&models.Store{ID: "s1", OwnerID: &owner}, nil).Once()
	storeRepo.On("GetByID", ctx, "s2").Return(&models.Store{ID: "s2"}, nil).Once()
	storeRepo.On("GetByID", ctx, "s3").Return(nil, apperrors.New(apperrors.ErrNotFound, "Store not found")).Once()

	got, err := svc.OwnerOf(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "o1", *got)

	got, err = svc.OwnerOf(ctx, "s2")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = svc.OwnerOf(ctx, "s3")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStoreService_OwnerDashboard(t *testing.T) {
	ctx := context.Background()
	svc, storeRepo, _, ratingRepo := newStoreService()

	storeRepo.On("FirstByOwner", ctx, "o1").Return(&models.Store{ID: "s1", Name: "First"}, nil).Once()
	ratingRepo.On("ListByStore", ctx, "s1").Return([]models.StoreRatingRow{{UserID: "u1", Rating: 4}}, nil).Once()
	ratingRepo.On("StoreAggregate", ctx, "s1").Return(4.0, int64(1), nil).Once()

	store, ratings, err := svc.OwnerDashboard(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "First", store.Name)
	assert.Equal(t, "s1", ratings.StoreID)
	assert.Equal(t, 4.0, ratings.AvgRating)
	assert.Equal(t, int64(1), ratings.RatingCount)
	assert.Len(t, ratings.Ratings, 1)

	storeRepo.On("FirstByOwner", ctx, "o2").Return(nil, apperrors.New(apperrors.ErrNotFound, "No store found for this owner")).Once()
	_, _, err = svc.OwnerDashboard(ctx, "o2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
