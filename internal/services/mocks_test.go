package services_test

import (
	"context"

	"storerate/internal/listing"
	"storerate/internal/models"
	"storerate/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, roles []models.Role, filter repositories.UserFilter, opts listing.Options) (listing.Page[models.UserRow], error) {
	args := m.Called(ctx, roles, filter, opts)
	return args.Get(0).(listing.Page[models.UserRow]), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockStoreRepository is a mock implementation of repositories.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(ctx context.Context, store *models.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) AssignOwner(ctx context.Context, storeID, ownerID string) error {
	args := m.Called(ctx, storeID, ownerID)
	return args.Error(0)
}

func (m *MockStoreRepository) ListWithAverages(ctx context.Context) ([]models.StoreSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.StoreSummary), args.Error(1)
}

func (m *MockStoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.StoreSummary, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.StoreSummary), args.Error(1)
}

func (m *MockStoreRepository) FirstByOwner(ctx context.Context, ownerID string) (*models.Store, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) List(ctx context.Context, filter repositories.StoreFilter, opts listing.Options) (listing.Page[models.StoreRow], error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).(listing.Page[models.StoreRow]), args.Error(1)
}

func (m *MockStoreRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockRatingRepository is a mock implementation of repositories.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) GetByStoreAndUser(ctx context.Context, storeID, userID string) (*models.Rating, error) {
	args := m.Called(ctx, storeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) UpdateScore(ctx context.Context, storeID, userID string, score int, feedback string) error {
	args := m.Called(ctx, storeID, userID, score, feedback)
	return args.Error(0)
}

func (m *MockRatingRepository) ListByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListByStore(ctx context.Context, storeID string) ([]models.StoreRatingRow, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]models.StoreRatingRow), args.Error(1)
}

func (m *MockRatingRepository) StoreAggregate(ctx context.Context, storeID string) (float64, int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *MockRatingRepository) ListAll(ctx context.Context) ([]models.RatingRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.RatingRow), args.Error(1)
}

func (m *MockRatingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}
