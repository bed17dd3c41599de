package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storerate/internal/apperrors"
	"storerate/internal/models"
	"storerate/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestValidateScore(t *testing.T) {
	tests := []struct {
		name  string
		score *int
		ok    bool
	}{
		{"absent", nil, false},
		{"zero", intPtr(0), false},
		{"one", intPtr(1), true},
		{"five", intPtr(5), true},
		{"six", intPtr(6), false},
		{"negative", intPtr(-3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.ValidateScore(tt.score)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, "Rating must be between 1 and 5", apperrors.Message(err, ""))
		})
	}
}

func TestRatingService_SubmitRejectsInvalidScoreBeforeStorage(t *testing.T) {
	ratingRepo := new(MockRatingRepository)
	storeRepo := new(MockStoreRepository)
	svc := services.NewRatingService(ratingRepo, storeRepo, nil)

	for _, score := range []*int{nil, intPtr(0), intPtr(6)} {
		_, err := svc.Submit(context.Background(), "u1", "s1", score, "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
	storeRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	ratingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	ratingRepo.AssertNotCalled(t, "UpdateScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRatingService_SubmitInsertsFirstRating(t *testing.T) {
	ctx := context.Background()
	ratingRepo := new(MockRatingRepository)
	storeRepo := new(MockStoreRepository)
	publisher := new(MockPublisher)
	svc := services.NewRatingService(ratingRepo, storeRepo, publisher)

	storeRepo.On("GetByID", ctx, "s1").Return(&models.Store{ID: "s1"}, nil).Once()
	ratingRepo.On("GetByStoreAndUser", ctx, "s1", "u1").Return(nil, apperrors.New(apperrors.ErrNotFound, "Rating not found")).Once()
	ratingRepo.On("Create", ctx, mock.MatchedBy(func(r *models.Rating) bool {
		return r.StoreID == "s1" && r.UserID == "u1" && r.Rating == 4 && r.Feedback == "nice"
	})).Return(nil).Once()
	publisher.On("Publish", services.EventsExchange, services.EventRatingSubmitted, mock.MatchedBy(func(body []byte) bool {
		var payload map[string]interface{}
		return json.Unmarshal(body, &payload) == nil &&
			payload["event"] == services.EventRatingSubmitted &&
			payload["store_id"] == "s1" &&
			payload["rating"] == float64(4)
	})).Return(nil).Once()

	created, err := svc.Submit(ctx, "u1", "s1", intPtr(4), "nice")
	require.NoError(t, err)
	assert.True(t, created)
	ratingRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRatingService_SubmitUpdatesExistingRating(t *testing.T) {
	ctx := context.Background()
	ratingRepo := new(MockRatingRepository)
	storeRepo := new(MockStoreRepository)
	svc := services.NewRatingService(ratingRepo, storeRepo, nil)

	storeRepo.On("GetByID", ctx, "s1").Return(&models.Store{ID: "s1"}, nil).Once()
	ratingRepo.On("GetByStoreAndUser", ctx, "s1", "u1").Return(&models.Rating{ID: "r1", Rating: 2, Feedback: "meh"}, nil).Once()
	ratingRepo.On("UpdateScore", ctx, "s1", "u1", 5, "").Return(nil).Once()

	created, err := svc.Submit(ctx, "u1", "s1", intPtr(5), "")
	require.NoError(t, err)
	assert.False(t, created)
	ratingRepo.AssertExpectations(t)
	ratingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRatingService_SubmitMissingStore(t *testing.T) {
	ctx := context.Background()
	ratingRepo := new(MockRatingRepository)
	storeRepo := new(MockStoreRepository)
	svc := services.NewRatingService(ratingRepo, storeRepo, nil)

	storeRepo.On("GetByID", ctx, "gone").Return(nil, apperrors.New(apperrors.ErrNotFound, "Store not found")).Once()

	_, err := svc.Submit(ctx, "u1", "gone", intPtr(3), "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	ratingRepo.AssertNotCalled(t, "GetByStoreAndUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestRatingService_SubmitConcurrentInsertConflict(t *testing.T) {
	ctx := context.Background()
	ratingRepo := new(MockRatingRepository)
	storeRepo := new(MockStoreRepository)
	publisher := new(MockPublisher)
	svc := services.NewRatingService(ratingRepo, storeRepo, publisher)

	storeRepo.On("GetByID", ctx, "s1").Return(&models.Store{ID: "s1"}, nil).Once()
	ratingRepo.On("GetByStoreAndUser", ctx, "s1", "u1").Return(nil, apperrors.New(apperrors.ErrNotFound, "Rating not found")).Once()
	ratingRepo.On("Create", ctx, mock.Anything).Return(apperrors.New(apperrors.ErrConflict, "Rating was submitted concurrently, retry the request")).Once()

	_, err := svc.Submit(ctx, "u1", "s1", intPtr(3), "")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 409, apperrors.Status(err))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestRatingService_SubmitPublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	ratingRepo := new(MockRatingRepository)
	storeRepo := new(MockStoreRepository)
	publisher := new(MockPublisher)
	svc := services.NewRatingService(ratingRepo, storeRepo, publisher)

	storeRepo.On("GetByID", ctx, "s1").Return(&models.Store{ID: "s1"}, nil).Once()
	ratingRepo.On("GetByStoreAndUser", ctx, "s1", "u1").Return(&models.Rating{ID: "r1"}, nil).Once()
	ratingRepo.On("UpdateScore", ctx, "s1", "u1", 1, "bad").Return(nil).Once()
	publisher.On("Publish", services.EventsExchange, services.EventRatingUpdated, mock.Anything).Return(errors.New("channel closed")).Once()

	created, err := svc.Submit(ctx, "u1", "s1", intPtr(1), "bad")
	require.NoError(t, err)
	assert.False(t, created)
	publisher.AssertExpectations(t)
}
