package services

import (
	"context"
	"errors"

	"storerate/internal/apperrors"
	"storerate/internal/models"
	"storerate/internal/repositories"
	"storerate/pkg/metrics"

	log "github.com/sirupsen/logrus"
)

// RatingService handles rating submission and rating reads.
type RatingService struct {
	ratingRepo repositories.RatingRepository
	storeRepo  repositories.StoreRepository
	events     EventPublisher
}

// NewRatingService creates a new RatingService. events may be nil.
func NewRatingService(ratingRepo repositories.RatingRepository, storeRepo repositories.StoreRepository, events EventPublisher) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
		events:     events,
	}
}

// ValidateScore rejects a missing score or one outside [MinRating, MaxRating].
func ValidateScore(score *int) error {
	if score == nil || *score < models.MinRating || *score > models.MaxRating {
		return apperrors.Validation("Rating must be between 1 and 5")
	}
	return nil
}

// Submit inserts the caller's rating of storeID or updates it in place.
// created reports whether a new row was written. Two concurrent first
// submissions race on idx_ratings_store_user; the loser gets ErrConflict.
func (s *RatingService) Submit(ctx context.Context, userID, storeID string, score *int, feedback string) (created bool, err error) {
	if err := ValidateScore(score); err != nil {
		return false, err
	}
	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		return false, err
	}

	_, err = s.ratingRepo.GetByStoreAndUser(ctx, storeID, userID)
	switch {
	case err == nil:
		if err := s.ratingRepo.UpdateScore(ctx, storeID, userID, *score, feedback); err != nil {
			return false, err
		}
	case errors.Is(err, apperrors.ErrNotFound):
		rating := &models.Rating{StoreID: storeID, UserID: userID, Rating: *score, Feedback: feedback}
		if err := s.ratingRepo.Create(ctx, rating); err != nil {
			return false, err
		}
		created = true
	default:
		return false, err
	}

	event := EventRatingUpdated
	if created {
		event = EventRatingSubmitted
	}
	metrics.RecordRating(event, *score)
	log.WithFields(log.Fields{"store_id": storeID, "user_id": userID, "rating": *score, "created": created}).Debug("Rating stored")
	publishEvent(s.events, event, map[string]interface{}{"store_id": storeID, "user_id": userID, "rating": *score})
	return created, nil
}

// ListByUser returns the ratings submitted by userID.
func (s *RatingService) ListByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	return s.ratingRepo.ListByUser(ctx, userID)
}

// ListAll returns every rating, newest first.
func (s *RatingService) ListAll(ctx context.Context) ([]models.RatingRow, error) {
	return s.ratingRepo.ListAll(ctx)
}
