package repositories

import (
	"context"

	"storerate/internal/models"
)

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	GetByStoreAndUser(ctx context.Context, storeID, userID string) (*models.Rating, error)
	Create(ctx context.Context, rating *models.Rating) error
	UpdateScore(ctx context.Context, storeID, userID string, score int, feedback string) error
	ListByUser(ctx context.Context, userID string) ([]models.Rating, error)
	ListByStore(ctx context.Context, storeID string) ([]models.StoreRatingRow, error)
	StoreAggregate(ctx context.Context, storeID string) (avg float64, count int64, err error)
	ListAll(ctx context.Context) ([]models.RatingRow, error)
	Count(ctx context.Context) (int64, error)
}
