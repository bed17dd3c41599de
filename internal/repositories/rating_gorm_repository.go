package repositories

import (
	"context"

	"storerate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{
		db: db,
	}
}

// GetByStoreAndUser returns the rating userID gave storeID.
func (r *GORMRatingRepository) GetByStoreAndUser(ctx context.Context, storeID, userID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).First(&rating, "store_id = ? AND user_id = ?", storeID, userID).Error
	if err != nil {
		return nil, translate(err, "Rating not found", "", "get rating")
	}
	return &rating, nil
}

// Create inserts a rating. A second rating for the same store and user
// violates idx_ratings_store_user and is reported as a conflict.
func (r *GORMRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Create(rating).Error
	return translate(err, "", "Rating was submitted concurrently, retry the request", "create rating")
}

// UpdateScore overwrites score and feedback in place; an empty feedback is written too.
func (r *GORMRatingRepository) UpdateScore(ctx context.Context, storeID, userID string, score int, feedback string) error {
	res := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Updates(map[string]interface{}{"rating": score, "feedback": feedback})
	if res.Error != nil {
		return translate(res.Error, "", "", "update rating")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "Rating not found", "", "update rating")
	}
	return nil
}

// ListByUser returns the ratings userID has submitted.
func (r *GORMRatingRepository) ListByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	ratings := []models.Rating{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&ratings).Error
	if err != nil {
		return nil, translate(err, "", "", "list user ratings")
	}
	return ratings, nil
}

// ListByStore returns the ratings on storeID with the rating user, newest first.
func (r *GORMRatingRepository) ListByStore(ctx context.Context, storeID string) ([]models.StoreRatingRow, error) {
	rows := []models.StoreRatingRow{}
	err := r.db.WithContext(ctx).Table("ratings AS r").
		Select("r.user_id, u.username, u.email, r.rating, r.feedback, r.created_at").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.store_id = ?", storeID).
		Order("r.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "", "", "list store ratings")
	}
	return rows, nil
}

// StoreAggregate returns the average (two decimals, 0 when unrated) and the
// number of ratings of storeID.
func (r *GORMRatingRepository) StoreAggregate(ctx context.Context, storeID string) (float64, int64, error) {
	var agg struct {
		AvgRating   float64
		RatingCount int64
	}
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(ROUND(AVG(rating), 2), 0) AS avg_rating, COUNT(*) AS rating_count").
		Where("store_id = ?", storeID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, translate(err, "", "", "aggregate store ratings")
	}
	return agg.AvgRating, agg.RatingCount, nil
}

// ListAll returns every rating with user and store names, newest first.
func (r *GORMRatingRepository) ListAll(ctx context.Context) ([]models.RatingRow, error) {
	rows := []models.RatingRow{}
	err := r.db.WithContext(ctx).Table("ratings AS r").
		Select("r.id, r.rating, r.feedback, r.created_at, u.username AS user_name, u.email AS user_email, s.name AS store_name").
		Joins("JOIN users u ON u.id = r.user_id").
		Joins("JOIN stores s ON s.id = r.store_id").
		Order("r.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "", "", "list ratings")
	}
	return rows, nil
}

// Count returns the number of ratings.
func (r *GORMRatingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&n).Error
	return n, translate(err, "", "", "count ratings")
}
