package repositories

import (
	"context"
	"fmt"

	"storerate/internal/listing"
	"storerate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const avgRatingColumn = "COALESCE(ROUND(AVG(r.rating), 1), 0) AS avg_rating"

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database.
func (r *GORMStoreRepository) Create(ctx context.Context, store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Create(store).Error
	return translate(err, "", "", "create store")
}

// GetByID retrieves a single store by its ID from the database.
func (r *GORMStoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Store not found", "", fmt.Sprintf("get store by ID %s", id))
	}
	return &store, nil
}

// AssignOwner points a store at a new owning user.
func (r *GORMStoreRepository) AssignOwner(ctx context.Context, storeID, ownerID string) error {
	res := r.db.WithContext(ctx).Model(&models.Store{}).Where("id = ?", storeID).Update("owner_id", ownerID)
	if res.Error != nil {
		return translate(res.Error, "", "", "assign store owner")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "Store not found", "", "assign store owner")
	}
	return nil
}

func (r *GORMStoreRepository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("stores AS s").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Group("s.id, s.name, s.address").
		Order("s.name ASC")
}

// ListWithAverages returns every store with its average rating.
func (r *GORMStoreRepository) ListWithAverages(ctx context.Context) ([]models.StoreSummary, error) {
	stores := []models.StoreSummary{}
	err := r.summaries(ctx).Select("s.id, s.name, s.address, " + avgRatingColumn).Scan(&stores).Error
	if err != nil {
		return nil, translate(err, "", "", "list stores")
	}
	return stores, nil
}

// ListByOwner returns the stores owned by ownerID with average and count of ratings.
func (r *GORMStoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.StoreSummary, error) {
	stores := []models.StoreSummary{}
	err := r.summaries(ctx).
		Select("s.id, s.name, s.address, "+avgRatingColumn+", COUNT(r.id) AS rating_count").
		Where("s.owner_id = ?", ownerID).
		Scan(&stores).Error
	if err != nil {
		return nil, translate(err, "", "", "list owner stores")
	}
	return stores, nil
}

// FirstByOwner returns the earliest store created for ownerID.
func (r *GORMStoreRepository) FirstByOwner(ctx context.Context, ownerID string) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at ASC").First(&store).Error
	if err != nil {
		return nil, translate(err, "No store found for this owner", "", "get store by owner")
	}
	return &store, nil
}

// List returns one page of stores joined with their owner and average rating.
func (r *GORMStoreRepository) List(ctx context.Context, filter StoreFilter, opts listing.Options) (listing.Page[models.StoreRow], error) {
	matches := listing.Contains(
		listing.Filter{Column: "s.name", Value: filter.Name},
		listing.Filter{Column: "s.address", Value: filter.Address},
		listing.Filter{Column: "u.username", Value: filter.Owner},
	)
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Table("stores AS s").
			Joins("LEFT JOIN users u ON u.id = s.owner_id").
			Scopes(matches)
	}

	var rows []models.StoreRow
	err := base().
		Select("s.id, s.name, s.address, s.created_at, u.username AS owner_name, u.email AS owner_email, " + avgRatingColumn).
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Group("s.id, s.name, s.address, s.created_at, u.username, u.email").
		Scopes(opts.Paginate("s")).
		Scan(&rows).Error
	if err != nil {
		return listing.Page[models.StoreRow]{}, translate(err, "", "", "list stores")
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return listing.Page[models.StoreRow]{}, translate(err, "", "", "count stores")
	}
	return listing.NewPage(opts, total, rows), nil
}

// Count returns the number of stores.
func (r *GORMStoreRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Store{}).Count(&n).Error
	return n, translate(err, "", "", "count stores")
}
