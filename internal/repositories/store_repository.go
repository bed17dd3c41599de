package repositories

import (
	"context"

	"storerate/internal/listing"
	"storerate/internal/models"
)

// StoreFilter holds the optional substring filters of the store listing.
type StoreFilter struct {
	Name    string `query:"name"`
	Address string `query:"address"`
	Owner   string `query:"owner"` // owner username
}

// StoreSortColumns is the sort allow-list of the store listing.
var StoreSortColumns = []string{"name", "address", "created_at"}

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id string) (*models.Store, error)
	AssignOwner(ctx context.Context, storeID, ownerID string) error
	ListWithAverages(ctx context.Context) ([]models.StoreSummary, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.StoreSummary, error)
	FirstByOwner(ctx context.Context, ownerID string) (*models.Store, error)
	List(ctx context.Context, filter StoreFilter, opts listing.Options) (listing.Page[models.StoreRow], error)
	Count(ctx context.Context) (int64, error)
}
