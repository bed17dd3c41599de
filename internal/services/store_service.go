package services

import (
	"context"
	"errors"

	"storerate/internal/apperrors"
	"storerate/internal/listing"
	"storerate/internal/models"
	"storerate/internal/repositories"

	log "github.com/sirupsen/logrus"
)

// StoreService handles business logic related to stores.
type StoreService struct {
	storeRepo  repositories.StoreRepository
	userRepo   repositories.UserRepository
	ratingRepo repositories.RatingRepository
	events     EventPublisher
}

// NewStoreService creates a new StoreService. events may be nil.
func NewStoreService(storeRepo repositories.StoreRepository, userRepo repositories.UserRepository, ratingRepo repositories.RatingRepository, events EventPublisher) *StoreService {
	return &StoreService{
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		events:     events,
	}
}

// ListStores returns every store with its average rating.
func (s *StoreService) ListStores(ctx context.Context) ([]models.StoreSummary, error) {
	return s.storeRepo.ListWithAverages(ctx)
}

// ListPage returns one page of the admin store listing.
func (s *StoreService) ListPage(ctx context.Context, filter repositories.StoreFilter, req listing.Request) (listing.Page[models.StoreRow], error) {
	opts := listing.Normalize(req, repositories.StoreSortColumns...)
	return s.storeRepo.List(ctx, filter, opts)
}

// CreateStore stores a new store. A non-nil OwnerID must reference a user
// holding the owner role.
func (s *StoreService) CreateStore(ctx context.Context, store *models.Store) error {
	if store.OwnerID != nil {
		if err := s.requireOwnerRole(ctx, *store.OwnerID); err != nil {
			return err
		}
	}
	return s.create(ctx, store)
}

// CreateOwnedStore is the self-service path: the caller becomes the owner.
func (s *StoreService) CreateOwnedStore(ctx context.Context, callerID string, store *models.Store) error {
	store.OwnerID = &callerID
	return s.create(ctx, store)
}

func (s *StoreService) create(ctx context.Context, store *models.Store) error {
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return err
	}
	payload := map[string]interface{}{"store_id": store.ID, "name": store.Name}
	if store.OwnerID != nil {
		payload["owner_id"] = *store.OwnerID
	}
	publishEvent(s.events, EventStoreCreated, payload)
	return nil
}

// AssignOwner reassigns a store after checking ownerID holds the owner role.
func (s *StoreService) AssignOwner(ctx context.Context, storeID, ownerID string) error {
	if err := s.requireOwnerRole(ctx, ownerID); err != nil {
		return err
	}
	if err := s.storeRepo.AssignOwner(ctx, storeID, ownerID); err != nil {
		return err
	}
	log.WithFields(log.Fields{"store_id": storeID, "owner_id": ownerID}).Info("Store owner assigned")
	publishEvent(s.events, EventStoreOwnerAssigned, map[string]interface{}{"store_id": storeID, "owner_id": ownerID})
	return nil
}

func (s *StoreService) requireOwnerRole(ctx context.Context, userID string) error {
	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Validation("Owner not found or not a store owner")
		}
		return err
	}
	if owner.Role != models.RoleOwner {
		return apperrors.Validation("Owner not found or not a store owner")
	}
	return nil
}

// OwnerOf returns the owning user id of storeID, nil when unassigned.
func (s *StoreService) OwnerOf(ctx context.Context, storeID string) (*string, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return store.OwnerID, nil
}

// MyStores returns the stores owned by ownerID.
func (s *StoreService) MyStores(ctx context.Context, ownerID string) ([]models.StoreSummary, error) {
	return s.storeRepo.ListByOwner(ctx, ownerID)
}

// StoreRatings returns the ratings of storeID with their aggregate.
func (s *StoreService) StoreRatings(ctx context.Context, storeID string) (*models.StoreRatings, error) {
	ratings, err := s.ratingRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	avg, count, err := s.ratingRepo.StoreAggregate(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &models.StoreRatings{
		StoreID:     storeID,
		AvgRating:   avg,
		RatingCount: count,
		Ratings:     ratings,
	}, nil
}

// OwnerDashboard returns the first store of ownerID with its ratings.
func (s *StoreService) OwnerDashboard(ctx context.Context, ownerID string) (*models.Store, *models.StoreRatings, error) {
	store, err := s.storeRepo.FirstByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	ratings, err := s.StoreRatings(ctx, store.ID)
	if err != nil {
		return nil, nil, err
	}
	return store, ratings, nil
}
