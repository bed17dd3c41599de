package services

import (
	"context"

	"storerate/internal/models"
	"storerate/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// DashboardService aggregates the admin dashboard counters.
type DashboardService struct {
	userRepo   repositories.UserRepository
	storeRepo  repositories.StoreRepository
	ratingRepo repositories.RatingRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(userRepo repositories.UserRepository, storeRepo repositories.StoreRepository, ratingRepo repositories.RatingRepository) *DashboardService {
	return &DashboardService{userRepo: userRepo, storeRepo: storeRepo, ratingRepo: ratingRepo}
}

// Summary runs the three counts concurrently. The counts are not taken from
// one snapshot.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		summary.TotalUsers, err = s.userRepo.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalStores, err = s.storeRepo.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalRatings, err = s.ratingRepo.Count(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &summary, nil
}
