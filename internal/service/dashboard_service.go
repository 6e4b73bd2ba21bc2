package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/bulletin-api/internal/bulletin"
	"github.com/noah-isme/bulletin-api/internal/models"
)

const dashboardTopLimit = 5

type datasetLoader interface {
	Dataset(ctx context.Context) (*bulletin.Dataset, error)
}

// DashboardService composes the school overview.
type DashboardService struct {
	data   datasetLoader
	cache  *CacheService
	logger *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(data datasetLoader, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{data: data, cache: cache, logger: logger}
}

// Get returns counts, students per class, the school average and the top
// students. The boolean reports whether the value came from the cache.
func (s *DashboardService) Get(ctx context.Context) (*models.Dashboard, bool, error) {
	var cached models.Dashboard
	if hit, _ := s.cache.Get(ctx, dashboardCacheKey, &cached); hit {
		return &cached, true, nil
	}
	data, err := s.data.Dataset(ctx)
	if err != nil {
		return nil, false, err
	}
	dashboard := bulletin.Dashboard(*data, dashboardTopLimit)
	_ = s.cache.Set(ctx, dashboardCacheKey, dashboard, 0)
	return &dashboard, false, nil
}
