package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/central-adp/central-admin-api/internal/dto"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:admin"

type dashboardUserStore interface {
	CountStaff(ctx context.Context) (int, error)
	CountClients(ctx context.Context) (int, error)
}

// DashboardService assembles the admin landing-page summary.
type DashboardService struct {
	users     dashboardUserStore
	orders    orderStore
	inventory inventoryStore
	cache     metricsCache
	logger    *zap.Logger
	cacheTTL  time.Duration
	now       func() time.Time
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(users dashboardUserStore, orders orderStore, inventory inventoryStore, cache metricsCache, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{
		users:     users,
		orders:    orders,
		inventory: inventory,
		cache:     cache,
		logger:    logger,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

// Summary returns the admin dashboard payload, served from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*dto.AdminDashboard, error) {
	if s.cache != nil {
		var cached dto.AdminDashboard
		if err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	staffCount, err := s.users.CountStaff(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count staff")
	}
	clientCount, err := s.users.CountClients(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count clients")
	}
	ordersByStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count orders")
	}
	recentOrders, err := s.orders.ListRecent(ctx, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent orders")
	}
	totalLitres, err := s.inventory.TotalLitres(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum litres")
	}

	var totalOrders int
	for _, count := range ordersByStatus {
		totalOrders += count
	}

	dashboard := &dto.AdminDashboard{
		TotalStaff:     staffCount,
		TotalClients:   clientCount,
		TotalOrders:    totalOrders,
		OrdersByStatus: ordersByStatus,
		TotalLitres:    totalLitres,
		RecentOrders:   recentOrders,
		GeneratedAt:    s.now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, dashboard, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return dashboard, nil
}

// Invalidate drops the cached dashboard payload.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
