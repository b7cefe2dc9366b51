package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/central-adp/central-admin-api/internal/dto"
	"github.com/central-adp/central-admin-api/internal/models"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
)

const (
	stockOverviewCacheKey     = "stock_metrics:overview"
	clientStatsCacheKeyFormat = "stock_metrics:client:%s"
	recentOrderWindow         = 5
	topClientLimit            = 5
)

type inventoryStore interface {
	ListAll(ctx context.Context) ([]models.Inventory, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Inventory, error)
	ListFiltered(ctx context.Context, filter models.InventoryFilter) ([]models.Inventory, error)
	TotalLitres(ctx context.Context) (float64, error)
}

type metricsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// InventoryService aggregates delivery records into per-client and
// cross-client stock metrics, fronted by a Redis cache.
type InventoryService struct {
	inventory inventoryStore
	users     userStore
	cache     metricsCache
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewInventoryService constructs an InventoryService instance.
func NewInventoryService(inventory inventoryStore, users userStore, cache metricsCache, logger *zap.Logger, cacheTTL time.Duration) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &InventoryService{
		inventory: inventory,
		users:     users,
		cache:     cache,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// List returns inventory records matching the filter. Unfiltered listings are
// served straight from the repository; this endpoint is not cached because
// the filter space is unbounded.
func (s *InventoryService) List(ctx context.Context, filter models.InventoryFilter) ([]models.Inventory, error) {
	records, err := s.inventory.ListFiltered(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inventory")
	}
	if records == nil {
		records = []models.Inventory{}
	}
	return records, nil
}

// ClientStats aggregates one client's delivery history.
func (s *InventoryService) ClientStats(ctx context.Context, clientID string) (*dto.ClientInventoryStats, error) {
	cacheKey := fmt.Sprintf(clientStatsCacheKeyFormat, clientID)
	if s.cache != nil {
		var cached dto.ClientInventoryStats
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("client stats cache read failed", zap.Error(err))
		}
	}

	client, err := s.users.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "client not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load client")
	}

	records, err := s.inventory.ListByClient(ctx, clientID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inventory")
	}

	stats := buildClientStats(client, records)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("client stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Overview aggregates delivery metrics across every client.
func (s *InventoryService) Overview(ctx context.Context) (*dto.StockMetricsOverview, error) {
	if s.cache != nil {
		var cached dto.StockMetricsOverview
		if err := s.cache.Get(ctx, stockOverviewCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("overview cache read failed", zap.Error(err))
		}
	}

	records, err := s.inventory.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inventory")
	}

	clients, err := s.users.ListClients(ctx, "", "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load clients")
	}

	overview := buildOverview(clients, records)

	if s.cache != nil {
		if err := s.cache.Set(ctx, stockOverviewCacheKey, overview, s.cacheTTL); err != nil {
			s.logger.Warn("overview cache write failed", zap.Error(err))
		}
	}
	return overview, nil
}

// InvalidateCache drops every cached stock-metrics payload. Called after
// writes that change the underlying delivery data.
func (s *InventoryService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "stock_metrics:*"); err != nil {
		s.logger.Warn("stock metrics cache invalidation failed", zap.Error(err))
	}
}

func buildClientStats(client *models.Client, records []models.Inventory) *dto.ClientInventoryStats {
	stats := &dto.ClientInventoryStats{
		ClientID:     client.ID,
		UserCode:     client.UserCode,
		Username:     client.Username,
		TotalOrders:  len(records),
		SkuBreakdown: make(map[string]float64),
	}

	var usageSum float64
	var usageCount int
	for i := range records {
		rec := &records[i]
		stats.TotalLitres += rec.Litres
		stats.SkuBreakdown[rec.SkuDescription] += rec.Litres
		if rec.AverageDailyUse != nil {
			usageSum += *rec.AverageDailyUse
			usageCount++
		}
		if stats.LastOrderDate == nil || rec.OrderDate.After(*stats.LastOrderDate) {
			orderDate := rec.OrderDate
			stats.LastOrderDate = &orderDate
		}
	}
	if usageCount > 0 {
		stats.AverageDailyUsage = usageSum / float64(usageCount)
	}

	// Records arrive newest first from the repository.
	if len(records) > recentOrderWindow {
		stats.RecentOrders = records[:recentOrderWindow]
	} else {
		stats.RecentOrders = records
	}
	return stats
}

func buildOverview(clients []models.Client, records []models.Inventory) *dto.StockMetricsOverview {
	overview := &dto.StockMetricsOverview{
		TotalClients:    len(clients),
		TotalOrders:     len(records),
		SkuDistribution: make(map[string]float64),
	}

	byClient := make(map[string][]models.Inventory)
	for i := range records {
		rec := &records[i]
		overview.TotalLitres += rec.Litres
		overview.SkuDistribution[rec.SkuDescription] += rec.Litres
		byClient[rec.UserID] = append(byClient[rec.UserID], *rec)
	}

	var usageSum float64
	var usageCount int
	var perClient []dto.ClientInventoryStats
	for i := range clients {
		client := &clients[i]
		clientRecords, ok := byClient[client.ID]
		if !ok {
			continue
		}
		stats := buildClientStats(client, clientRecords)
		stats.RecentOrders = nil
		stats.SkuBreakdown = nil
		if stats.AverageDailyUsage > 0 {
			usageSum += stats.AverageDailyUsage
			usageCount++
		}
		perClient = append(perClient, *stats)
	}
	if usageCount > 0 {
		overview.AverageDailyUsageAllClients = usageSum / float64(usageCount)
	}

	sort.Slice(perClient, func(i, j int) bool {
		return perClient[i].TotalLitres > perClient[j].TotalLitres
	})
	if len(perClient) > topClientLimit {
		perClient = perClient[:topClientLimit]
	}
	overview.TopClients = perClient
	return overview
}
