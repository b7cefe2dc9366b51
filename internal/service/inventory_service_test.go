package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-adp/central-admin-api/internal/models"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
)

type fakeInventoryStore struct {
	records []models.Inventory
}

func (f *fakeInventoryStore) ListAll(context.Context) ([]models.Inventory, error) {
	return f.records, nil
}

func (f *fakeInventoryStore) ListByClient(_ context.Context, clientID string) ([]models.Inventory, error) {
	var out []models.Inventory
	for _, rec := range f.records {
		if rec.UserID == clientID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeInventoryStore) ListFiltered(_ context.Context, filter models.InventoryFilter) ([]models.Inventory, error) {
	var out []models.Inventory
	for _, rec := range f.records {
		if filter.ClientID != "" && rec.UserID != filter.ClientID {
			continue
		}
		if filter.Sku != nil && rec.Sku != *filter.Sku {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeInventoryStore) TotalLitres(context.Context) (float64, error) {
	var total float64
	for _, rec := range f.records {
		total += rec.Litres
	}
	return total, nil
}

type memoryCache struct {
	values map[string][]byte
	hits   int
	sets   int
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	m.hits++
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	m.sets++
	return nil
}

func (m *memoryCache) DeleteByPattern(context.Context, string) error {
	m.values = nil
	return nil
}

func usage(v float64) *float64 { return &v }

func seedInventory() (*fakeInventoryStore, *fakeUserStore) {
	now := time.Now().UTC()
	inventory := &fakeInventoryStore{records: []models.Inventory{
		{ID: "inv-1", UserID: "client-1", Sku: 100, SkuDescription: "Diesel", UserCode: "CL-0001", OrderDate: now, Litres: 500, AverageDailyUse: usage(20)},
		{ID: "inv-2", UserID: "client-1", Sku: 100, SkuDescription: "Diesel", UserCode: "CL-0001", OrderDate: now.Add(-48 * time.Hour), Litres: 300, AverageDailyUse: usage(10)},
		{ID: "inv-3", UserID: "client-2", Sku: 200, SkuDescription: "Petrol", UserCode: "CL-0002", OrderDate: now.Add(-24 * time.Hour), Litres: 200},
	}}
	authID := "auth-2"
	users := &fakeUserStore{clients: []models.Client{
		{ID: "client-1", UserCode: "CL-0001", Username: "acme", AuthID: &authID},
		{ID: "client-2", UserCode: "CL-0002", Username: "globex"},
		{ID: "client-3", UserCode: "CL-0003", Username: "initech"},
	}}
	return inventory, users
}

func TestInventoryServiceClientStats(t *testing.T) {
	inventory, users := seedInventory()
	svc := NewInventoryService(inventory, users, nil, nil, 0)

	stats, err := svc.ClientStats(context.Background(), "client-1")
	require.NoError(t, err)

	assert.Equal(t, "CL-0001", stats.UserCode)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.InDelta(t, 800, stats.TotalLitres, 0.001)
	assert.InDelta(t, 15, stats.AverageDailyUsage, 0.001)
	assert.InDelta(t, 800, stats.SkuBreakdown["Diesel"], 0.001)
	require.NotNil(t, stats.LastOrderDate)
	assert.Len(t, stats.RecentOrders, 2)
}

func TestInventoryServiceClientStatsNotFound(t *testing.T) {
	inventory, users := seedInventory()
	svc := NewInventoryService(inventory, users, nil, nil, 0)

	_, err := svc.ClientStats(context.Background(), "client-missing")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestInventoryServiceOverview(t *testing.T) {
	inventory, users := seedInventory()
	svc := NewInventoryService(inventory, users, nil, nil, 0)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, overview.TotalClients)
	assert.Equal(t, 3, overview.TotalOrders)
	assert.InDelta(t, 1000, overview.TotalLitres, 0.001)
	assert.InDelta(t, 800, overview.SkuDistribution["Diesel"], 0.001)
	assert.InDelta(t, 200, overview.SkuDistribution["Petrol"], 0.001)

	// Clients without deliveries do not appear in the top list.
	require.Len(t, overview.TopClients, 2)
	assert.Equal(t, "client-1", overview.TopClients[0].ClientID)
	assert.Equal(t, "client-2", overview.TopClients[1].ClientID)
}

func TestInventoryServiceOverviewUsesCache(t *testing.T) {
	inventory, users := seedInventory()
	cache := &memoryCache{}
	svc := NewInventoryService(inventory, users, cache, nil, time.Minute)

	first, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Mutate the backing store: the cached payload should still be served.
	inventory.records = nil
	second, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalOrders, second.TotalOrders)
	assert.Equal(t, 1, cache.hits)

	svc.InvalidateCache(context.Background())
	third, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, third.TotalOrders)
}

func TestInventoryServiceListFiltered(t *testing.T) {
	inventory, users := seedInventory()
	svc := NewInventoryService(inventory, users, nil, nil, 0)

	sku := 100
	records, err := svc.List(context.Background(), models.InventoryFilter{Sku: &sku})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	empty, err := svc.List(context.Background(), models.InventoryFilter{ClientID: "client-none"})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
