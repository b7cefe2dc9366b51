package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-adp/central-admin-api/internal/models"
)

func TestDashboardServiceSummary(t *testing.T) {
	users := &fakeUserStore{
		staff: []models.Staff{{ID: "staff-1"}},
		clients: []models.Client{
			{ID: "client-1"}, {ID: "client-2"},
		},
	}
	orders := &fakeOrderStore{orders: []models.Order{
		{ID: "order-1", UserID: "client-1", Status: models.OrderStatusPending},
		{ID: "order-2", UserID: "client-1", Status: models.OrderStatusDelivered},
		{ID: "order-3", UserID: "client-2", Status: models.OrderStatusPending},
	}}
	inventory := &fakeInventoryStore{records: []models.Inventory{
		{ID: "inv-1", Litres: 400}, {ID: "inv-2", Litres: 100},
	}}

	svc := NewDashboardService(users, orders, inventory, nil, nil, 0)
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalStaff)
	assert.Equal(t, 2, summary.TotalClients)
	assert.Equal(t, 3, summary.TotalOrders)
	assert.Equal(t, 2, summary.OrdersByStatus[models.OrderStatusPending])
	assert.InDelta(t, 500, summary.TotalLitres, 0.001)
	assert.Len(t, summary.RecentOrders, 3)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestDashboardServiceSummaryUsesCache(t *testing.T) {
	users := &fakeUserStore{staff: []models.Staff{{ID: "staff-1"}}}
	orders := &fakeOrderStore{}
	inventory := &fakeInventoryStore{}
	cache := &memoryCache{}

	svc := NewDashboardService(users, orders, inventory, cache, nil, time.Minute)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	users.staff = append(users.staff, models.Staff{ID: "staff-2"})
	cached, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cached.TotalStaff)
	assert.Equal(t, 1, cache.hits)

	svc.Invalidate(context.Background())
	fresh, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.TotalStaff)
}
