package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-adp/central-admin-api/internal/dto"
	"github.com/central-adp/central-admin-api/internal/models"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
)

type fakeOrderStore struct {
	created []*models.Order
	orders  []models.Order
}

func (f *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	order.ID = fmt.Sprintf("order-%d", len(f.created)+1)
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderStore) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) FindByIDForUser(_ context.Context, orderID, userID string) (*models.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == orderID && f.orders[i].UserID == userID {
			return &f.orders[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeOrderStore) ListRecent(_ context.Context, limit int) ([]models.Order, error) {
	if len(f.orders) > limit {
		return f.orders[:limit], nil
	}
	return f.orders, nil
}

func (f *fakeOrderStore) CountByStatus(context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, o := range f.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func TestOrderServiceCreate(t *testing.T) {
	store := &fakeOrderStore{}
	svc := NewOrderService(store, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }

	order, err := svc.Create(context.Background(), "client-1", dto.CreateOrderRequest{
		Items: []dto.CreateOrderItem{
			{ProductName: "Diesel", Sku: 100, Quantity: 2, PricePerUnit: 50, TotalPrice: 100},
		},
		Subtotal: 100,
		Total:    110,
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "client-1", order.UserID)
	assert.Regexp(t, regexp.MustCompile(`^ORD-20260314-\d{5}$`), order.OrderNumber)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Diesel", order.Items[0].ProductName)
}

func TestOrderServiceCreateRequiresItems(t *testing.T) {
	svc := NewOrderService(&fakeOrderStore{}, nil, nil)

	_, err := svc.Create(context.Background(), "client-1", dto.CreateOrderRequest{})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestOrderServiceGetForUserScopesOwnership(t *testing.T) {
	store := &fakeOrderStore{orders: []models.Order{
		{ID: "order-1", UserID: "client-1", Status: models.OrderStatusPending},
	}}
	svc := NewOrderService(store, nil, nil)

	order, err := svc.GetForUser(context.Background(), "order-1", "client-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)

	// Someone else's order reads as not found, not forbidden.
	_, err = svc.GetForUser(context.Background(), "order-1", "client-2")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestOrderServiceListForUserEmpty(t *testing.T) {
	svc := NewOrderService(&fakeOrderStore{}, nil, nil)

	orders, err := svc.ListForUser(context.Background(), "client-1")
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
