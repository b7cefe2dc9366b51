package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/central-adp/central-admin-api/internal/dto"
	"github.com/central-adp/central-admin-api/internal/models"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
)

type orderStore interface {
	Create(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	FindByIDForUser(ctx context.Context, orderID, userID string) (*models.Order, error)
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// OrderService manages client orders.
type OrderService struct {
	orders    orderStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService constructs an OrderService instance.
func NewOrderService(orders orderStore, validate *validator.Validate, logger *zap.Logger) *OrderService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{orders: orders, validator: validate, logger: logger, now: time.Now}
}

// Create places an order for the given user in Pending status.
func (s *OrderService) Create(ctx context.Context, userID string, req dto.CreateOrderRequest) (*models.Order, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid order payload")
	}

	order := &models.Order{
		UserID:      userID,
		OrderNumber: s.newOrderNumber(),
		Subtotal:    req.Subtotal,
		DeliveryFee: req.DeliveryFee,
		TaxAmount:   req.TaxAmount,
		Total:       req.Total,
		Status:      models.OrderStatusPending,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductName:  item.ProductName,
			Sku:          item.Sku,
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
			TotalPrice:   item.TotalPrice,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create order")
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID))
	return order, nil
}

// ListForUser returns the user's own orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// GetForUser returns a single order, scoped to its owner. An order that
// exists but belongs to someone else reads as not found.
func (s *OrderService) GetForUser(ctx context.Context, orderID, userID string) (*models.Order, error) {
	order, err := s.orders.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}
	return order, nil
}

// newOrderNumber builds a human-readable order reference of the form
// ORD-YYYYMMDD-NNNNN. The random suffix is not guaranteed unique; the
// order_number column's unique constraint backstops collisions.
func (s *OrderService) newOrderNumber() string {
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	suffix := binary.BigEndian.Uint32(buf[:]) % 100000
	return fmt.Sprintf("ORD-%s-%05d", s.now().UTC().Format("20060102"), suffix)
}
