package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/central-adp/central-admin-api/internal/models"
)

// OrderRepository provides database access for client orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, order_number, subtotal, delivery_fee, tax_amount, total, status, created_at, updated_at`

// Create inserts an order with its items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const orderQuery = `INSERT INTO orders (id, user_id, order_number, subtotal, delivery_fee, tax_amount, total, status, created_at) VALUES (:id, :user_id, :order_number, :subtotal, :delivery_fee, :tax_amount, :total, :status, :created_at)`
	if _, err := tx.NamedExecContext(ctx, orderQuery, order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	const itemQuery = `INSERT INTO order_items (order_id, product_name, sku, quantity, price_per_unit, total_price) VALUES (:order_id, :product_name, :sku, :quantity, :price_per_unit, :total_price)`
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if _, err := tx.NamedExecContext(ctx, itemQuery, order.Items[i]); err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// ListByUser returns a user's orders, newest first, with items attached.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, orderColumns)
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for i := range orders {
		items, err := r.listItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// FindByIDForUser returns an order only when it belongs to the given user.
func (r *OrderRepository) FindByIDForUser(ctx context.Context, orderID, userID string) (*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 AND user_id = $2 LIMIT 1`, orderColumns)
	var order models.Order
	if err := r.db.GetContext(ctx, &order, query, orderID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	items, err := r.listItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

// ListRecent returns the most recent orders across all users.
func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC LIMIT %d`, orderColumns, limit)
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}
	return orders, nil
}

// CountByStatus returns order totals grouped by status.
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan order count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order counts: %w", err)
	}
	return counts, nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	const query = `SELECT order_id, product_name, sku, quantity, price_per_unit, total_price FROM order_items WHERE order_id = $1`
	var items []models.OrderItem
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}
