package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/central-adp/central-admin-api/internal/models"
)

// InventoryRepository provides read access to client delivery records.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const inventoryColumns = `id, user_id, sku, sku_description, user_code, order_date, previous_order_date, litres, days_between_orders, average_daily_use`

// ListAll returns every inventory record, newest order first.
func (r *InventoryRepository) ListAll(ctx context.Context) ([]models.Inventory, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory ORDER BY order_date DESC`, inventoryColumns)
	var records []models.Inventory
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return records, nil
}

// ListByClient returns a client's inventory records, newest order first.
func (r *InventoryRepository) ListByClient(ctx context.Context, clientID string) ([]models.Inventory, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory WHERE user_id = $1 ORDER BY order_date DESC`, inventoryColumns)
	var records []models.Inventory
	if err := r.db.SelectContext(ctx, &records, query, clientID); err != nil {
		return nil, fmt.Errorf("list inventory by client: %w", err)
	}
	return records, nil
}

// ListFiltered returns inventory records matching the filter, newest first.
func (r *InventoryRepository) ListFiltered(ctx context.Context, filter models.InventoryFilter) ([]models.Inventory, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory WHERE 1=1`, inventoryColumns)
	var args []interface{}

	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.UserCode != "" {
		args = append(args, filter.UserCode)
		query += fmt.Sprintf(" AND user_code = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND order_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND order_date <= $%d", len(args))
	}
	if filter.Sku != nil {
		args = append(args, *filter.Sku)
		query += fmt.Sprintf(" AND sku = $%d", len(args))
	}

	query += " ORDER BY order_date DESC"

	var records []models.Inventory
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list inventory filtered: %w", err)
	}
	return records, nil
}

// TotalLitres sums litres across all inventory records.
func (r *InventoryRepository) TotalLitres(ctx context.Context) (float64, error) {
	var total float64
	if err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(litres), 0) FROM inventory`); err != nil {
		return 0, fmt.Errorf("total litres: %w", err)
	}
	return total, nil
}
