package models

import "time"

// Order statuses move Pending -> Confirmed -> Delivered, or Cancelled.
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// Order is a client purchase with its monetary breakdown.
type Order struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	OrderNumber string     `db:"order_number" json:"order_number"`
	Subtotal    float64    `db:"subtotal" json:"subtotal"`
	DeliveryFee float64    `db:"delivery_fee" json:"delivery_fee"`
	TaxAmount   float64    `db:"tax_amount" json:"tax_amount"`
	Total       float64    `db:"total" json:"total"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`

	Items []OrderItem `db:"-" json:"items"`
}

// OrderItem is a single line on an order.
type OrderItem struct {
	OrderID      string  `db:"order_id" json:"-"`
	ProductName  string  `db:"product_name" json:"product_name"`
	Sku          int     `db:"sku" json:"sku"`
	Quantity     int     `db:"quantity" json:"quantity"`
	PricePerUnit float64 `db:"price_per_unit" json:"price_per_unit"`
	TotalPrice   float64 `db:"total_price" json:"total_price"`
}
