package dto

// CreateOrderItem is one requested line on a new order.
type CreateOrderItem struct {
	ProductName  string  `json:"product_name" validate:"required"`
	Sku          int     `json:"sku" validate:"required"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	PricePerUnit float64 `json:"price_per_unit" validate:"gte=0"`
	TotalPrice   float64 `json:"total_price" validate:"gte=0"`
}

// CreateOrderRequest creates an order for the authenticated user.
type CreateOrderRequest struct {
	Items       []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
	Subtotal    float64           `json:"subtotal" validate:"gte=0"`
	DeliveryFee float64           `json:"delivery_fee" validate:"gte=0"`
	TaxAmount   float64           `json:"tax_amount" validate:"gte=0"`
	Total       float64           `json:"total" validate:"gte=0"`
}
