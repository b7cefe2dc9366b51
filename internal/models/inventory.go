package models

import "time"

// Inventory is one delivery record for a client. AverageDailyUse is null
// until a second order establishes a usage interval.
type Inventory struct {
	ID                string     `db:"id" json:"id"`
	UserID            string     `db:"user_id" json:"user_id"`
	Sku               int        `db:"sku" json:"sku"`
	SkuDescription    string     `db:"sku_description" json:"sku_description"`
	UserCode          string     `db:"user_code" json:"user_code"`
	OrderDate         time.Time  `db:"order_date" json:"order_date"`
	PreviousOrderDate *time.Time `db:"previous_order_date" json:"previous_order_date,omitempty"`
	Litres            float64    `db:"litres" json:"litres"`
	DaysBetweenOrders *int       `db:"days_between_orders" json:"days_between_orders,omitempty"`
	AverageDailyUse   *float64   `db:"average_daily_use" json:"average_daily_use,omitempty"`
}

// InventoryFilter narrows inventory listings.
type InventoryFilter struct {
	ClientID  string
	UserCode  string
	StartDate *time.Time
	EndDate   *time.Time
	Sku       *int
}
