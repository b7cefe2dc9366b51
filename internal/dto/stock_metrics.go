package dto

import (
	"time"

	"github.com/central-adp/central-admin-api/internal/models"
)

// ClientInventoryStats aggregates one client's delivery history.
type ClientInventoryStats struct {
	ClientID          string             `json:"client_id"`
	UserCode          string             `json:"user_code"`
	Username          string             `json:"username"`
	TotalOrders       int                `json:"total_orders"`
	TotalLitres       float64            `json:"total_litres"`
	AverageDailyUsage float64            `json:"average_daily_usage"`
	LastOrderDate     *time.Time         `json:"last_order_date,omitempty"`
	RecentOrders      []models.Inventory `json:"recent_orders,omitempty"`
	SkuBreakdown      map[string]float64 `json:"sku_breakdown,omitempty"`
}

// StockMetricsOverview is the cross-client aggregation for the dashboard.
type StockMetricsOverview struct {
	TotalClients                int                    `json:"total_clients"`
	TotalOrders                 int                    `json:"total_orders"`
	TotalLitres                 float64                `json:"total_litres"`
	AverageDailyUsageAllClients float64                `json:"average_daily_usage_all_clients"`
	TopClients                  []ClientInventoryStats `json:"top_clients"`
	SkuDistribution             map[string]float64     `json:"sku_distribution"`
}
