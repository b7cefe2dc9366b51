package dto

import (
	"time"

	"github.com/central-adp/central-admin-api/internal/models"
)

// AdminDashboard is the landing-page summary for back-office users.
type AdminDashboard struct {
	TotalStaff     int            `json:"total_staff"`
	TotalClients   int            `json:"total_clients"`
	TotalOrders    int            `json:"total_orders"`
	OrdersByStatus map[string]int `json:"orders_by_status"`
	TotalLitres    float64        `json:"total_litres"`
	RecentOrders   []models.Order `json:"recent_orders"`
	GeneratedAt    time.Time      `json:"generated_at"`
}
