package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/central-adp/central-admin-api/internal/service"
	"github.com/central-adp/central-admin-api/pkg/response"
)

// DashboardHandler exposes the admin landing-page summary.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Summary godoc
// @Summary Admin dashboard
// @Description Aggregated counts and recent activity for back-office users
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	dashboard, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}
