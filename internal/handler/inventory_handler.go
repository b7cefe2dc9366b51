package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/central-adp/central-admin-api/internal/models"
	"github.com/central-adp/central-admin-api/internal/service"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
	"github.com/central-adp/central-admin-api/pkg/response"
)

// InventoryHandler exposes inventory listings and stock-metrics aggregations.
type InventoryHandler struct {
	service *service.InventoryService
}

// NewInventoryHandler creates a new handler.
func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: svc}
}

// List godoc
// @Summary List inventory records
// @Tags StockMetrics
// @Produce json
// @Param client_id query string false "Client identifier"
// @Param user_code query string false "Client user code"
// @Param start_date query string false "RFC 3339 lower bound"
// @Param end_date query string false "RFC 3339 upper bound"
// @Param sku query int false "SKU number"
// @Success 200 {object} response.Envelope
// @Router /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	filter := models.InventoryFilter{
		ClientID: c.Query("client_id"),
		UserCode: c.Query("user_code"),
	}

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start_date must be RFC 3339"))
			return
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "end_date must be RFC 3339"))
			return
		}
		filter.EndDate = &t
	}
	if raw := c.Query("sku"); raw != "" {
		sku, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "sku must be an integer"))
			return
		}
		filter.Sku = &sku
	}

	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Overview godoc
// @Summary Stock metrics overview
// @Description Cross-client delivery aggregation for the dashboard
// @Tags StockMetrics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stock-metrics/overview [get]
func (h *InventoryHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// ClientStats godoc
// @Summary Per-client stock metrics
// @Tags StockMetrics
// @Produce json
// @Param id path string true "Client identifier"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /stock-metrics/clients/{id} [get]
func (h *InventoryHandler) ClientStats(c *gin.Context) {
	stats, err := h.service.ClientStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
