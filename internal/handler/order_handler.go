package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/central-adp/central-admin-api/internal/dto"
	"github.com/central-adp/central-admin-api/internal/service"
	appErrors "github.com/central-adp/central-admin-api/pkg/errors"
	"github.com/central-adp/central-admin-api/pkg/response"
)

// OrderHandler exposes order endpoints scoped to the authenticated principal.
type OrderHandler struct {
	service *service.OrderService
}

// NewOrderHandler creates a new handler.
func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{service: svc}
}

// Create godoc
// @Summary Place an order
// @Tags Orders
// @Accept json
// @Produce json
// @Param payload body dto.CreateOrderRequest true "Order payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid order payload"))
		return
	}

	order, err := h.service.Create(c.Request.Context(), claims.Subject, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// List godoc
// @Summary List own orders
// @Tags Orders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	orders, err := h.service.ListForUser(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, orders, nil)
}

// Get godoc
// @Summary Get own order
// @Tags Orders
// @Produce json
// @Param id path string true "Order identifier"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	order, err := h.service.GetForUser(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}
