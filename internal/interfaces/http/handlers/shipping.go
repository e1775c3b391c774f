// internal/interfaces/http/handlers/shipping.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/tireshop-backend/internal/config"
	"github.com/your-org/tireshop-backend/internal/domain/order"
	"gorm.io/gorm"
)

// ShippingHandler handles shipping rate lookups during checkout
type ShippingHandler struct {
	orderService *order.Service
	config       *config.Config
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *ShippingHandler {
	orderHandler := NewOrderHandler(db, redisClient, cfg)
	return &ShippingHandler{
		orderService: orderHandler.orderService,
		config:       cfg,
	}
}

// RatesRequest represents a shipping rate lookup
type RatesRequest struct {
	ShippingAddress order.Address            `json:"shipping_address" binding:"required"`
	Items           []order.OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// GetRates handles POST /checkout/shipping-rates
func (h *ShippingHandler) GetRates(c *gin.Context) {
	var req RatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	options, err := h.orderService.GetShippingRates(c.Request.Context(), req.ShippingAddress, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping rates retrieved successfully",
		"data":    options,
	})
}
