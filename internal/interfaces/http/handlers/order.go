// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/tireshop-backend/internal/config"
	"github.com/your-org/tireshop-backend/internal/domain/catalog"
	"github.com/your-org/tireshop-backend/internal/domain/inventory"
	"github.com/your-org/tireshop-backend/internal/domain/order"
	"github.com/your-org/tireshop-backend/internal/domain/pricing"
	"github.com/your-org/tireshop-backend/internal/domain/shipping"
	"github.com/your-org/tireshop-backend/internal/interfaces/http/middleware"
	"github.com/your-org/tireshop-backend/internal/pkg/carrier"
	"github.com/your-org/tireshop-backend/internal/pkg/email"
	"github.com/your-org/tireshop-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
	config       *config.Config
}

// NewOrderHandler creates a new order handler with the full
// fulfillment pipeline wired up.
func NewOrderHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *OrderHandler {
	log := logger.New(&cfg.Logging)

	inventoryService := inventory.NewService(inventory.NewRepository(db), cfg)
	packager := shipping.NewPackager(
		cfg.Shipping.DefaultItemWeightKg,
		cfg.Shipping.DefaultItemDiameterCm,
		cfg.Shipping.MaxPackageWeightKg,
	)
	rateClient := carrier.NewClient(&cfg.External.Carrier, redisClient, log)
	notifier := email.NewEmailService(cfg, log)

	orderService := order.NewService(
		order.NewRepository(db),
		inventoryService,
		catalog.NewRepository(db),
		pricing.NewRepository(db),
		packager,
		rateClient,
		notifier,
		cfg,
		log,
	)

	return &OrderHandler{
		orderService: orderService,
		config:       cfg,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		req.UserID = &userID
	}

	created, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"data":    created,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.orderService.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Customers may only read their own orders
	if userID, ok := middleware.GetUserIDFromContext(c); ok && !middleware.IsAdminFromContext(c) {
		if found.UserID == nil || *found.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    found,
	})
}

// ListOrders handles GET /orders for the authenticated user
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	page, limit := paginationParams(c)
	orders, total, err := h.orderService.ListUserOrders(userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// CancelOrder handles PUT /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	cancelled, err := h.orderService.Cancel(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    cancelled,
	})
}

// ADMIN ENDPOINTS

// AdminListOrders handles GET /admin/orders
func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	var status *order.OrderStatus
	if param := c.Query("status"); param != "" {
		candidate := order.OrderStatus(param)
		if !candidate.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid order status filter",
			})
			return
		}
		status = &candidate
	}

	page, limit := paginationParams(c)
	orders, total, err := h.orderService.ListOrders(status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status  order.OrderStatus `json:"status" binding:"required"`
	Comment string            `json:"comment"`
}

// AdminUpdateStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) AdminUpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	adminID, _ := middleware.GetUserIDFromContext(c)
	updated, err := h.orderService.UpdateStatus(id, req.Status, req.Comment, adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    updated,
	})
}

// paginationParams reads page/limit query parameters with defaults
func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
