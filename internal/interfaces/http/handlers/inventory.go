// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/tireshop-backend/internal/config"
	"github.com/your-org/tireshop-backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// InventoryHandler handles ledger and location endpoints
type InventoryHandler struct {
	inventoryService *inventory.Service
	config           *config.Config
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(db *gorm.DB, cfg *config.Config) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventory.NewService(inventory.NewRepository(db), cfg),
		config:           cfg,
	}
}

// LOCATION ENDPOINTS

// CreateLocation handles POST /admin/locations
func (h *InventoryHandler) CreateLocation(c *gin.Context) {
	var req inventory.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	location, err := h.inventoryService.CreateLocation(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Location created successfully",
		"data":    location,
	})
}

// GetLocations handles GET /admin/locations
func (h *InventoryHandler) GetLocations(c *gin.Context) {
	locations, err := h.inventoryService.ListLocations()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Locations retrieved successfully",
		"data":    locations,
	})
}

// UpdateLocation handles PUT /admin/locations/:id
func (h *InventoryHandler) UpdateLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	location, err := h.inventoryService.UpdateLocation(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Location updated successfully",
		"data":    location,
	})
}

// DeleteLocation handles DELETE /admin/locations/:id
func (h *InventoryHandler) DeleteLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteLocation(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Location deleted successfully",
	})
}

// LEDGER ENDPOINTS

// AddProduct handles POST /admin/inventory
func (h *InventoryHandler) AddProduct(c *gin.Context) {
	var req inventory.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.inventoryService.AddProduct(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Inventory record created successfully",
		"data":    record,
	})
}

// GetRecord handles GET /admin/inventory/:id
func (h *InventoryHandler) GetRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.inventoryService.GetRecord(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory record retrieved successfully",
		"data":    record,
	})
}

// Adjust handles POST /admin/inventory/:id/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.inventoryService.Adjust(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory adjusted successfully",
		"data":    record,
	})
}

// RemoveRecord handles DELETE /admin/inventory/:id
func (h *InventoryHandler) RemoveRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.Remove(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory record removed successfully",
	})
}

// GetMovements handles GET /admin/inventory/:id/movements
func (h *InventoryHandler) GetMovements(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	movements, err := h.inventoryService.Movements(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Movements retrieved successfully",
		"data":    movements,
	})
}

// GetLowStock handles GET /admin/inventory/low-stock
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	var locationID *uint
	if param := c.Query("location_id"); param != "" {
		parsed, err := strconv.ParseUint(param, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid location ID",
			})
			return
		}
		id := uint(parsed)
		locationID = &id
	}

	suggestions, err := h.inventoryService.LowStock(locationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Low stock records retrieved successfully",
		"data":    suggestions,
	})
}

// parseIDParam parses a numeric path parameter, writing the 400 itself
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	param := c.Param(name)
	id, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(id), true
}
