// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/tireshop-backend/internal/config"
	"github.com/your-org/tireshop-backend/internal/interfaces/http/handlers"
	"github.com/your-org/tireshop-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes onto the v1 group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	SetupOrderRoutes(rg, db, redisClient, cfg)
	SetupCheckoutRoutes(rg, db, redisClient, cfg)
	SetupAdminRoutes(rg, db, redisClient, cfg)
}

// SetupOrderRoutes sets up customer-facing order routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.ListOrders)
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/cancel", orderHandler.CancelOrder)
	}
}

// SetupCheckoutRoutes sets up checkout helper routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	shippingHandler := handlers.NewShippingHandler(db, redisClient, cfg)

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		checkout.POST("/shipping-rates", shippingHandler.GetRates)
	}
}

// SetupAdminRoutes sets up privileged inventory and order management
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	inventoryHandler := handlers.NewInventoryHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		// Location management
		locations := admin.Group("/locations")
		{
			locations.GET("", inventoryHandler.GetLocations)
			locations.POST("", inventoryHandler.CreateLocation)
			locations.PUT("/:id", inventoryHandler.UpdateLocation)
			locations.DELETE("/:id", inventoryHandler.DeleteLocation)
		}

		// Inventory ledger
		inventory := admin.Group("/inventory")
		{
			inventory.POST("", inventoryHandler.AddProduct)
			inventory.GET("/low-stock", inventoryHandler.GetLowStock)
			inventory.GET("/:id", inventoryHandler.GetRecord)
			inventory.POST("/:id/adjust", inventoryHandler.Adjust)
			inventory.DELETE("/:id", inventoryHandler.RemoveRecord)
			inventory.GET("/:id/movements", inventoryHandler.GetMovements)
		}

		// Order management
		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.AdminListOrders)
			orders.PUT("/:id/status", orderHandler.AdminUpdateStatus)
		}
	}
}
