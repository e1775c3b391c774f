// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/tireshop-backend/internal/domain/catalog"
	"github.com/your-org/tireshop-backend/internal/domain/inventory"
	"github.com/your-org/tireshop-backend/internal/domain/order"
	"github.com/your-org/tireshop-backend/internal/domain/pricing"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: catalog and locations before records, orders last
	models := []interface{}{
		&catalog.Product{},

		&inventory.Location{},
		&inventory.InventoryRecord{},
		&inventory.InventoryMovement{},

		&pricing.Promotion{},

		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku)",
		"CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active)",

		// Inventory indexes
		"CREATE INDEX IF NOT EXISTS idx_inventory_records_location ON inventory_records(location_id)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_records_low_stock ON inventory_records(location_id, quantity)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_movements_inventory ON inventory_movements(inventory_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_movements_type ON inventory_movements(movement_type)",
		"CREATE INDEX IF NOT EXISTS idx_locations_default ON locations(is_default, is_active)",

		// Promotion indexes
		"CREATE INDEX IF NOT EXISTS idx_promotions_active ON promotions(is_active)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_orders_email ON orders(email)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts the data a fresh environment needs
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	if err := m.seedDefaultLocation(); err != nil {
		return fmt.Errorf("failed to seed default location: %w", err)
	}
	if err := m.seedTestProducts(); err != nil {
		return fmt.Errorf("failed to seed test products: %w", err)
	}
	if err := m.seedTestPromotions(); err != nil {
		return fmt.Errorf("failed to seed test promotions: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedDefaultLocation creates the warehouse orders ship from
func (m *Migration) seedDefaultLocation() error {
	var count int64
	if err := m.db.Model(&inventory.Location{}).Where("is_default = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	location := inventory.Location{
		Name:      "Main Warehouse",
		Type:      inventory.LocationTypeWarehouse,
		City:      "Columbus",
		State:     "OH",
		Country:   "US",
		IsActive:  true,
		IsDefault: true,
	}
	if err := m.db.Create(&location).Error; err != nil {
		return err
	}

	log.Println("Created default location: Main Warehouse")
	return nil
}

// seedTestProducts creates a few tires for development environments
func (m *Migration) seedTestProducts() error {
	var count int64
	if err := m.db.Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []catalog.Product{
		{
			SKU:      "TIRE-AS-20555R16",
			Name:     "All-Season Touring 205/55R16",
			Price:    12999,
			WeightKg: 9.5,
			IsActive: true,
		},
		{
			SKU:      "TIRE-WN-22545R17",
			Name:     "Winter Grip 225/45R17",
			Price:    15999,
			WeightKg: 10.2,
			IsActive: true,
		},
		{
			SKU:             "TIRE-PF-24540R18",
			Name:            "Performance 245/40R18",
			Price:           21999,
			ComparePrice:    24999,
			DiscountPercent: 10,
			WeightKg:        11.8,
			IsActive:        true,
		},
	}

	for _, product := range products {
		if err := m.db.Create(&product).Error; err != nil {
			return err
		}
	}

	log.Printf("Created %d test products", len(products))
	return nil
}

// seedTestPromotions creates sample promotions for development
func (m *Migration) seedTestPromotions() error {
	var count int64
	if err := m.db.Model(&pricing.Promotion{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	promotions := []pricing.Promotion{
		{
			Code:     "TIRE10",
			Name:     "10% off all tires",
			Type:     pricing.PromotionTypePercentage,
			Value:    10,
			IsActive: true,
		},
		{
			Code:              "FREESHIP",
			Name:              "Free shipping",
			Type:              pricing.PromotionTypeFreeShipping,
			MinPurchaseAmount: 10000,
			IsActive:          true,
		},
	}

	for _, promotion := range promotions {
		if err := m.db.Create(&promotion).Error; err != nil {
			return err
		}
	}

	log.Printf("Created %d test promotions", len(promotions))
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ Dropping all database tables...")

	tables := []string{
		"order_status_history",
		"order_items",
		"orders",
		"inventory_movements",
		"inventory_records",
		"locations",
		"promotions",
		"products",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	log.Println("✅ All tables dropped")
	return nil
}
