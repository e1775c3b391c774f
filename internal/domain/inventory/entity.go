// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/your-org/tireshop-backend/internal/domain/catalog"
)

// LocationType represents the kind of node that can hold stock
type LocationType string

const (
	LocationTypeWarehouse LocationType = "WAREHOUSE"
	LocationTypeStore     LocationType = "STORE"
	LocationTypeSupplier  LocationType = "SUPPLIER"
	LocationTypeCustomer  LocationType = "CUSTOMER"
	LocationTypeOther     LocationType = "OTHER"
)

// MovementType represents the reason class of a stock movement
type MovementType string

const (
	MovementTypePurchase   MovementType = "PURCHASE"
	MovementTypeSale       MovementType = "SALE"
	MovementTypeReturn     MovementType = "RETURN"
	MovementTypeTransfer   MovementType = "TRANSFER"
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	MovementTypeDamaged    MovementType = "DAMAGED"
	MovementTypeOther      MovementType = "OTHER"
)

// IsValid reports whether t is a known movement type
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypePurchase, MovementTypeSale, MovementTypeReturn,
		MovementTypeTransfer, MovementTypeAdjustment, MovementTypeDamaged, MovementTypeOther:
		return true
	}
	return false
}

// Location represents a physical node that can hold stock
type Location struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"not null;size:100" json:"name"`
	Type       LocationType `gorm:"not null;size:20;default:'WAREHOUSE'" json:"type"`
	Address    string       `gorm:"type:text" json:"address"`
	City       string       `gorm:"size:50" json:"city"`
	State      string       `gorm:"size:50" json:"state"`
	Country    string       `gorm:"size:50" json:"country"`
	PostalCode string       `gorm:"size:20" json:"postal_code"`
	IsActive   bool         `gorm:"default:true" json:"is_active"`
	IsDefault  bool         `gorm:"default:false" json:"is_default"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	// Relationships
	Records []InventoryRecord `gorm:"foreignKey:LocationID" json:"records,omitempty"`
}

// InventoryRecord is the stock counter for one product at one location.
// Exactly one record exists per (product, location) pair; the quantity
// is mutated only through paired movements and must never go negative.
type InventoryRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;uniqueIndex:idx_inventory_product_location" json:"product_id"`
	LocationID   uint      `gorm:"not null;uniqueIndex:idx_inventory_product_location" json:"location_id"`
	Quantity     int       `gorm:"not null;default:0" json:"quantity"`
	MinimumLevel int       `gorm:"default:0" json:"minimum_level"`
	ReorderLevel int       `gorm:"default:0" json:"reorder_level"`
	ReorderQty   int       `gorm:"default:0" json:"reorder_qty"`
	LastUpdated  time.Time `json:"last_updated"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	Location  Location            `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Product   catalog.Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Movements []InventoryMovement `gorm:"foreignKey:InventoryID" json:"movements,omitempty"`
}

// InventoryMovement is an immutable ledger entry. For any record the sum
// of its movements' deltas equals the current quantity; movements are
// never updated or deleted.
type InventoryMovement struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	InventoryID   uint         `gorm:"not null;index" json:"inventory_id"`
	LocationID    uint         `gorm:"not null;index" json:"location_id"`
	QuantityDelta int          `gorm:"not null" json:"quantity_delta"`
	MovementType  MovementType `gorm:"not null;size:20" json:"movement_type"`
	Reason        string       `gorm:"type:text" json:"reason"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TableName overrides
func (Location) TableName() string          { return "locations" }
func (InventoryRecord) TableName() string   { return "inventory_records" }
func (InventoryMovement) TableName() string { return "inventory_movements" }

// IsLowStock checks if the record is at or below its minimum level
func (r *InventoryRecord) IsLowStock() bool {
	return r.Quantity <= r.MinimumLevel
}

// NeedsReorder checks if the record is at or below its reorder level
func (r *InventoryRecord) NeedsReorder() bool {
	return r.Quantity <= r.ReorderLevel
}

// CanFulfill checks if there is enough stock for the requested quantity
func (r *InventoryRecord) CanFulfill(quantity int) bool {
	return r.Quantity >= quantity
}
