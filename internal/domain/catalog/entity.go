// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Product carries the catalog fields this subsystem reads: pricing,
// promotion scope references, and the physical attributes the packager
// needs. Catalog CRUD lives elsewhere; nothing here mutates products.
type Product struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	SKU             string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name            string         `gorm:"not null;size:255" json:"name"`
	BrandID         *uint          `gorm:"index" json:"brand_id,omitempty"`
	CategoryID      *uint          `gorm:"index" json:"category_id,omitempty"`
	ModelID         *uint          `gorm:"index" json:"model_id,omitempty"`
	Price           int64          `gorm:"not null" json:"price"` // Retail price in cents
	ComparePrice    int64          `json:"compare_price"`         // Original/list price for discounts
	DiscountPercent float64        `gorm:"default:0" json:"discount_percent"`
	WeightKg        float64        `json:"weight_kg"` // 0 = undeclared
	LengthCm        float64        `json:"length_cm"` // 0 = undeclared
	WidthCm         float64        `json:"width_cm"`
	HeightCm        float64        `json:"height_cm"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Product) TableName() string { return "products" }

// SalePrice is the unit price after the catalog-level discount, in cents.
// This is the value snapshotted onto order items.
func (p *Product) SalePrice() int64 {
	if p.DiscountPercent <= 0 {
		return p.Price
	}
	return int64(float64(p.Price) * (1 - p.DiscountPercent/100))
}

// ListPrice is the strike-through price a cart line is compared against:
// the compare price when one is set above retail, otherwise retail.
func (p *Product) ListPrice() int64 {
	if p.ComparePrice > p.Price {
		return p.ComparePrice
	}
	return p.Price
}
