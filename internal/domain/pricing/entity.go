// internal/domain/pricing/entity.go
package pricing

import (
	"strconv"
	"strings"
	"time"
)

// PromotionType represents how a promotion reduces the cart total
type PromotionType string

const (
	PromotionTypePercentage   PromotionType = "PERCENTAGE"
	PromotionTypeFixed        PromotionType = "FIXED"
	PromotionTypeFreeShipping PromotionType = "FREE_SHIPPING"
)

// Promotion is a read-only pricing rule. Value is a percentage for
// PERCENTAGE promotions and a cent amount for FIXED ones; scope columns
// hold comma-separated ids, empty meaning unscoped.
type Promotion struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	Code              string        `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Name              string        `gorm:"not null;size:255" json:"name"`
	Type              PromotionType `gorm:"not null;size:20" json:"type"`
	Value             float64       `gorm:"not null;default:0" json:"value"`
	MinPurchaseAmount int64         `gorm:"default:0" json:"min_purchase_amount"` // Cents, 0 = no minimum
	ProductIDs        string        `gorm:"type:text" json:"product_ids,omitempty"`
	BrandIDs          string        `gorm:"type:text" json:"brand_ids,omitempty"`
	CategoryIDs       string        `gorm:"type:text" json:"category_ids,omitempty"`
	ModelIDs          string        `gorm:"type:text" json:"model_ids,omitempty"`
	IsActive          bool          `gorm:"default:true" json:"is_active"`
	StartsAt          *time.Time    `json:"starts_at,omitempty"`
	EndsAt            *time.Time    `json:"ends_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// TableName overrides
func (Promotion) TableName() string { return "promotions" }

// IsCurrent reports whether the promotion is active at t
func (p *Promotion) IsCurrent(t time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartsAt != nil && t.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && t.After(*p.EndsAt) {
		return false
	}
	return true
}

// Scope is the eligibility rule of one promotion: either unscoped
// (applies to every line) or scoped to explicit id sets.
type Scope struct {
	ProductIDs  []uint
	BrandIDs    []uint
	CategoryIDs []uint
	ModelIDs    []uint
}

// Scope parses the promotion's comma-separated scope columns
func (p *Promotion) Scope() Scope {
	return Scope{
		ProductIDs:  parseIDList(p.ProductIDs),
		BrandIDs:    parseIDList(p.BrandIDs),
		CategoryIDs: parseIDList(p.CategoryIDs),
		ModelIDs:    parseIDList(p.ModelIDs),
	}
}

// IsUnscoped reports whether the promotion applies to every line
func (s Scope) IsUnscoped() bool {
	return len(s.ProductIDs) == 0 && len(s.BrandIDs) == 0 &&
		len(s.CategoryIDs) == 0 && len(s.ModelIDs) == 0
}

// MatchesLine reports whether a cart line is eligible: unscoped scopes
// match everything, scoped ones need at least one id hit.
func (s Scope) MatchesLine(line Line) bool {
	if s.IsUnscoped() {
		return true
	}
	if containsID(s.ProductIDs, line.ProductID) {
		return true
	}
	if line.BrandID != nil && containsID(s.BrandIDs, *line.BrandID) {
		return true
	}
	if line.CategoryID != nil && containsID(s.CategoryIDs, *line.CategoryID) {
		return true
	}
	if line.ModelID != nil && containsID(s.ModelIDs, *line.ModelID) {
		return true
	}
	return false
}

func parseIDList(raw string) []uint {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
