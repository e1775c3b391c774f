// internal/domain/pricing/repository.go
package pricing

import (
	"time"

	"github.com/your-org/tireshop-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Repository loads promotions for the engine. Promotion lifecycle is
// owned by the promotions admin feature; this subsystem only reads.
type Repository interface {
	GetActivePromotions(ids []uint) ([]Promotion, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed promotion repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetActivePromotions(ids []uint) ([]Promotion, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var promotions []Promotion
	err := r.db.Where("id IN ? AND is_active = ?", ids, true).Find(&promotions).Error
	if err != nil {
		return nil, apperrors.Internalf(err, "failed to load promotions")
	}

	now := time.Now().UTC()
	current := promotions[:0]
	for _, promo := range promotions {
		if promo.IsCurrent(now) {
			current = append(current, promo)
		}
	}
	return current, nil
}
