// internal/domain/catalog/repository.go
package catalog

import (
	"errors"

	"github.com/your-org/tireshop-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Repository is the read-only catalog access this subsystem needs
type Repository interface {
	GetProduct(id uint) (*Product, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed catalog repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetProduct(id uint) (*Product, error) {
	var product Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("product %d not found", id)
		}
		return nil, apperrors.Internalf(err, "failed to load product %d", id)
	}
	return &product, nil
}
