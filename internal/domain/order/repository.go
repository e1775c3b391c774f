// internal/domain/order/repository.go
package order

import (
	"github.com/your-org/tireshop-backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// Repository is the storage contract for orders. Transaction hands the
// callback an order repository and a ledger repository bound to the
// same database transaction, so order rows and stock decrements commit
// or roll back together.
type Repository interface {
	Create(o *Order) error
	GetByID(id uint) (*Order, error)
	GetByOrderNumber(orderNumber string) (*Order, error)
	List(status *OrderStatus, limit, offset int) ([]Order, int64, error)
	ListByUser(userID uint, limit, offset int) ([]Order, int64, error)
	Save(o *Order) error
	CreateStatusHistory(h *OrderStatusHistory) error

	Transaction(fn func(orders Repository, ledger inventory.Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed order repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(o *Order) error {
	return r.db.Create(o).Error
}

func (r *gormRepository) GetByID(id uint) (*Order, error) {
	var o Order
	err := r.db.Preload("Items").Preload("StatusHistory").First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *gormRepository) GetByOrderNumber(orderNumber string) (*Order, error) {
	var o Order
	err := r.db.Preload("Items").Preload("StatusHistory").
		Where("order_number = ?", orderNumber).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *gormRepository) List(status *OrderStatus, limit, offset int) ([]Order, int64, error) {
	query := r.db.Model(&Order{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []Order
	err := query.Preload("Items").Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *gormRepository) ListByUser(userID uint, limit, offset int) ([]Order, int64, error) {
	query := r.db.Model(&Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []Order
	err := query.Preload("Items").Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *gormRepository) Save(o *Order) error {
	return r.db.Save(o).Error
}

func (r *gormRepository) CreateStatusHistory(h *OrderStatusHistory) error {
	return r.db.Create(h).Error
}

func (r *gormRepository) Transaction(fn func(Repository, inventory.Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx}, inventory.NewRepository(tx))
	})
}
