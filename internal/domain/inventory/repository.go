// internal/domain/inventory/repository.go
package inventory

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrGuardFailed is returned by ApplyDelta when the conditional update
// matched no row: the record is missing or the delta would drive the
// quantity negative. Callers disambiguate with a follow-up read.
var ErrGuardFailed = errors.New("inventory: conditional update matched no row")

// Repository is the storage contract for the ledger. The gorm
// implementation below is the production one; tests substitute fakes.
type Repository interface {
	CreateLocation(loc *Location) error
	GetLocation(id uint) (*Location, error)
	ListLocations() ([]Location, error)
	SaveLocation(loc *Location) error
	DeleteLocation(id uint) error
	DefaultLocation() (*Location, error)
	CountRecordsForLocation(locationID uint) (int64, error)

	CreateRecord(rec *InventoryRecord) error
	GetRecord(id uint) (*InventoryRecord, error)
	GetRecordByProductAndLocation(productID, locationID uint) (*InventoryRecord, error)
	DeleteRecord(id uint) error

	// ApplyDelta performs the single conditional update
	// UPDATE ... SET quantity = quantity + delta WHERE id = ? AND quantity + delta >= 0
	// and returns ErrGuardFailed when no row matched.
	ApplyDelta(recordID uint, delta int) error

	CreateMovement(mv *InventoryMovement) error
	ListMovements(recordID uint) ([]InventoryMovement, error)
	SumMovementDeltas(recordID uint) (int, error)

	LowStock(locationID *uint) ([]InventoryRecord, error)

	// Transaction runs fn against a repository bound to one database
	// transaction; any error rolls the whole unit back.
	Transaction(fn func(Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed ledger repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateLocation(loc *Location) error {
	return r.db.Create(loc).Error
}

func (r *gormRepository) GetLocation(id uint) (*Location, error) {
	var loc Location
	if err := r.db.First(&loc, id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *gormRepository) ListLocations() ([]Location, error) {
	var locations []Location
	err := r.db.Where("is_active = ?", true).Order("name").Find(&locations).Error
	return locations, err
}

func (r *gormRepository) SaveLocation(loc *Location) error {
	return r.db.Save(loc).Error
}

func (r *gormRepository) DeleteLocation(id uint) error {
	return r.db.Delete(&Location{}, id).Error
}

func (r *gormRepository) DefaultLocation() (*Location, error) {
	var loc Location
	err := r.db.Where("is_default = ? AND is_active = ?", true, true).First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *gormRepository) CountRecordsForLocation(locationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&InventoryRecord{}).Where("location_id = ?", locationID).Count(&count).Error
	return count, err
}

func (r *gormRepository) CreateRecord(rec *InventoryRecord) error {
	rec.LastUpdated = time.Now().UTC()
	return r.db.Create(rec).Error
}

func (r *gormRepository) GetRecord(id uint) (*InventoryRecord, error) {
	var rec InventoryRecord
	if err := r.db.Preload("Location").Preload("Product").First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *gormRepository) GetRecordByProductAndLocation(productID, locationID uint) (*InventoryRecord, error) {
	var rec InventoryRecord
	err := r.db.Where("product_id = ? AND location_id = ?", productID, locationID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *gormRepository) DeleteRecord(id uint) error {
	return r.db.Delete(&InventoryRecord{}, id).Error
}

func (r *gormRepository) ApplyDelta(recordID uint, delta int) error {
	result := r.db.Model(&InventoryRecord{}).
		Where("id = ? AND quantity + ? >= 0", recordID, delta).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr("quantity + ?", delta),
			"last_updated": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGuardFailed
	}
	return nil
}

func (r *gormRepository) CreateMovement(mv *InventoryMovement) error {
	return r.db.Create(mv).Error
}

func (r *gormRepository) ListMovements(recordID uint) ([]InventoryMovement, error) {
	var movements []InventoryMovement
	err := r.db.Where("inventory_id = ?", recordID).Order("created_at").Find(&movements).Error
	return movements, err
}

func (r *gormRepository) SumMovementDeltas(recordID uint) (int, error) {
	var total int64
	err := r.db.Model(&InventoryMovement{}).
		Where("inventory_id = ?", recordID).
		Select("COALESCE(SUM(quantity_delta), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *gormRepository) LowStock(locationID *uint) ([]InventoryRecord, error) {
	query := r.db.Model(&InventoryRecord{}).
		Preload("Location").
		Preload("Product").
		Joins("JOIN products ON products.id = inventory_records.product_id").
		Where("inventory_records.quantity <= inventory_records.minimum_level").
		Order("inventory_records.location_id, products.name")

	if locationID != nil {
		query = query.Where("inventory_records.location_id = ?", *locationID)
	}

	var records []InventoryRecord
	err := query.Find(&records).Error
	return records, err
}

func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}
