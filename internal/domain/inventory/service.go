// internal/domain/inventory/service.go
package inventory

import (
	"errors"

	"github.com/your-org/tireshop-backend/internal/config"
	"github.com/your-org/tireshop-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles ledger business logic
type Service struct {
	repo   Repository
	config *config.Config
}

// NewService creates a new ledger service
func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
	}
}

// CreateLocationRequest represents location creation data
type CreateLocationRequest struct {
	Name       string       `json:"name" binding:"required"`
	Type       LocationType `json:"type"`
	Address    string       `json:"address"`
	City       string       `json:"city"`
	State      string       `json:"state"`
	Country    string       `json:"country"`
	PostalCode string       `json:"postal_code"`
	IsDefault  bool         `json:"is_default"`
}

// AddProductRequest represents initial stocking of a product at a location
type AddProductRequest struct {
	LocationID   uint `json:"location_id" binding:"required"`
	ProductID    uint `json:"product_id" binding:"required"`
	Quantity     int  `json:"quantity"`
	MinimumLevel int  `json:"minimum_level"`
	ReorderLevel int  `json:"reorder_level"`
	ReorderQty   int  `json:"reorder_qty"`
}

// AdjustRequest represents a quantity adjustment with its movement
type AdjustRequest struct {
	Delta        int          `json:"delta" binding:"required"`
	MovementType MovementType `json:"movement_type" binding:"required"`
	Reason       string       `json:"reason"`
}

// ReorderSuggestion pairs a low record with the suggested order size
type ReorderSuggestion struct {
	Record       InventoryRecord `json:"record"`
	SuggestedQty int             `json:"suggested_qty"`
}

// LOCATION MANAGEMENT

// CreateLocation creates a new stock location
func (s *Service) CreateLocation(req *CreateLocationRequest) (*Location, error) {
	locType := req.Type
	if locType == "" {
		locType = LocationTypeWarehouse
	}
	switch locType {
	case LocationTypeWarehouse, LocationTypeStore, LocationTypeSupplier, LocationTypeCustomer, LocationTypeOther:
	default:
		return nil, apperrors.Validationf("invalid location type: %s", locType)
	}

	loc := &Location{
		Name:       req.Name,
		Type:       locType,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
		IsActive:   true,
	}

	if err := s.repo.CreateLocation(loc); err != nil {
		return nil, apperrors.Internalf(err, "failed to create location")
	}
	return loc, nil
}

// UpdateLocation updates an existing location
func (s *Service) UpdateLocation(id uint, req *CreateLocationRequest) (*Location, error) {
	loc, err := s.repo.GetLocation(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("location %d not found", id)
		}
		return nil, apperrors.Internalf(err, "failed to load location %d", id)
	}

	loc.Name = req.Name
	if req.Type != "" {
		loc.Type = req.Type
	}
	loc.Address = req.Address
	loc.City = req.City
	loc.State = req.State
	loc.Country = req.Country
	loc.PostalCode = req.PostalCode
	loc.IsDefault = req.IsDefault

	if err := s.repo.SaveLocation(loc); err != nil {
		return nil, apperrors.Internalf(err, "failed to update location %d", id)
	}
	return loc, nil
}

// DeleteLocation deletes a location; blocked while it owns inventory records
func (s *Service) DeleteLocation(id uint) error {
	if _, err := s.repo.GetLocation(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("location %d not found", id)
		}
		return apperrors.Internalf(err, "failed to load location %d", id)
	}

	count, err := s.repo.CountRecordsForLocation(id)
	if err != nil {
		return apperrors.Internalf(err, "failed to count inventory records for location %d", id)
	}
	if count > 0 {
		return apperrors.Conflictf("location %d still holds %d inventory records", id, count)
	}

	if err := s.repo.DeleteLocation(id); err != nil {
		return apperrors.Internalf(err, "failed to delete location %d", id)
	}
	return nil
}

// ListLocations returns all active locations
func (s *Service) ListLocations() ([]Location, error) {
	locations, err := s.repo.ListLocations()
	if err != nil {
		return nil, apperrors.Internalf(err, "failed to list locations")
	}
	return locations, nil
}

// DefaultLocation returns the location orders ship from
func (s *Service) DefaultLocation() (*Location, error) {
	loc, err := s.repo.DefaultLocation()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("no default location configured")
		}
		return nil, apperrors.Internalf(err, "failed to load default location")
	}
	return loc, nil
}

// LEDGER OPERATIONS

// AddProduct creates the inventory record for a (product, location) pair.
// Initial stock is written as a PURCHASE movement in the same transaction.
func (s *Service) AddProduct(req *AddProductRequest) (*InventoryRecord, error) {
	if req.Quantity < 0 {
		return nil, apperrors.Validationf("quantity must not be negative")
	}

	var created *InventoryRecord
	err := s.repo.Transaction(func(tx Repository) error {
		if _, err := tx.GetRecordByProductAndLocation(req.ProductID, req.LocationID); err == nil {
			return apperrors.Conflictf("product %d already has inventory at location %d", req.ProductID, req.LocationID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Internalf(err, "failed to check existing inventory")
		}

		if _, err := tx.GetLocation(req.LocationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("location %d not found", req.LocationID)
			}
			return apperrors.Internalf(err, "failed to load location %d", req.LocationID)
		}

		rec := &InventoryRecord{
			ProductID:    req.ProductID,
			LocationID:   req.LocationID,
			Quantity:     req.Quantity,
			MinimumLevel: req.MinimumLevel,
			ReorderLevel: req.ReorderLevel,
			ReorderQty:   req.ReorderQty,
		}
		if err := tx.CreateRecord(rec); err != nil {
			return apperrors.Internalf(err, "failed to create inventory record")
		}

		if req.Quantity > 0 {
			mv := &InventoryMovement{
				InventoryID:   rec.ID,
				LocationID:    rec.LocationID,
				QuantityDelta: req.Quantity,
				MovementType:  MovementTypePurchase,
				Reason:        "initial stock",
			}
			if err := tx.CreateMovement(mv); err != nil {
				return apperrors.Internalf(err, "failed to record initial stock movement")
			}
		}

		created = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Adjust applies a signed delta to a record and appends exactly one
// movement, as one transaction. The counter change is a single
// conditional update so concurrent adjustments cannot oversell.
func (s *Service) Adjust(inventoryID uint, req *AdjustRequest) (*InventoryRecord, error) {
	if req.Delta == 0 {
		return nil, apperrors.Validationf("delta must not be zero")
	}
	if !req.MovementType.IsValid() {
		return nil, apperrors.Validationf("invalid movement type: %s", req.MovementType)
	}

	err := s.repo.Transaction(func(tx Repository) error {
		return adjustInTx(tx, inventoryID, req.Delta, req.MovementType, req.Reason)
	})
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.GetRecord(inventoryID)
	if err != nil {
		return nil, apperrors.Internalf(err, "failed to reload inventory record %d", inventoryID)
	}
	return rec, nil
}

// adjustInTx is the shared ledger write used by Adjust and by order
// fulfillment inside its own transaction. The record is loaded once up
// front: it supplies the movement's location and, since the record
// exists, lets a guard failure be reported as a shortfall.
func adjustInTx(tx Repository, inventoryID uint, delta int, movementType MovementType, reason string) error {
	rec, err := tx.GetRecord(inventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("inventory record %d not found", inventoryID)
		}
		return apperrors.Internalf(err, "failed to load inventory record %d", inventoryID)
	}

	if err := tx.ApplyDelta(inventoryID, delta); err != nil {
		if !errors.Is(err, ErrGuardFailed) {
			return apperrors.Internalf(err, "failed to adjust inventory record %d", inventoryID)
		}
		return apperrors.InsufficientStock(rec.ProductID, rec.Product.Name, -delta, rec.Quantity)
	}

	mv := &InventoryMovement{
		InventoryID:   inventoryID,
		LocationID:    rec.LocationID,
		QuantityDelta: delta,
		MovementType:  movementType,
		Reason:        reason,
	}
	if err := tx.CreateMovement(mv); err != nil {
		return apperrors.Internalf(err, "failed to record movement for inventory %d", inventoryID)
	}
	return nil
}

// AdjustForOrder applies an order's stock change inside an existing
// ledger transaction (tx must come from the same database transaction
// as the order writes).
func (s *Service) AdjustForOrder(tx Repository, inventoryID uint, delta int, movementType MovementType, reason string) error {
	return adjustInTx(tx, inventoryID, delta, movementType, reason)
}

// Remove deletes an inventory record. Remaining stock is zeroed first
// with a closing movement so the ledger stays complete.
func (s *Service) Remove(inventoryID uint) error {
	return s.repo.Transaction(func(tx Repository) error {
		rec, err := tx.GetRecord(inventoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("inventory record %d not found", inventoryID)
			}
			return apperrors.Internalf(err, "failed to load inventory record %d", inventoryID)
		}

		if rec.Quantity > 0 {
			if err := adjustInTx(tx, inventoryID, -rec.Quantity, MovementTypeOther, "record closed"); err != nil {
				return err
			}
		}

		if err := tx.DeleteRecord(inventoryID); err != nil {
			return apperrors.Internalf(err, "failed to delete inventory record %d", inventoryID)
		}
		return nil
	})
}

// GetRecord loads one inventory record with its product and location
func (s *Service) GetRecord(inventoryID uint) (*InventoryRecord, error) {
	rec, err := s.repo.GetRecord(inventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("inventory record %d not found", inventoryID)
		}
		return nil, apperrors.Internalf(err, "failed to load inventory record %d", inventoryID)
	}
	return rec, nil
}

// RecordForProduct finds the record for a product at a location
func (s *Service) RecordForProduct(productID, locationID uint) (*InventoryRecord, error) {
	rec, err := s.repo.GetRecordByProductAndLocation(productID, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("product %d has no inventory at location %d", productID, locationID)
		}
		return nil, apperrors.Internalf(err, "failed to load inventory for product %d", productID)
	}
	return rec, nil
}

// Movements returns the audit trail for a record, oldest first
func (s *Service) Movements(inventoryID uint) ([]InventoryMovement, error) {
	if _, err := s.GetRecord(inventoryID); err != nil {
		return nil, err
	}
	movements, err := s.repo.ListMovements(inventoryID)
	if err != nil {
		return nil, apperrors.Internalf(err, "failed to list movements for inventory %d", inventoryID)
	}
	return movements, nil
}

// LowStock returns records at or below their minimum level, ordered by
// location then product name, with reorder suggestions where the
// reorder level is also breached.
func (s *Service) LowStock(locationID *uint) ([]ReorderSuggestion, error) {
	records, err := s.repo.LowStock(locationID)
	if err != nil {
		return nil, apperrors.Internalf(err, "failed to query low stock")
	}

	suggestions := make([]ReorderSuggestion, 0, len(records))
	for _, rec := range records {
		suggestion := ReorderSuggestion{Record: rec}
		if rec.NeedsReorder() {
			suggestion.SuggestedQty = rec.ReorderQty
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions, nil
}

// Repo exposes the underlying repository so order fulfillment can join
// ledger writes into its own transaction.
func (s *Service) Repo() Repository {
	return s.repo
}
