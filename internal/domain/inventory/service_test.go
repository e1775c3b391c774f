// internal/domain/inventory/service_test.go
package inventory

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/tireshop-backend/internal/config"
	"github.com/your-org/tireshop-backend/internal/domain/catalog"
	"github.com/your-org/tireshop-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// fakeRepository is an in-memory Repository with transactional
// rollback, standing in for the gorm implementation.
type fakeRepository struct {
	locations      map[uint]*Location
	records        map[uint]*InventoryRecord
	movements      []InventoryMovement
	nextLocationID uint
	nextRecordID   uint
	nextMovementID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		locations: make(map[uint]*Location),
		records:   make(map[uint]*InventoryRecord),
	}
}

func (f *fakeRepository) CreateLocation(loc *Location) error {
	f.nextLocationID++
	loc.ID = f.nextLocationID
	copied := *loc
	f.locations[loc.ID] = &copied
	return nil
}

func (f *fakeRepository) GetLocation(id uint) (*Location, error) {
	loc, ok := f.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *loc
	return &copied, nil
}

func (f *fakeRepository) ListLocations() ([]Location, error) {
	var locations []Location
	for _, loc := range f.locations {
		if loc.IsActive {
			locations = append(locations, *loc)
		}
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].Name < locations[j].Name })
	return locations, nil
}

func (f *fakeRepository) SaveLocation(loc *Location) error {
	copied := *loc
	f.locations[loc.ID] = &copied
	return nil
}

func (f *fakeRepository) DeleteLocation(id uint) error {
	delete(f.locations, id)
	return nil
}

func (f *fakeRepository) DefaultLocation() (*Location, error) {
	for _, loc := range f.locations {
		if loc.IsDefault && loc.IsActive {
			copied := *loc
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) CountRecordsForLocation(locationID uint) (int64, error) {
	var count int64
	for _, rec := range f.records {
		if rec.LocationID == locationID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) CreateRecord(rec *InventoryRecord) error {
	f.nextRecordID++
	rec.ID = f.nextRecordID
	rec.LastUpdated = time.Now().UTC()
	copied := *rec
	f.records[rec.ID] = &copied
	return nil
}

func (f *fakeRepository) GetRecord(id uint) (*InventoryRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeRepository) GetRecordByProductAndLocation(productID, locationID uint) (*InventoryRecord, error) {
	for _, rec := range f.records {
		if rec.ProductID == productID && rec.LocationID == locationID {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) DeleteRecord(id uint) error {
	delete(f.records, id)
	return nil
}

func (f *fakeRepository) ApplyDelta(recordID uint, delta int) error {
	rec, ok := f.records[recordID]
	if !ok || rec.Quantity+delta < 0 {
		return ErrGuardFailed
	}
	rec.Quantity += delta
	rec.LastUpdated = time.Now().UTC()
	return nil
}

func (f *fakeRepository) CreateMovement(mv *InventoryMovement) error {
	f.nextMovementID++
	mv.ID = f.nextMovementID
	mv.CreatedAt = time.Now().UTC()
	f.movements = append(f.movements, *mv)
	return nil
}

func (f *fakeRepository) ListMovements(recordID uint) ([]InventoryMovement, error) {
	var movements []InventoryMovement
	for _, mv := range f.movements {
		if mv.InventoryID == recordID {
			movements = append(movements, mv)
		}
	}
	return movements, nil
}

func (f *fakeRepository) SumMovementDeltas(recordID uint) (int, error) {
	var total int
	for _, mv := range f.movements {
		if mv.InventoryID == recordID {
			total += mv.QuantityDelta
		}
	}
	return total, nil
}

func (f *fakeRepository) LowStock(locationID *uint) ([]InventoryRecord, error) {
	var records []InventoryRecord
	for _, rec := range f.records {
		if locationID != nil && rec.LocationID != *locationID {
			continue
		}
		if rec.Quantity <= rec.MinimumLevel {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].LocationID != records[j].LocationID {
			return records[i].LocationID < records[j].LocationID
		}
		return records[i].Product.Name < records[j].Product.Name
	})
	return records, nil
}

// Transaction snapshots state and restores it when fn fails, matching
// the all-or-nothing behavior of the real database transaction.
func (f *fakeRepository) Transaction(fn func(Repository) error) error {
	snapshot := f.clone()
	if err := fn(f); err != nil {
		f.restore(snapshot)
		return err
	}
	return nil
}

func (f *fakeRepository) clone() *fakeRepository {
	copied := newFakeRepository()
	copied.nextLocationID = f.nextLocationID
	copied.nextRecordID = f.nextRecordID
	copied.nextMovementID = f.nextMovementID
	for id, loc := range f.locations {
		l := *loc
		copied.locations[id] = &l
	}
	for id, rec := range f.records {
		r := *rec
		copied.records[id] = &r
	}
	copied.movements = append([]InventoryMovement(nil), f.movements...)
	return copied
}

func (f *fakeRepository) restore(snapshot *fakeRepository) {
	f.locations = snapshot.locations
	f.records = snapshot.records
	f.movements = snapshot.movements
	f.nextLocationID = snapshot.nextLocationID
	f.nextRecordID = snapshot.nextRecordID
	f.nextMovementID = snapshot.nextMovementID
}

func newTestService(t *testing.T) (*Service, *fakeRepository, *Location) {
	t.Helper()
	repo := newFakeRepository()
	svc := NewService(repo, &config.Config{})

	loc, err := svc.CreateLocation(&CreateLocationRequest{
		Name:      "Main Warehouse",
		IsDefault: true,
	})
	assert.NoError(t, err)
	return svc, repo, loc
}

func TestAddProduct(t *testing.T) {
	svc, repo, loc := newTestService(t)

	rec, err := svc.AddProduct(&AddProductRequest{
		LocationID:   loc.ID,
		ProductID:    1,
		Quantity:     10,
		MinimumLevel: 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, 10, rec.Quantity)

	// Initial stock is a PURCHASE movement in the same transaction
	movements, err := repo.ListMovements(rec.ID)
	assert.NoError(t, err)
	assert.Len(t, movements, 1)
	assert.Equal(t, MovementTypePurchase, movements[0].MovementType)
	assert.Equal(t, 10, movements[0].QuantityDelta)

	sum, _ := repo.SumMovementDeltas(rec.ID)
	assert.Equal(t, rec.Quantity, sum)
}

func TestAddProduct_ZeroQuantityWritesNoMovement(t *testing.T) {
	svc, repo, loc := newTestService(t)

	rec, err := svc.AddProduct(&AddProductRequest{LocationID: loc.ID, ProductID: 1})
	assert.NoError(t, err)

	movements, _ := repo.ListMovements(rec.ID)
	assert.Empty(t, movements)
}

func TestAddProduct_DuplicatePairRejected(t *testing.T) {
	svc, _, loc := newTestService(t)

	_, err := svc.AddProduct(&AddProductRequest{LocationID: loc.ID, ProductID: 1, Quantity: 5})
	assert.NoError(t, err)

	_, err = svc.AddProduct(&AddProductRequest{LocationID: loc.ID, ProductID: 1, Quantity: 5})
	assert.True(t, apperrors.IsConflict(err))
}

func TestAddProduct_UnknownLocation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddProduct(&AddProductRequest{LocationID: 999, ProductID: 1})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAdjust(t *testing.T) {
	svc, repo, loc := newTestService(t)
	rec, _ := svc.AddProduct(&AddProductRequest{LocationID: loc.ID, ProductID: 1, Quantity: 10})

	updated, err := svc.Adjust(rec.ID, &AdjustRequest{
		Delta:        -4,
		MovementType: MovementTypeSale,
		Reason:       "order ORD-1",
	})
	assert.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)

	// Counter and movement log stay in lockstep
	sum, _ := repo.SumMovementDeltas(rec.ID)
	assert.Equal(t, updated.Quantity, sum)

	movements, _ := repo.ListMovements(rec.ID)
	assert.Len(t, movements, 2)
	assert.Equal(t, MovementTypeSale, movements[1].MovementType)
	assert.Equal(t, -4, movements[1].QuantityDelta)
}

func TestAdjust_InsufficientStockLeavesStateUnchanged(t *testing.T) {
	svc, repo, loc := newTestService(t)
	rec, _ := svc.AddProduct(&AddProductRequest{LocationID: loc.ID, ProductID: 1, Quantity: 3})
	repo.records[rec.ID].Product = catalog.Product{Name: "Touring 205/55R16"}

	_, err := svc.Adjust(rec.ID, &AdjustRequest{
		Delta:        -5,
		MovementType: MovementTypeSale,
	})
	assert.True(t, apperrors.IsInsufficientStock(err))

	var stockErr *apperrors.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(1), stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	// Neither the counter nor the movement log changed
	current, _ := repo.GetRecord(rec.ID)
	assert.Equal(t, 3, current.Quantity)
	movements, _ := repo.ListMovements(rec.ID)
	assert.Len(t, movements, 1)
}

func TestAdjust_MovementCarriesRecordLocation(t *testing.T) {
	svc, repo, loc := newTestService(t)
	rec, _ := svc.AddProduct(&AddProductRequest{LocationID: loc.ID, ProductID: 1, Quantity: 10})

	_, err := svc.Adjust(rec.ID, &AdjustRequest{Delta: -2, MovementType: MovementTypeSale})
	assert.NoError(t, err)

	assert.NotZero(t, loc.ID)
	movements, _ := repo.ListMovements(rec.ID)
	assert.Len(t, movements, 2)
	for _, mv := range movements {
		assert.Equal(t, loc.ID, mv.LocationID)
	}
}

func TestAdjust_Validation(t *testing.T) {
	svc, _, loc := newTestService(t)
	rec, _ := svc.AddProduct(&AddProductRequest{LocationID: loc.ID, ProductID: 1, Quantity: 3})

	_, err := svc.Adjust(rec.ID, &AdjustRequest{Delta: 0, MovementType: MovementTypeSale})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Adjust(rec.ID, &AdjustRequest{Delta: 1, MovementType: "BOGUS"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdjust_UnknownRecord(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Adjust(42, &AdjustRequest{Delta: 1, MovementType: MovementTypeAdjustment})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemove_WritesClosingMovement(t *testing.T) {
	svc, repo, loc := newTestService(t)
	rec, _ := svc.AddProduct(&AddProductRequest{LocationID: loc.ID, ProductID: 1, Quantity: 7})

	err := svc.Remove(rec.ID)
	assert.NoError(t, err)

	_, err = repo.GetRecord(rec.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Closing movement zeroes the ledger before deletion
	movements, _ := repo.ListMovements(rec.ID)
	assert.Len(t, movements, 2)
	assert.Equal(t, MovementTypeOther, movements[1].MovementType)
	assert.Equal(t, -7, movements[1].QuantityDelta)

	sum, _ := repo.SumMovementDeltas(rec.ID)
	assert.Equal(t, 0, sum)
}

func TestRemove_UnknownRecord(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Remove(42)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteLocation_BlockedWhileRecordsExist(t *testing.T) {
	svc, _, loc := newTestService(t)
	rec, _ := svc.AddProduct(&AddProductRequest{LocationID: loc.ID, ProductID: 1, Quantity: 1})

	err := svc.DeleteLocation(loc.ID)
	assert.True(t, apperrors.IsConflict(err))

	// After the record is removed the location can go
	assert.NoError(t, svc.Remove(rec.ID))
	assert.NoError(t, svc.DeleteLocation(loc.ID))
}

func TestLowStock_ReorderSuggestions(t *testing.T) {
	svc, repo, loc := newTestService(t)

	low, _ := svc.AddProduct(&AddProductRequest{
		LocationID: loc.ID, ProductID: 1, Quantity: 2,
		MinimumLevel: 5, ReorderLevel: 3, ReorderQty: 20,
	})
	_, _ = svc.AddProduct(&AddProductRequest{
		LocationID: loc.ID, ProductID: 2, Quantity: 50, MinimumLevel: 5,
	})
	repo.records[low.ID].Product = catalog.Product{Name: "Winter Grip 225/45R17"}

	suggestions, err := svc.LowStock(nil)
	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)
	assert.Equal(t, low.ID, suggestions[0].Record.ID)
	assert.Equal(t, 20, suggestions[0].SuggestedQty)
}

func TestLedgerCompleteness(t *testing.T) {
	svc, repo, loc := newTestService(t)
	rec, _ := svc.AddProduct(&AddProductRequest{LocationID: loc.ID, ProductID: 1, Quantity: 100})

	deltas := []int{-10, 25, -40, -3, 7}
	for _, delta := range deltas {
		_, err := svc.Adjust(rec.ID, &AdjustRequest{Delta: delta, MovementType: MovementTypeAdjustment})
		assert.NoError(t, err)
	}

	current, _ := repo.GetRecord(rec.ID)
	sum, _ := repo.SumMovementDeltas(rec.ID)
	assert.Equal(t, current.Quantity, sum)
}
