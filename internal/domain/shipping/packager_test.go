// internal/domain/shipping/packager_test.go
package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPackager() *Packager {
	return NewPackager(8, 65, 50)
}

func totalWeight(packages []Package) float64 {
	var sum float64
	for _, p := range packages {
		sum += p.WeightKg
	}
	return sum
}

func TestPack_EmptyCartReturnsDefaultPackage(t *testing.T) {
	packages := newTestPackager().Pack(nil)

	assert.Len(t, packages, 1)
	assert.Equal(t, 8.0, packages[0].WeightKg)
	assert.Equal(t, 65.0, packages[0].LengthCm)
	assert.Equal(t, 65.0, packages[0].WidthCm)
	assert.Equal(t, "Default tire package", packages[0].Description)
}

func TestPack_SingleItemWithoutDimensions(t *testing.T) {
	items := []Item{
		{ProductID: 1, Name: "Touring 205/55R16", WeightKg: 9, Quantity: 1},
	}

	packages := newTestPackager().Pack(items)

	assert.Len(t, packages, 1)
	assert.Equal(t, 9.0, packages[0].WeightKg)
	assert.Equal(t, 65.0, packages[0].LengthCm)
	assert.Equal(t, 65.0, packages[0].WidthCm)
}

func TestPack_SplitsHeavyGroupAtMaxWeight(t *testing.T) {
	// 8 tires of 25kg = 200kg total, 50kg carrier limit
	items := []Item{
		{ProductID: 1, Name: "Truck tire", WeightKg: 25, Quantity: 8},
	}

	packages := newTestPackager().Pack(items)

	assert.Len(t, packages, 4)
	for _, p := range packages {
		assert.LessOrEqual(t, p.WeightKg, 50.0)
	}
	assert.InDelta(t, 200.0, totalWeight(packages), 1e-9)
}

func TestPack_GroupsByDimensionSignature(t *testing.T) {
	items := []Item{
		{ProductID: 1, WeightKg: 10, LengthCm: 70, WidthCm: 70, HeightCm: 25, Quantity: 1},
		{ProductID: 2, WeightKg: 10, LengthCm: 70, WidthCm: 70, HeightCm: 25, Quantity: 1},
		{ProductID: 3, WeightKg: 10, Quantity: 1}, // undeclared dims
	}

	packages := newTestPackager().Pack(items)

	assert.Len(t, packages, 2)
	assert.Equal(t, 20.0, packages[0].WeightKg)
	assert.Equal(t, 70.0, packages[0].LengthCm)
	assert.Equal(t, 10.0, packages[1].WeightKg)
	assert.Equal(t, 65.0, packages[1].LengthCm)
}

func TestPack_DefaultsForWeightlessItems(t *testing.T) {
	items := []Item{
		{ProductID: 1, Quantity: 3}, // no declared weight
	}

	packages := newTestPackager().Pack(items)

	assert.Len(t, packages, 1)
	assert.Equal(t, 24.0, packages[0].WeightKg) // 3 x default 8kg
}

func TestPack_WeightConservation(t *testing.T) {
	cases := []struct {
		name  string
		items []Item
	}{
		{"single light item", []Item{{ProductID: 1, WeightKg: 3.2, Quantity: 1}}},
		{"exact multiple of limit", []Item{{ProductID: 1, WeightKg: 10, Quantity: 10}}},
		{"just over the limit", []Item{{ProductID: 1, WeightKg: 17, Quantity: 3}}},
		{"mixed dimensions", []Item{
			{ProductID: 1, WeightKg: 11.8, LengthCm: 66, WidthCm: 66, HeightCm: 24, Quantity: 4},
			{ProductID: 2, WeightKg: 9.5, Quantity: 6},
		}},
	}

	packager := newTestPackager()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var expected float64
			for _, item := range tc.items {
				weight := item.WeightKg
				if weight <= 0 {
					weight = 8
				}
				expected += weight * float64(item.Quantity)
			}

			packages := packager.Pack(tc.items)

			assert.InDelta(t, expected, totalWeight(packages), 1e-9)
			for _, p := range packages {
				assert.LessOrEqual(t, p.WeightKg, 50.0+1e-9)
				assert.Greater(t, p.WeightKg, 0.0)
			}
		})
	}
}

func TestPack_ItemCountConserved(t *testing.T) {
	items := []Item{
		{ProductID: 1, WeightKg: 25, Quantity: 7},
	}

	packages := newTestPackager().Pack(items)

	var count int
	for _, p := range packages {
		count += p.ItemCount
	}
	assert.Equal(t, 7, count)
}
