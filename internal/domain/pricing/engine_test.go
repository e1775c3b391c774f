// internal/domain/pricing/engine_test.go
package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestPrice_SubtotalAndTax(t *testing.T) {
	// Cart: 100.00 x2 + 50.00 x1 = 250.00, shipping 9.99, one flat
	// 10.00 discount, tax rate 8.25%
	lines := []Line{
		{ProductID: 1, UnitPrice: 10000, Quantity: 2},
		{ProductID: 2, UnitPrice: 5000, Quantity: 1},
	}
	promos := []Promotion{
		{ID: 1, Type: PromotionTypeFixed, Value: 1000},
	}
	shipping := ShippingOption{ID: "standard", Price: 999}

	quote := Price(lines, promos, 0.0825, shipping)

	assert.Equal(t, int64(25000), quote.Subtotal)
	assert.Equal(t, int64(1000), quote.PromotionsDiscount)
	assert.Equal(t, int64(1980), quote.Tax) // (250.00 - 10.00) * 0.0825
	assert.Equal(t, int64(999), quote.Shipping)
	assert.Equal(t, int64(26979), quote.Total)
}

func TestPrice_FreeShipping(t *testing.T) {
	// Same cart, FREE_SHIPPING plus a 5.00 flat discount: shipping is
	// zeroed and its price moves into the promotions discount.
	lines := []Line{
		{ProductID: 1, UnitPrice: 10000, Quantity: 2},
		{ProductID: 2, UnitPrice: 5000, Quantity: 1},
	}
	promos := []Promotion{
		{ID: 1, Type: PromotionTypeFixed, Value: 500},
		{ID: 2, Type: PromotionTypeFreeShipping},
	}
	shipping := ShippingOption{ID: "standard", Price: 999}

	quote := Price(lines, promos, 0.0825, shipping)

	assert.True(t, quote.FreeShipping)
	assert.Equal(t, int64(0), quote.Shipping)
	assert.Equal(t, int64(500+999), quote.PromotionsDiscount)
}

func TestPrice_PercentagePromotionScoping(t *testing.T) {
	lines := []Line{
		{ProductID: 1, BrandID: uintPtr(7), UnitPrice: 10000, Quantity: 1},
		{ProductID: 2, BrandID: uintPtr(8), UnitPrice: 10000, Quantity: 1},
	}

	t.Run("unscoped applies to every line", func(t *testing.T) {
		promos := []Promotion{{Type: PromotionTypePercentage, Value: 10}}
		quote := Price(lines, promos, 0, ShippingOption{})
		assert.Equal(t, int64(2000), quote.PromotionsDiscount)
	})

	t.Run("brand scope limits eligible lines", func(t *testing.T) {
		promos := []Promotion{{Type: PromotionTypePercentage, Value: 10, BrandIDs: "7"}}
		quote := Price(lines, promos, 0, ShippingOption{})
		assert.Equal(t, int64(1000), quote.PromotionsDiscount)
	})

	t.Run("product scope matches by id", func(t *testing.T) {
		promos := []Promotion{{Type: PromotionTypePercentage, Value: 50, ProductIDs: "2, 99"}}
		quote := Price(lines, promos, 0, ShippingOption{})
		assert.Equal(t, int64(5000), quote.PromotionsDiscount)
	})
}

func TestPrice_FixedMinimumPurchaseGate(t *testing.T) {
	lines := []Line{{ProductID: 1, UnitPrice: 4000, Quantity: 1}}

	t.Run("below minimum contributes nothing", func(t *testing.T) {
		promos := []Promotion{{Type: PromotionTypeFixed, Value: 1000, MinPurchaseAmount: 5000}}
		quote := Price(lines, promos, 0, ShippingOption{})
		assert.Equal(t, int64(0), quote.PromotionsDiscount)
	})

	t.Run("at minimum applies once", func(t *testing.T) {
		promos := []Promotion{{Type: PromotionTypeFixed, Value: 1000, MinPurchaseAmount: 4000}}
		quote := Price(lines, promos, 0, ShippingOption{})
		assert.Equal(t, int64(1000), quote.PromotionsDiscount)
	})
}

func TestPrice_PromotionsStackAdditively(t *testing.T) {
	lines := []Line{{ProductID: 1, UnitPrice: 10000, Quantity: 1}}
	promos := []Promotion{
		{Type: PromotionTypePercentage, Value: 10},
		{Type: PromotionTypePercentage, Value: 5},
		{Type: PromotionTypeFixed, Value: 250},
	}

	quote := Price(lines, promos, 0, ShippingOption{})

	assert.Equal(t, int64(1000+500+250), quote.PromotionsDiscount)
}

func TestPrice_CatalogDiscountIsInformational(t *testing.T) {
	lines := []Line{
		{ProductID: 1, UnitPrice: 9000, ListPrice: 10000, Quantity: 2},
	}

	quote := Price(lines, nil, 0, ShippingOption{})

	assert.Equal(t, int64(18000), quote.Subtotal)
	assert.Equal(t, int64(2000), quote.CatalogDiscount)
	// Not subtracted twice
	assert.Equal(t, int64(18000), quote.Total)
}

func TestPrice_TaxableNeverNegative(t *testing.T) {
	lines := []Line{{ProductID: 1, UnitPrice: 1000, Quantity: 1}}
	promos := []Promotion{{Type: PromotionTypeFixed, Value: 5000}}

	quote := Price(lines, promos, 0.0825, ShippingOption{Price: 999})

	assert.Equal(t, int64(0), quote.Tax)
}

func TestPrice_Deterministic(t *testing.T) {
	lines := []Line{
		{ProductID: 1, BrandID: uintPtr(3), UnitPrice: 12999, ListPrice: 14999, Quantity: 4},
		{ProductID: 2, UnitPrice: 15999, Quantity: 2},
	}
	promos := []Promotion{
		{Type: PromotionTypePercentage, Value: 7.5, BrandIDs: "3"},
		{Type: PromotionTypeFreeShipping},
	}
	shipping := ShippingOption{ID: "express", Price: 2499}

	first := Price(lines, promos, 0.0825, shipping)
	second := Price(lines, promos, 0.0825, shipping)

	assert.Equal(t, first, second)
}

func TestScopeParsing(t *testing.T) {
	promo := Promotion{ProductIDs: "1,2, 3", CategoryIDs: "", ModelIDs: "9,bad,10"}
	scope := promo.Scope()

	assert.Equal(t, []uint{1, 2, 3}, scope.ProductIDs)
	assert.Nil(t, scope.CategoryIDs)
	assert.Equal(t, []uint{9, 10}, scope.ModelIDs)
	assert.False(t, scope.IsUnscoped())

	empty := Promotion{}
	assert.True(t, empty.Scope().IsUnscoped())
}
