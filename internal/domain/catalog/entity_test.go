// internal/domain/catalog/entity_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSalePrice(t *testing.T) {
	assert.Equal(t, int64(10000), (&Product{Price: 10000}).SalePrice())
	assert.Equal(t, int64(18000), (&Product{Price: 20000, DiscountPercent: 10}).SalePrice())
	assert.Equal(t, int64(10000), (&Product{Price: 10000, DiscountPercent: -5}).SalePrice())
}

func TestListPrice(t *testing.T) {
	t.Run("compare price above retail wins", func(t *testing.T) {
		p := &Product{Price: 19999, ComparePrice: 24999}
		assert.Equal(t, int64(24999), p.ListPrice())
	})

	t.Run("unset compare price falls back to retail", func(t *testing.T) {
		p := &Product{Price: 19999}
		assert.Equal(t, int64(19999), p.ListPrice())
	})

	t.Run("compare price at or below retail is ignored", func(t *testing.T) {
		p := &Product{Price: 19999, ComparePrice: 15000}
		assert.Equal(t, int64(19999), p.ListPrice())
	})
}
