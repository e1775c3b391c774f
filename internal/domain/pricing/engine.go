// internal/domain/pricing/engine.go
package pricing

import "math"

// Line is one priced cart line. UnitPrice is the sale price snapshot in
// cents; ListPrice is the pre-discount catalog price (0 when none).
type Line struct {
	ProductID  uint  `json:"product_id"`
	BrandID    *uint `json:"brand_id,omitempty"`
	CategoryID *uint `json:"category_id,omitempty"`
	ModelID    *uint `json:"model_id,omitempty"`
	UnitPrice  int64 `json:"unit_price"`
	ListPrice  int64 `json:"list_price"`
	Quantity   int   `json:"quantity"`
}

// ShippingOption is one carrier rate offer, price in cents
type ShippingOption struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Price             int64  `json:"price"`
	EstimatedDelivery string `json:"estimated_delivery"`
}

// Quote is the monetary breakdown of one cart, all amounts in cents.
// CatalogDiscount is informational: it is already reflected in the line
// prices and is not subtracted again.
type Quote struct {
	Subtotal           int64 `json:"subtotal"`
	CatalogDiscount    int64 `json:"catalog_discount"`
	PromotionsDiscount int64 `json:"promotions_discount"`
	Tax                int64 `json:"tax"`
	Shipping           int64 `json:"shipping"`
	Total              int64 `json:"total"`
	FreeShipping       bool  `json:"free_shipping"`
}

// Price computes the monetary effect of a cart, its applied promotions,
// and the chosen shipping option. Pure: no storage or network access,
// identical inputs always produce identical output.
//
// Promotions stack additively with no precedence or cap. A FIXED
// promotion applies once against the whole cart, gated on the unscoped
// subtotal meeting its minimum purchase; it is not prorated across
// partially eligible carts.
func Price(lines []Line, promotions []Promotion, taxRate float64, shipping ShippingOption) Quote {
	var quote Quote

	for _, line := range lines {
		quote.Subtotal += line.UnitPrice * int64(line.Quantity)
		if line.ListPrice > line.UnitPrice {
			quote.CatalogDiscount += (line.ListPrice - line.UnitPrice) * int64(line.Quantity)
		}
	}

	for _, promo := range promotions {
		switch promo.Type {
		case PromotionTypePercentage:
			scope := promo.Scope()
			var eligible int64
			for _, line := range lines {
				if scope.MatchesLine(line) {
					eligible += line.UnitPrice * int64(line.Quantity)
				}
			}
			quote.PromotionsDiscount += int64(math.Round(float64(eligible) * promo.Value / 100))
		case PromotionTypeFixed:
			if quote.Subtotal >= promo.MinPurchaseAmount {
				quote.PromotionsDiscount += int64(promo.Value)
			}
		case PromotionTypeFreeShipping:
			quote.FreeShipping = true
		}
	}

	if quote.FreeShipping {
		quote.PromotionsDiscount += shipping.Price
		quote.Shipping = 0
	} else {
		quote.Shipping = shipping.Price
	}

	taxable := quote.Subtotal - quote.PromotionsDiscount
	if taxable < 0 {
		taxable = 0
	}
	quote.Tax = int64(math.Round(float64(taxable) * taxRate))

	quote.Total = quote.Subtotal - quote.PromotionsDiscount + quote.Tax + quote.Shipping
	return quote
}
