// internal/domain/shipping/packager.go
package shipping

import (
	"fmt"
	"math"
)

// Item is one cart line as the packager sees it. Zero weight or
// dimensions mean the product never declared them.
type Item struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	WeightKg  float64 `json:"weight_kg"`
	LengthCm  float64 `json:"length_cm"`
	WidthCm   float64 `json:"width_cm"`
	HeightCm  float64 `json:"height_cm"`
	Quantity  int     `json:"quantity"`
}

// Package is a planning artifact for carrier rate lookup, never persisted
type Package struct {
	WeightKg    float64 `json:"weight_kg"`
	LengthCm    float64 `json:"length_cm"`
	WidthCm     float64 `json:"width_cm"`
	HeightCm    float64 `json:"height_cm"`
	Description string  `json:"description"`
	ItemCount   int     `json:"item_count"`
}

// Packager partitions cart items into carrier-compliant packages
type Packager struct {
	defaultItemWeightKg   float64
	defaultItemDiameterCm float64
	maxPackageWeightKg    float64
}

// NewPackager creates a packager with the configured constants
func NewPackager(defaultWeightKg, defaultDiameterCm, maxWeightKg float64) *Packager {
	return &Packager{
		defaultItemWeightKg:   defaultWeightKg,
		defaultItemDiameterCm: defaultDiameterCm,
		maxPackageWeightKg:    maxWeightKg,
	}
}

type dimensionKey struct {
	length float64
	width  float64
	height float64
}

type dimensionGroup struct {
	key           dimensionKey
	totalWeightKg float64
	itemCount     int
}

// Pack partitions items into packages grouped by dimension signature,
// each group's weight split across the minimum number of packages that
// respects the carrier maximum. Weight is conserved exactly; dimensions
// are never mixed across groups.
func (p *Packager) Pack(items []Item) []Package {
	if len(items) == 0 {
		return []Package{{
			WeightKg:    p.defaultItemWeightKg,
			LengthCm:    p.defaultItemDiameterCm,
			WidthCm:     p.defaultItemDiameterCm,
			HeightCm:    p.defaultItemDiameterCm,
			Description: "Default tire package",
			ItemCount:   0,
		}}
	}

	var order []dimensionKey
	groups := make(map[dimensionKey]*dimensionGroup)
	for _, item := range items {
		key := p.signature(item)
		group, ok := groups[key]
		if !ok {
			group = &dimensionGroup{key: key}
			groups[key] = group
			order = append(order, key)
		}
		weight := item.WeightKg
		if weight <= 0 {
			weight = p.defaultItemWeightKg
		}
		group.totalWeightKg += weight * float64(item.Quantity)
		group.itemCount += item.Quantity
	}

	var packages []Package
	for _, key := range order {
		packages = append(packages, p.splitGroup(groups[key])...)
	}
	return packages
}

// signature is the effective dimension key of an item; undeclared
// dimensions fall back to the default diameter so all dimensionless
// items land in one group.
func (p *Packager) signature(item Item) dimensionKey {
	key := dimensionKey{length: item.LengthCm, width: item.WidthCm, height: item.HeightCm}
	if key.length <= 0 {
		key.length = p.defaultItemDiameterCm
	}
	if key.width <= 0 {
		key.width = p.defaultItemDiameterCm
	}
	if key.height <= 0 {
		key.height = p.defaultItemDiameterCm
	}
	return key
}

// splitGroup divides a group's total weight evenly across the minimum
// package count that keeps every package at or under the maximum.
func (p *Packager) splitGroup(group *dimensionGroup) []Package {
	count := int(math.Ceil(group.totalWeightKg / p.maxPackageWeightKg))
	if count < 1 {
		count = 1
	}
	perPackage := group.totalWeightKg / float64(count)

	packages := make([]Package, 0, count)
	remainingWeight := group.totalWeightKg
	remainingItems := group.itemCount
	for i := 0; i < count; i++ {
		weight := perPackage
		if i == count-1 {
			weight = remainingWeight // absorb float drift so the sum is exact
		}
		itemCount := group.itemCount / count
		if i == count-1 {
			itemCount = remainingItems
		}
		remainingWeight -= weight
		remainingItems -= itemCount
		packages = append(packages, Package{
			WeightKg:    weight,
			LengthCm:    group.key.length,
			WidthCm:     group.key.width,
			HeightCm:    group.key.height,
			Description: fmt.Sprintf("Tire package %d of %d (%.0fx%.0fx%.0f cm)", i+1, count, group.key.length, group.key.width, group.key.height),
			ItemCount:   itemCount,
		})
	}
	return packages
}
