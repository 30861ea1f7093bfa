package models

import (
	"sort"
	"strings"
)

type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
	Brand      string `json:"brand,omitempty"`
	SKU        string `json:"sku,omitempty"`
	Specs      string `json:"specs"`
	Unit       string `json:"unit,omitempty"`
	Desc       string `json:"desc"`

	// Optional price and stock fields. nil means unknown, not zero.
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	CurrentPrice  *float64 `json:"currentPrice,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
	IsOnSale      bool     `json:"isOnSale,omitempty"`
}

// EffectivePrice is the price used for range filters and price sorts:
// the current (promotional) price when present, the original price
// otherwise. Products without any price report ok=false.
func (p Product) EffectivePrice() (float64, bool) {
	if p.CurrentPrice != nil {
		return *p.CurrentPrice, true
	}
	if p.OriginalPrice != nil {
		return *p.OriginalPrice, true
	}
	return 0, false
}

func (p Product) HasDiscount() bool {
	if p.IsOnSale {
		return true
	}
	return p.OriginalPrice != nil && p.CurrentPrice != nil && *p.CurrentPrice < *p.OriginalPrice
}

// PriceRange is an inclusive [Min, Max] filter bound.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

type ProductFilters struct {
	Search      string
	CategoryID  string
	Brand       string
	PriceRange  *PriceRange
	InStock     bool
	HasDiscount bool
}

func (f ProductFilters) ActiveCount() int {
	count := 0
	if f.Search != "" {
		count++
	}
	if f.CategoryID != "" {
		count++
	}
	if f.Brand != "" {
		count++
	}
	if f.PriceRange != nil {
		count++
	}
	if f.InStock {
		count++
	}
	if f.HasDiscount {
		count++
	}
	return count
}

func (f ProductFilters) matches(p Product) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !containsFold(q, p.Name, p.Specs, p.Desc, p.Brand, p.SKU) {
			return false
		}
	}
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.PriceRange != nil {
		price, ok := p.EffectivePrice()
		if !ok || !f.PriceRange.Contains(price) {
			return false
		}
	}
	if f.InStock && (p.Stock == nil || *p.Stock <= 0) {
		return false
	}
	if f.HasDiscount && !p.HasDiscount() {
		return false
	}
	return true
}

// containsFold reports whether any of the fields contains the already
// lower-cased query as a substring.
func containsFold(query string, fields ...string) bool {
	for _, field := range fields {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// FilterProducts applies every active criterion with AND semantics.
// The input slice is never mutated.
func FilterProducts(items []Product, f ProductFilters) []Product {
	result := make([]Product, 0, len(items))
	for _, p := range items {
		if f.matches(p) {
			result = append(result, p)
		}
	}
	return result
}

// ProductSortOptions is the subset of sort keys the product store accepts.
var ProductSortOptions = map[SortOption]bool{
	SortNameAsc:   true,
	SortNameDesc:  true,
	SortPriceAsc:  true,
	SortPriceDesc: true,
}

// SortProducts returns a stably sorted copy of items.
func SortProducts(items []Product, by SortOption) []Product {
	result := make([]Product, len(items))
	copy(result, items)

	switch by {
	case SortNameAsc:
		c := nameCollator()
		sort.SliceStable(result, func(i, j int) bool {
			return c.CompareString(result[i].Name, result[j].Name) < 0
		})
	case SortNameDesc:
		c := nameCollator()
		sort.SliceStable(result, func(i, j int) bool {
			return c.CompareString(result[j].Name, result[i].Name) < 0
		})
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return priceOrZero(result[i].CurrentPrice) < priceOrZero(result[j].CurrentPrice)
		})
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return priceOrZero(result[j].CurrentPrice) < priceOrZero(result[i].CurrentPrice)
		})
	}
	return result
}

// DistinctBrands lists the brand names referenced by products, sorted.
func DistinctBrands(items []Product) []string {
	seen := make(map[string]bool)
	brands := make([]string, 0)
	for _, p := range items {
		if p.Brand == "" || seen[p.Brand] {
			continue
		}
		seen[p.Brand] = true
		brands = append(brands, p.Brand)
	}
	sort.Strings(brands)
	return brands
}

// GroupByCategory buckets products by their categoryId, preserving order.
func GroupByCategory(items []Product) map[string][]Product {
	groups := make(map[string][]Product)
	for _, p := range items {
		groups[p.CategoryID] = append(groups[p.CategoryID], p)
	}
	return groups
}
