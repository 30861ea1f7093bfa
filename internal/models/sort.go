package models

import (
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOption is the closed set of sort keys recognized across the entity
// stores. Each store accepts only the subset meaningful to it.
type SortOption string

const (
	SortNameAsc   SortOption = "name-asc"
	SortNameDesc  SortOption = "name-desc"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortFeatured  SortOption = "featured"
	SortPriority  SortOption = "priority"
	SortDateAsc   SortOption = "date-asc"
	SortDateDesc  SortOption = "date-desc"
)

const defaultBrandPriority = 999

func ParseSortOption(s string) (SortOption, error) {
	switch opt := SortOption(s); opt {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc,
		SortFeatured, SortPriority, SortDateAsc, SortDateDesc:
		return opt, nil
	}
	return "", fmt.Errorf("unknown sort option %q", s)
}

// nameCollator compares display names with Chinese collation, matching the
// language of the content. Collators are not safe for concurrent use, so
// every sort builds its own.
func nameCollator() *collate.Collator {
	return collate.New(language.Chinese)
}

func priceOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func priorityOrDefault(p *int) int {
	if p == nil {
		return defaultBrandPriority
	}
	return *p
}
