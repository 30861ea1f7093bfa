package models

import (
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

type Brand struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	LogoURL      string  `json:"logo_url,omitempty"`
	Category     string  `json:"category,omitempty"`
	Route        *string `json:"route,omitempty"`
	Description  string  `json:"description,omitempty"`
	Country      string  `json:"country,omitempty"`
	IsOwn        bool    `json:"is_own,omitempty"`
	IsFeatured   bool    `json:"is_featured,omitempty"`
	ProductCount *int    `json:"product_count,omitempty"`
	Priority     *int    `json:"priority,omitempty"`
	WebsiteURL   string  `json:"website_url,omitempty"`
}

// brandWire mirrors the persisted form of a brand record including the
// historical field aliases (brand_id/show_name/is_own_brand). Both alias
// generations exist in live content, so decoding resolves them to the
// canonical fields.
type brandWire struct {
	ID           string  `json:"id"`
	BrandID      string  `json:"brand_id"`
	Name         string  `json:"name"`
	ShowName     string  `json:"show_name"`
	LogoURL      string  `json:"logo_url"`
	Category     string  `json:"category"`
	Route        *string `json:"route"`
	Description  string  `json:"description"`
	Country      string  `json:"country"`
	IsOwn        *bool   `json:"is_own"`
	IsOwnBrand   *bool   `json:"is_own_brand"`
	IsFeatured   bool    `json:"is_featured"`
	ProductCount *int    `json:"product_count"`
	Priority     *int    `json:"priority"`
	WebsiteURL   string  `json:"website_url"`
}

func (b *Brand) UnmarshalJSON(data []byte) error {
	var w brandWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	b.ID = w.ID
	if b.ID == "" {
		b.ID = w.BrandID
	}
	b.Name = w.Name
	if b.Name == "" {
		b.Name = w.ShowName
	}
	b.LogoURL = w.LogoURL
	b.Category = w.Category
	b.Route = w.Route
	b.Description = w.Description
	b.Country = w.Country
	switch {
	case w.IsOwn != nil:
		b.IsOwn = *w.IsOwn
	case w.IsOwnBrand != nil:
		b.IsOwn = *w.IsOwnBrand
	}
	b.IsFeatured = w.IsFeatured
	b.ProductCount = w.ProductCount
	b.Priority = w.Priority
	b.WebsiteURL = w.WebsiteURL
	return nil
}

const domesticCountry = "中国"

func (b Brand) IsDomestic() bool {
	return b.Country == domesticCountry
}

type BrandFilters struct {
	Search      string
	Category    string
	Alphabet    string
	Country     string
	HasProducts bool
	Featured    bool
}

func (f BrandFilters) ActiveCount() int {
	count := 0
	if f.Search != "" {
		count++
	}
	if f.Category != "" {
		count++
	}
	if f.Alphabet != "" {
		count++
	}
	if f.Country != "" {
		count++
	}
	if f.HasProducts {
		count++
	}
	if f.Featured {
		count++
	}
	return count
}

func (f BrandFilters) matches(b Brand) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !containsFold(q, b.Name, b.Description, b.Country) {
			return false
		}
	}
	if f.Category != "" && b.Category != f.Category {
		return false
	}
	if f.Alphabet != "" && !strings.HasPrefix(strings.ToUpper(b.Name), strings.ToUpper(f.Alphabet)) {
		return false
	}
	if f.Country != "" && b.Country != f.Country {
		return false
	}
	if f.HasProducts && (b.ProductCount == nil || *b.ProductCount <= 0) {
		return false
	}
	if f.Featured && !b.IsFeatured {
		return false
	}
	return true
}

func FilterBrands(items []Brand, f BrandFilters) []Brand {
	result := make([]Brand, 0, len(items))
	for _, b := range items {
		if f.matches(b) {
			result = append(result, b)
		}
	}
	return result
}

// BrandSortOptions is the subset of sort keys the brand store accepts.
var BrandSortOptions = map[SortOption]bool{
	SortNameAsc:  true,
	SortNameDesc: true,
	SortPriority: true,
	SortFeatured: true,
}

func SortBrands(items []Brand, by SortOption) []Brand {
	result := make([]Brand, len(items))
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
	case SortPriority:
		sort.SliceStable(result, func(i, j int) bool {
			return priorityOrDefault(result[i].Priority) < priorityOrDefault(result[j].Priority)
		})
	case SortFeatured:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].IsFeatured && !result[j].IsFeatured
		})
	}
	return result
}

// PartitionOwnership splits brands into own brands and agency brands.
func PartitionOwnership(items []Brand) (own, agent []Brand) {
	for _, b := range items {
		if b.IsOwn {
			own = append(own, b)
		} else {
			agent = append(agent, b)
		}
	}
	return own, agent
}

// PartitionOrigin splits brands into domestic and international lists.
func PartitionOrigin(items []Brand) (domestic, international []Brand) {
	for _, b := range items {
		if b.IsDomestic() {
			domestic = append(domestic, b)
		} else {
			international = append(international, b)
		}
	}
	return domestic, international
}
