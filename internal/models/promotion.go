package models

import (
	"math"
	"sort"
	"strings"
	"time"
)

type Promotion struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	IconClass   string `json:"icon_class,omitempty"`

	// Dates in ISO "YYYY-MM-DD" form. Empty means unknown.
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	OriginalPrice *float64 `json:"original_price,omitempty"`
	CurrentPrice  *float64 `json:"current_price,omitempty"`
	DiscountBadge string   `json:"discount_badge,omitempty"`

	Category           string   `json:"category,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	IsFeatured         bool     `json:"is_featured,omitempty"`
	Priority           *int     `json:"priority,omitempty"`
	ApplicableProducts string   `json:"applicable_products,omitempty"`

	// Derived lifecycle state. Never persisted in content files; the
	// store recomputes it on every read because "now" moves.
	Status     PromotionStatus `json:"status,omitempty"`
	StatusText string          `json:"statusText,omitempty"`
}

type PromotionStatus string

const (
	StatusUnknown    PromotionStatus = "unknown"
	StatusUpcoming   PromotionStatus = "upcoming"
	StatusActive     PromotionStatus = "active"
	StatusEndingSoon PromotionStatus = "ending-soon"
	StatusEnded      PromotionStatus = "ended"
)

// DefaultEndingSoonDays is the threshold under which an active promotion
// is reported as ending soon.
const DefaultEndingSoonDays = 5

const promotionDateLayout = "2006-01-02"

// contentZone is the canonical timezone for promotion day boundaries.
// The catalog content is maintained in Beijing time, so day boundaries
// are computed at UTC+8 midnight regardless of where the process runs.
var contentZone = time.FixedZone("UTC+8", 8*60*60)

var statusLabels = map[PromotionStatus]string{
	StatusUnknown:    "状态未知",
	StatusUpcoming:   "即将开始",
	StatusActive:     "正在进行",
	StatusEndingSoon: "即将结束",
	StatusEnded:      "已经结束",
}

func (s PromotionStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return statusLabels[StatusUnknown]
}

// rank orders statuses by urgency for the promotion listing:
// ending-soon first, ended and unknown last.
func (s PromotionStatus) rank() int {
	switch s {
	case StatusEndingSoon:
		return 0
	case StatusActive:
		return 1
	case StatusUpcoming:
		return 2
	case StatusEnded:
		return 3
	default:
		return 4
	}
}

func ParsePromotionStatus(s string) (PromotionStatus, bool) {
	switch st := PromotionStatus(s); st {
	case StatusUnknown, StatusUpcoming, StatusActive, StatusEndingSoon, StatusEnded:
		return st, true
	}
	return "", false
}

// ClassifyPromotion derives the lifecycle state of a promotion from its
// date range and the given instant. It is a pure function: no clock reads,
// no memoization. The start date counts from its midnight and the end
// date is inclusive through 23:59:59.999 of its day, both in UTC+8.
func ClassifyPromotion(startDate, endDate string, now time.Time, endingSoonDays int) (PromotionStatus, string) {
	if startDate == "" || endDate == "" {
		return StatusUnknown, StatusUnknown.Label()
	}
	start, err := time.ParseInLocation(promotionDateLayout, startDate, contentZone)
	if err != nil {
		return StatusUnknown, StatusUnknown.Label()
	}
	end, err := time.ParseInLocation(promotionDateLayout, endDate, contentZone)
	if err != nil {
		return StatusUnknown, StatusUnknown.Label()
	}
	if endingSoonDays <= 0 {
		endingSoonDays = DefaultEndingSoonDays
	}

	local := now.In(contentZone)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, contentZone)
	endOfDay := end.Add(24*time.Hour - time.Millisecond)

	var status PromotionStatus
	switch {
	case today.Before(start):
		status = StatusUpcoming
	case today.After(endOfDay):
		status = StatusEnded
	case int(math.Ceil(endOfDay.Sub(today).Hours()/24)) <= endingSoonDays:
		status = StatusEndingSoon
	default:
		status = StatusActive
	}
	return status, status.Label()
}

// WithStatus returns a copy of the promotion carrying its derived state.
func (p Promotion) WithStatus(now time.Time, endingSoonDays int) Promotion {
	p.Status, p.StatusText = ClassifyPromotion(p.StartDate, p.EndDate, now, endingSoonDays)
	return p
}

func (p Promotion) parsedDate(s string) time.Time {
	t, err := time.ParseInLocation(promotionDateLayout, s, contentZone)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (p Promotion) HasDiscount() bool {
	if p.DiscountBadge != "" {
		return true
	}
	return p.OriginalPrice != nil && p.CurrentPrice != nil && *p.CurrentPrice < *p.OriginalPrice
}

// SortPromotionsByStatus orders promotions by status urgency, then within
// equal statuses: ending-soon and active by soonest end, upcoming by
// soonest start, ended by most recently ended. The sort is stable, so
// records the tiebreaks cannot separate keep their input order untouched.
// Input promotions must already carry their derived status.
func SortPromotionsByStatus(items []Promotion) []Promotion {
	result := make([]Promotion, len(items))
	copy(result, items)

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if ar, br := a.Status.rank(), b.Status.rank(); ar != br {
			return ar < br
		}
		switch a.Status {
		case StatusEndingSoon, StatusActive:
			return a.parsedDate(a.EndDate).Before(b.parsedDate(b.EndDate))
		case StatusUpcoming:
			return a.parsedDate(a.StartDate).Before(b.parsedDate(b.StartDate))
		case StatusEnded:
			return b.parsedDate(b.EndDate).Before(a.parsedDate(a.EndDate))
		default:
			return false
		}
	})
	return result
}

// PromotionSortOptions is the subset of sort keys the promotion store
// accepts on top of its default status ordering.
var PromotionSortOptions = map[SortOption]bool{
	SortFeatured: true,
	SortPriority: true,
	SortDateAsc:  true,
	SortDateDesc: true,
}

func SortPromotions(items []Promotion, by SortOption) []Promotion {
	result := make([]Promotion, len(items))
	copy(result, items)

	switch by {
	case SortFeatured:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].IsFeatured && !result[j].IsFeatured
		})
	case SortPriority:
		sort.SliceStable(result, func(i, j int) bool {
			return priorityOrDefault(result[i].Priority) < priorityOrDefault(result[j].Priority)
		})
	case SortDateAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].parsedDate(result[i].StartDate).Before(result[j].parsedDate(result[j].StartDate))
		})
	case SortDateDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[j].parsedDate(result[j].StartDate).Before(result[i].parsedDate(result[i].StartDate))
		})
	}
	return result
}

type PromotionFilters struct {
	Search      string
	Status      PromotionStatus
	Category    string
	Tags        []string
	HasDiscount bool
	PriceRange  *PriceRange
}

func (f PromotionFilters) ActiveCount() int {
	count := 0
	if f.Search != "" {
		count++
	}
	if f.Status != "" {
		count++
	}
	if f.Category != "" {
		count++
	}
	if len(f.Tags) > 0 {
		count++
	}
	if f.HasDiscount {
		count++
	}
	if f.PriceRange != nil {
		count++
	}
	return count
}

func (f PromotionFilters) matches(p Promotion) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !containsFold(q, p.Title, p.Summary, p.Description) {
			return false
		}
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if len(f.Tags) > 0 && !intersects(p.Tags, f.Tags) {
		return false
	}
	if f.HasDiscount && !p.HasDiscount() {
		return false
	}
	if f.PriceRange != nil {
		if p.CurrentPrice == nil || !f.PriceRange.Contains(*p.CurrentPrice) {
			return false
		}
	}
	return true
}

func intersects(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// FilterPromotions applies every active criterion with AND semantics.
// Status filtering requires the derived status to be present on the items.
func FilterPromotions(items []Promotion, f PromotionFilters) []Promotion {
	result := make([]Promotion, 0, len(items))
	for _, p := range items {
		if f.matches(p) {
			result = append(result, p)
		}
	}
	return result
}
