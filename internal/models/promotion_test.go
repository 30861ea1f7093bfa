package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Noon on 2025-01-12 in the content timezone (UTC+8).
var classifyNow = time.Date(2025, 1, 12, 12, 0, 0, 0, contentZone)

func TestClassifyPromotion_Ended(t *testing.T) {
	status, label := ClassifyPromotion("2025-01-01", "2025-01-10", classifyNow, DefaultEndingSoonDays)
	assert.Equal(t, StatusEnded, status)
	assert.Equal(t, "已经结束", label)
}

func TestClassifyPromotion_Active(t *testing.T) {
	status, label := ClassifyPromotion("2025-01-01", "2025-01-20", classifyNow, DefaultEndingSoonDays)
	assert.Equal(t, StatusActive, status)
	assert.Equal(t, "正在进行", label)
}

func TestClassifyPromotion_EndingSoon(t *testing.T) {
	status, label := ClassifyPromotion("2025-01-01", "2025-01-15", classifyNow, DefaultEndingSoonDays)
	assert.Equal(t, StatusEndingSoon, status)
	assert.Equal(t, "即将结束", label)
}

func TestClassifyPromotion_Upcoming(t *testing.T) {
	status, label := ClassifyPromotion("2025-01-16", "2025-01-20", classifyNow, DefaultEndingSoonDays)
	assert.Equal(t, StatusUpcoming, status)
	assert.Equal(t, "即将开始", label)
}

func TestClassifyPromotion_MissingDatesUnknown(t *testing.T) {
	status, label := ClassifyPromotion("", "2025-01-20", classifyNow, DefaultEndingSoonDays)
	assert.Equal(t, StatusUnknown, status)
	assert.Equal(t, "状态未知", label)

	status, _ = ClassifyPromotion("2025-01-01", "", classifyNow, DefaultEndingSoonDays)
	assert.Equal(t, StatusUnknown, status)
}

func TestClassifyPromotion_MalformedDateUnknown(t *testing.T) {
	status, _ := ClassifyPromotion("01/01/2025", "2025-01-20", classifyNow, DefaultEndingSoonDays)
	assert.Equal(t, StatusUnknown, status)
}

func TestClassifyPromotion_EndDateInclusive(t *testing.T) {
	// A promotion whose end date is today is still running until the end
	// of the day, and by then necessarily ending soon.
	status, _ := ClassifyPromotion("2025-01-01", "2025-01-12", classifyNow, DefaultEndingSoonDays)
	assert.Equal(t, StatusEndingSoon, status)
}

func TestClassifyPromotion_DayBoundaryUsesContentZone(t *testing.T) {
	// 23:00 UTC on Jan 10 is already Jan 11 in UTC+8, so a promotion
	// ending Jan 10 is over even though the UTC date still matches.
	now := time.Date(2025, 1, 10, 23, 0, 0, 0, time.UTC)
	status, _ := ClassifyPromotion("2025-01-01", "2025-01-10", now, DefaultEndingSoonDays)
	assert.Equal(t, StatusEnded, status)
}

func TestClassifyPromotion_ThresholdOverride(t *testing.T) {
	// Ending soon under the default window but merely active when the
	// window is narrowed to one day.
	status, _ := ClassifyPromotion("2025-01-01", "2025-01-15", classifyNow, 1)
	assert.Equal(t, StatusActive, status)
}

func TestClassifyPromotion_NonPositiveThresholdFallsBack(t *testing.T) {
	status, _ := ClassifyPromotion("2025-01-01", "2025-01-15", classifyNow, 0)
	assert.Equal(t, StatusEndingSoon, status)
}

func TestParsePromotionStatus(t *testing.T) {
	status, ok := ParsePromotionStatus("ending-soon")
	require.True(t, ok)
	assert.Equal(t, StatusEndingSoon, status)

	_, ok = ParsePromotionStatus("finished")
	assert.False(t, ok)
}

func TestWithStatus_PopulatesDerivedFields(t *testing.T) {
	p := Promotion{ID: 1, StartDate: "2025-01-01", EndDate: "2025-01-20"}
	got := p.WithStatus(classifyNow, DefaultEndingSoonDays)
	assert.Equal(t, StatusActive, got.Status)
	assert.Equal(t, "正在进行", got.StatusText)
	// The receiver stays untouched.
	assert.Empty(t, p.Status)
}

func promoFixtures() []Promotion {
	price := func(v float64) *float64 { return &v }
	return []Promotion{
		Promotion{ID: 1, Title: "春节大促", Summary: "全场折扣", StartDate: "2025-01-01", EndDate: "2025-01-20", Category: "seasonal", Tags: []string{"sale"}, CurrentPrice: price(80), OriginalPrice: price(100)}.WithStatus(classifyNow, DefaultEndingSoonDays),
		Promotion{ID: 2, Title: "清仓特卖", Summary: "最后机会", StartDate: "2025-01-01", EndDate: "2025-01-14", Category: "clearance", Tags: []string{"sale", "last-chance"}}.WithStatus(classifyNow, DefaultEndingSoonDays),
		Promotion{ID: 3, Title: "新品预告", Summary: "敬请期待", StartDate: "2025-02-01", EndDate: "2025-02-10", Category: "launch"}.WithStatus(classifyNow, DefaultEndingSoonDays),
		Promotion{ID: 4, Title: "元旦促销", Summary: "已结束", StartDate: "2024-12-25", EndDate: "2025-01-05", Category: "seasonal"}.WithStatus(classifyNow, DefaultEndingSoonDays),
		Promotion{ID: 5, Title: "神秘活动", Summary: "时间未定"}.WithStatus(classifyNow, DefaultEndingSoonDays),
	}
}

func idsOf(items []Promotion) []int {
	out := make([]int, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestSortPromotionsByStatus_UrgencyOrder(t *testing.T) {
	sorted := SortPromotionsByStatus(promoFixtures())
	// ending-soon, active, upcoming, ended, unknown.
	assert.Equal(t, []int{2, 1, 3, 4, 5}, idsOf(sorted))
}

func TestSortPromotionsByStatus_EndedMostRecentFirst(t *testing.T) {
	items := []Promotion{
		{ID: 1, StartDate: "2024-11-01", EndDate: "2024-11-10"},
		{ID: 2, StartDate: "2024-12-01", EndDate: "2024-12-10"},
	}
	for i := range items {
		items[i] = items[i].WithStatus(classifyNow, DefaultEndingSoonDays)
	}
	sorted := SortPromotionsByStatus(items)
	assert.Equal(t, []int{2, 1}, idsOf(sorted))
}

func TestSortPromotionsByStatus_InputUntouched(t *testing.T) {
	items := promoFixtures()
	before := idsOf(items)
	SortPromotionsByStatus(items)
	assert.Equal(t, before, idsOf(items))
}

func TestSortPromotions_Priority(t *testing.T) {
	one, nine := 1, 9
	items := []Promotion{
		{ID: 1},
		{ID: 2, Priority: &nine},
		{ID: 3, Priority: &one},
	}
	sorted := SortPromotions(items, SortPriority)
	// Missing priority sorts last via the default value.
	assert.Equal(t, []int{3, 2, 1}, idsOf(sorted))
}

func TestSortPromotions_Featured(t *testing.T) {
	items := []Promotion{{ID: 1}, {ID: 2, IsFeatured: true}, {ID: 3}}
	sorted := SortPromotions(items, SortFeatured)
	assert.Equal(t, []int{2, 1, 3}, idsOf(sorted))
}

func TestFilterPromotions_AndSemantics(t *testing.T) {
	got := FilterPromotions(promoFixtures(), PromotionFilters{
		Category: "seasonal",
		Status:   StatusActive,
	})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestFilterPromotions_TagsIntersect(t *testing.T) {
	got := FilterPromotions(promoFixtures(), PromotionFilters{Tags: []string{"last-chance", "absent"}})
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestFilterPromotions_HasDiscount(t *testing.T) {
	got := FilterPromotions(promoFixtures(), PromotionFilters{HasDiscount: true})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestFilterPromotions_PriceRangeNeedsCurrentPrice(t *testing.T) {
	got := FilterPromotions(promoFixtures(), PromotionFilters{PriceRange: &PriceRange{Min: 0, Max: 100}})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestPromotionFilters_ActiveCount(t *testing.T) {
	f := PromotionFilters{Search: "促", Status: StatusActive, Tags: []string{"sale"}}
	assert.Equal(t, 3, f.ActiveCount())
	assert.Equal(t, 0, PromotionFilters{}.ActiveCount())
}
