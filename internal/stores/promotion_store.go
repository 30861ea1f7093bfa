package stores

import (
	"catalogd/internal/content"
	"catalogd/internal/models"
	"catalogd/internal/providers"
	"catalogd/internal/structures"
	"context"
	"fmt"
	"sync"
	"time"
)

const KindPromotions = "promotions"

// PromotionStore caches the promotion collection. Every projection
// recomputes the derived (status, statusText) pair against the current
// clock; the pair is never written back to the collection.
type PromotionStore struct {
	coll collection[models.Promotion]

	endingSoonDays int
	now            func() time.Time

	mu      sync.RWMutex
	filters models.PromotionFilters
	sortBy  models.SortOption
}

func NewPromotionStore(conf *structures.Config, fetcher content.Fetcher, logger providers.Logger) *PromotionStore {
	days := conf.Content.EndingSoonDays
	if days <= 0 {
		days = models.DefaultEndingSoonDays
	}
	return &PromotionStore{
		coll:           newCollection[models.Promotion](fetcher, logger, content.PathPromotions, KindPromotions),
		endingSoonDays: days,
		now:            time.Now,
	}
}

func (s *PromotionStore) Load(ctx context.Context) error { return s.coll.load(ctx) }
func (s *PromotionStore) Invalidate()                    { s.coll.invalidate() }
func (s *PromotionStore) Initialized() bool              { return s.coll.isInitialized() }
func (s *PromotionStore) Loading() bool                  { return s.coll.isLoading() }
func (s *PromotionStore) Err() string                    { return s.coll.err() }
func (s *PromotionStore) Count() int                     { return s.coll.count() }

// Processed returns the collection with derived statuses attached.
func (s *PromotionStore) Processed() []models.Promotion {
	items := s.coll.snapshot()
	now := s.now()
	for i := range items {
		items[i] = items[i].WithStatus(now, s.endingSoonDays)
	}
	return items
}

func (s *PromotionStore) GetByID(id int) (models.Promotion, bool) {
	p, ok := s.coll.find(func(p models.Promotion) bool { return p.ID == id })
	if !ok {
		return models.Promotion{}, false
	}
	return p.WithStatus(s.now(), s.endingSoonDays), true
}

func (s *PromotionStore) SetSearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Search = q
}

func (s *PromotionStore) SetStatus(status models.PromotionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Status = status
}

func (s *PromotionStore) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Category = category
}

func (s *PromotionStore) SetTags(tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Tags = tags
}

func (s *PromotionStore) SetHasDiscount(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.HasDiscount = v
}

func (s *PromotionStore) SetPriceRange(r *models.PriceRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.PriceRange = r
}

func (s *PromotionStore) ClearAllFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = models.PromotionFilters{}
}

func (s *PromotionStore) Filters() models.PromotionFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetSortBy overrides the default status ordering. An empty option
// restores it.
func (s *PromotionStore) SetSortBy(opt models.SortOption) error {
	if opt != "" && !models.PromotionSortOptions[opt] {
		return fmt.Errorf("sort option %q not supported for promotions", opt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortBy = opt
	return nil
}

func (s *PromotionStore) SortBy() models.SortOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortBy
}

func (s *PromotionStore) Filtered() []models.Promotion {
	return models.FilterPromotions(s.Processed(), s.Filters())
}

// Sorted returns the filtered promotions in status-urgency order, or by
// the explicit sort key when one is set.
func (s *PromotionStore) Sorted() []models.Promotion {
	filtered := s.Filtered()
	if by := s.SortBy(); by != "" {
		return models.SortPromotions(filtered, by)
	}
	return models.SortPromotionsByStatus(filtered)
}

func (s *PromotionStore) ActiveFilterCount() int {
	return s.Filters().ActiveCount()
}

func (s *PromotionStore) byStatus(status models.PromotionStatus) []models.Promotion {
	result := make([]models.Promotion, 0)
	for _, p := range s.Processed() {
		if p.Status == status {
			result = append(result, p)
		}
	}
	return result
}

func (s *PromotionStore) Active() []models.Promotion   { return s.byStatus(models.StatusActive) }
func (s *PromotionStore) Upcoming() []models.Promotion { return s.byStatus(models.StatusUpcoming) }
func (s *PromotionStore) Ended() []models.Promotion    { return s.byStatus(models.StatusEnded) }

func (s *PromotionStore) Featured() []models.Promotion {
	result := make([]models.Promotion, 0)
	for _, p := range s.Processed() {
		if p.IsFeatured {
			result = append(result, p)
		}
	}
	return result
}
