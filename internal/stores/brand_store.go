package stores

import (
	"catalogd/internal/content"
	"catalogd/internal/models"
	"catalogd/internal/providers"
	"context"
	"fmt"
	"sync"
)

const KindBrands = "brands"

type BrandStore struct {
	coll collection[models.Brand]

	mu      sync.RWMutex
	filters models.BrandFilters
	sortBy  models.SortOption
}

func NewBrandStore(fetcher content.Fetcher, logger providers.Logger) *BrandStore {
	return &BrandStore{
		coll:   newCollection[models.Brand](fetcher, logger, content.PathBrands, KindBrands),
		sortBy: models.SortPriority,
	}
}

func (s *BrandStore) Load(ctx context.Context) error { return s.coll.load(ctx) }
func (s *BrandStore) Invalidate()                    { s.coll.invalidate() }
func (s *BrandStore) Initialized() bool              { return s.coll.isInitialized() }
func (s *BrandStore) Loading() bool                  { return s.coll.isLoading() }
func (s *BrandStore) Err() string                    { return s.coll.err() }
func (s *BrandStore) Count() int                     { return s.coll.count() }
func (s *BrandStore) Items() []models.Brand          { return s.coll.snapshot() }

func (s *BrandStore) GetByID(id string) (models.Brand, bool) {
	return s.coll.find(func(b models.Brand) bool { return b.ID == id })
}

// GetByName resolves the weak brand reference carried by products.
func (s *BrandStore) GetByName(name string) (models.Brand, bool) {
	return s.coll.find(func(b models.Brand) bool { return b.Name == name })
}

func (s *BrandStore) SetSearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Search = q
}

func (s *BrandStore) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Category = category
}

func (s *BrandStore) SetAlphabet(letter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Alphabet = letter
}

func (s *BrandStore) SetCountry(country string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Country = country
}

func (s *BrandStore) SetHasProducts(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.HasProducts = v
}

func (s *BrandStore) SetFeatured(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Featured = v
}

func (s *BrandStore) ClearAllFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = models.BrandFilters{}
}

func (s *BrandStore) Filters() models.BrandFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *BrandStore) SetSortBy(opt models.SortOption) error {
	if !models.BrandSortOptions[opt] {
		return fmt.Errorf("sort option %q not supported for brands", opt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortBy = opt
	return nil
}

func (s *BrandStore) SortBy() models.SortOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortBy
}

func (s *BrandStore) Filtered() []models.Brand {
	return models.FilterBrands(s.coll.snapshot(), s.Filters())
}

func (s *BrandStore) Sorted() []models.Brand {
	return models.SortBrands(s.Filtered(), s.SortBy())
}

func (s *BrandStore) ActiveFilterCount() int {
	return s.Filters().ActiveCount()
}

func (s *BrandStore) OwnBrands() []models.Brand {
	own, _ := models.PartitionOwnership(s.coll.snapshot())
	return own
}

func (s *BrandStore) AgentBrands() []models.Brand {
	_, agent := models.PartitionOwnership(s.coll.snapshot())
	return agent
}

func (s *BrandStore) DomesticBrands() []models.Brand {
	domestic, _ := models.PartitionOrigin(s.coll.snapshot())
	return domestic
}

func (s *BrandStore) InternationalBrands() []models.Brand {
	_, international := models.PartitionOrigin(s.coll.snapshot())
	return international
}
