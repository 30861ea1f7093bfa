package stores

import (
	"catalogd/internal/content"
	"catalogd/internal/models"
	"catalogd/internal/providers"
	"context"
	"fmt"
	"sync"
)

const KindProducts = "products"

// ProductStore caches the product collection and derives filtered and
// sorted projections. Projections recompute on every read; the source
// collection is never mutated by them.
type ProductStore struct {
	coll collection[models.Product]

	mu      sync.RWMutex
	filters models.ProductFilters
	sortBy  models.SortOption
}

func NewProductStore(fetcher content.Fetcher, logger providers.Logger) *ProductStore {
	return &ProductStore{
		coll:   newCollection[models.Product](fetcher, logger, content.PathProducts, KindProducts),
		sortBy: models.SortNameAsc,
	}
}

func (s *ProductStore) Load(ctx context.Context) error { return s.coll.load(ctx) }
func (s *ProductStore) Invalidate()                    { s.coll.invalidate() }
func (s *ProductStore) Initialized() bool              { return s.coll.isInitialized() }
func (s *ProductStore) Loading() bool                  { return s.coll.isLoading() }
func (s *ProductStore) Err() string                    { return s.coll.err() }
func (s *ProductStore) Count() int                     { return s.coll.count() }
func (s *ProductStore) Items() []models.Product        { return s.coll.snapshot() }

func (s *ProductStore) GetByID(id string) (models.Product, bool) {
	return s.coll.find(func(p models.Product) bool { return p.ID == id })
}

func (s *ProductStore) SetSearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Search = q
}

func (s *ProductStore) SetCategoryID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.CategoryID = id
}

func (s *ProductStore) SetBrand(brand string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Brand = brand
}

func (s *ProductStore) SetPriceRange(r *models.PriceRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.PriceRange = r
}

func (s *ProductStore) SetInStock(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.InStock = v
}

func (s *ProductStore) SetHasDiscount(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.HasDiscount = v
}

func (s *ProductStore) ClearAllFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = models.ProductFilters{}
}

func (s *ProductStore) Filters() models.ProductFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetSortBy replaces the active sort key. Keys outside the product
// subset are rejected rather than silently ignored.
func (s *ProductStore) SetSortBy(opt models.SortOption) error {
	if !models.ProductSortOptions[opt] {
		return fmt.Errorf("sort option %q not supported for products", opt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortBy = opt
	return nil
}

func (s *ProductStore) SortBy() models.SortOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortBy
}

func (s *ProductStore) Filtered() []models.Product {
	return models.FilterProducts(s.coll.snapshot(), s.Filters())
}

func (s *ProductStore) Sorted() []models.Product {
	return models.SortProducts(s.Filtered(), s.SortBy())
}

func (s *ProductStore) ActiveFilterCount() int {
	return s.Filters().ActiveCount()
}

// Brands lists the distinct brand names present in the collection.
func (s *ProductStore) Brands() []string {
	return models.DistinctBrands(s.coll.snapshot())
}

// ByCategory returns the products referencing the given category id.
func (s *ProductStore) ByCategory(categoryID string) []models.Product {
	return models.FilterProducts(s.coll.snapshot(), models.ProductFilters{CategoryID: categoryID})
}
