package services

import (
	"catalogd/internal/content"
	"catalogd/internal/models"
	"catalogd/internal/providers"
	"catalogd/internal/stores"
	"catalogd/internal/structures"
	"context"
	"errors"
	"time"
)

// CatalogServiceInterface owns one instance of every content store and
// is the only place cross-store weak references get resolved.
type CatalogServiceInterface interface {
	LoadAll(ctx context.Context) error
	Refresh(ctx context.Context) error
	Products() *stores.ProductStore
	Brands() *stores.BrandStore
	Categories() *stores.CategoryStore
	Promotions() *stores.PromotionStore
	Config() *stores.ConfigStore
	CategoryName(id string) string
	BrandOf(p models.Product) (models.Brand, bool)
	EntityCounts() map[string]int
}

type CatalogService struct {
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	products   *stores.ProductStore
	brands     *stores.BrandStore
	categories *stores.CategoryStore
	promotions *stores.PromotionStore
	config     *stores.ConfigStore
}

func NewCatalogService(conf *structures.Config, fetcher content.Fetcher, logger providers.Logger, metrics providers.MetricsProviderInterface) CatalogServiceInterface {
	return &CatalogService{
		logger:     logger,
		metrics:    metrics,
		products:   stores.NewProductStore(fetcher, logger),
		brands:     stores.NewBrandStore(fetcher, logger),
		categories: stores.NewCategoryStore(fetcher, logger),
		promotions: stores.NewPromotionStore(conf, fetcher, logger),
		config:     stores.NewConfigStore(fetcher, logger),
	}
}

// LoadAll loads every collection. A failing collection does not stop
// the others; the individual stores keep their own error state and the
// joined error is reported for logging.
func (s *CatalogService) LoadAll(ctx context.Context) error {
	return errors.Join(
		s.timed(stores.KindCategories, func() error { return s.categories.Load(ctx) }),
		s.timed(stores.KindProducts, func() error { return s.products.Load(ctx) }),
		s.timed(stores.KindBrands, func() error { return s.brands.Load(ctx) }),
		s.timed(stores.KindPromotions, func() error { return s.promotions.Load(ctx) }),
		s.config.LoadSiteInfo(ctx),
	)
}

func (s *CatalogService) timed(kind string, load func() error) error {
	start := time.Now()
	err := load()
	s.metrics.ObserveContentLoadDuration(kind, time.Since(start))
	return err
}

// Refresh drops every collection and reloads, picking up regenerated
// content files.
func (s *CatalogService) Refresh(ctx context.Context) error {
	s.categories.Invalidate()
	s.products.Invalidate()
	s.brands.Invalidate()
	s.promotions.Invalidate()
	s.config.Invalidate()
	return s.LoadAll(ctx)
}

func (s *CatalogService) Products() *stores.ProductStore     { return s.products }
func (s *CatalogService) Brands() *stores.BrandStore         { return s.brands }
func (s *CatalogService) Categories() *stores.CategoryStore  { return s.categories }
func (s *CatalogService) Promotions() *stores.PromotionStore { return s.promotions }
func (s *CatalogService) Config() *stores.ConfigStore        { return s.config }

// CategoryName resolves a product's weak category reference, degrading
// to the uncategorized label.
func (s *CatalogService) CategoryName(id string) string {
	return s.categories.Name(id)
}

// BrandOf resolves a product's weak brand-by-name reference.
func (s *CatalogService) BrandOf(p models.Product) (models.Brand, bool) {
	if p.Brand == "" {
		return models.Brand{}, false
	}
	return s.brands.GetByName(p.Brand)
}

func (s *CatalogService) EntityCounts() map[string]int {
	return map[string]int{
		stores.KindProducts:   s.products.Count(),
		stores.KindBrands:     s.brands.Count(),
		stores.KindCategories: s.categories.Count(),
		stores.KindPromotions: s.promotions.Count(),
	}
}
