package controllers

import (
	"catalogd/internal/models"
	"catalogd/internal/pagination"
	"catalogd/internal/providers"
	"catalogd/internal/services"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	json "github.com/goccy/go-json"
)

const maxPageSize = 100

// pageIDPattern limits page ids to safe path segments.
var pageIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type ApiController struct {
	logger  providers.Logger
	catalog services.CatalogServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, catalog services.CatalogServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		catalog: catalog,
		cache:   cache,
	}
}

type listResponse[T any] struct {
	Items         []T             `json:"items"`
	Pagination    pagination.Info `json:"pagination"`
	ActiveFilters int             `json:"activeFilters"`
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func cacheKey(r *http.Request) string {
	return r.URL.Path + "?" + r.URL.Query().Encode()
}

func paginate[T any](items []T, q url.Values) ([]T, pagination.Info) {
	size := pagination.DefaultPageSize
	if v, err := strconv.Atoi(q.Get("size")); err == nil && v > 0 {
		size = min(v, maxPageSize)
	}
	p := pagination.New(func() []T { return items }, size)
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		p.GoToPage(v)
	}
	return p.Items(), p.Info()
}

func parsePriceRange(q url.Values) (*models.PriceRange, error) {
	minRaw, maxRaw := q.Get("minPrice"), q.Get("maxPrice")
	if minRaw == "" && maxRaw == "" {
		return nil, nil
	}
	r := &models.PriceRange{Min: 0, Max: 1e12}
	if minRaw != "" {
		v, err := strconv.ParseFloat(minRaw, 64)
		if err != nil {
			return nil, err
		}
		r.Min = v
	}
	if maxRaw != "" {
		v, err := strconv.ParseFloat(maxRaw, 64)
		if err != nil {
			return nil, err
		}
		r.Max = v
	}
	return r, nil
}

func parseSort(q url.Values, allowed map[models.SortOption]bool, fallback models.SortOption) (models.SortOption, error) {
	raw := q.Get("sort")
	if raw == "" {
		return fallback, nil
	}
	opt, err := models.ParseSortOption(raw)
	if err != nil {
		return "", err
	}
	if !allowed[opt] {
		return "", fmt.Errorf("sort option %q not supported here", opt)
	}
	return opt, nil
}

// loadOr503 triggers the store's idempotent load for the request and
// reports failure to the client as service-unavailable with the store's
// recorded error.
func loadOr503(w http.ResponseWriter, load func() error, storeErr func() string) bool {
	if err := load(); err != nil {
		msg := storeErr()
		if msg == "" {
			msg = err.Error()
		}
		http.Error(w, msg, http.StatusServiceUnavailable)
		return false
	}
	return true
}

func (ac *ApiController) GetProducts(w http.ResponseWriter, r *http.Request) {
	store := ac.catalog.Products()
	if !loadOr503(w, func() error { return store.Load(r.Context()) }, store.Err) {
		return
	}

	q := r.URL.Query()
	priceRange, err := parsePriceRange(q)
	if err != nil {
		http.Error(w, "invalid price range", http.StatusBadRequest)
		return
	}
	sortBy, err := parseSort(q, models.ProductSortOptions, models.SortNameAsc)
	if err != nil {
		http.Error(w, "unknown sort option", http.StatusBadRequest)
		return
	}

	filters := models.ProductFilters{
		Search:      q.Get("search"),
		CategoryID:  q.Get("category"),
		Brand:       q.Get("brand"),
		PriceRange:  priceRange,
		InStock:     q.Get("inStock") == "true",
		HasDiscount: q.Get("discount") == "true",
	}

	ac.serveFromCacheOrCompute(w, cacheKey(r), func() (any, error) {
		sorted := models.SortProducts(models.FilterProducts(store.Items(), filters), sortBy)
		items, info := paginate(sorted, q)
		return listResponse[models.Product]{Items: items, Pagination: info, ActiveFilters: filters.ActiveCount()}, nil
	})
}

func (ac *ApiController) GetProduct(w http.ResponseWriter, r *http.Request) {
	store := ac.catalog.Products()
	if !loadOr503(w, func() error { return store.Load(r.Context()) }, store.Err) {
		return
	}

	id := r.URL.Query().Get("id")
	product, ok := store.GetByID(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	// Resolve the weak references for the detail view. Both degrade
	// gracefully when the target record does not exist.
	type productDetail struct {
		Product      models.Product `json:"product"`
		CategoryName string         `json:"categoryName"`
		Brand        *models.Brand  `json:"brand,omitempty"`
	}
	_ = ac.catalog.Categories().Load(r.Context())
	_ = ac.catalog.Brands().Load(r.Context())
	detail := productDetail{
		Product:      product,
		CategoryName: ac.catalog.CategoryName(product.CategoryID),
	}
	if brand, ok := ac.catalog.BrandOf(product); ok {
		detail.Brand = &brand
	}

	ac.serveFromCacheOrCompute(w, cacheKey(r), func() (any, error) {
		return detail, nil
	})
}

func (ac *ApiController) GetCategories(w http.ResponseWriter, r *http.Request) {
	store := ac.catalog.Categories()
	if !loadOr503(w, func() error { return store.Load(r.Context()) }, store.Err) {
		return
	}

	ac.serveFromCacheOrCompute(w, cacheKey(r), func() (any, error) {
		return store.Items(), nil
	})
}

func (ac *ApiController) GetCategory(w http.ResponseWriter, r *http.Request) {
	store := ac.catalog.Categories()
	if !loadOr503(w, func() error { return store.Load(r.Context()) }, store.Err) {
		return
	}

	category, ok := store.GetByID(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	// The product listing degrades to empty when its load fails.
	_ = ac.catalog.Products().Load(r.Context())

	ac.serveFromCacheOrCompute(w, cacheKey(r), func() (any, error) {
		type categoryDetail struct {
			Category models.Category  `json:"category"`
			Products []models.Product `json:"products"`
		}
		return categoryDetail{
			Category: category,
			Products: ac.catalog.Products().ByCategory(category.ID),
		}, nil
	})
}

func (ac *ApiController) GetBrands(w http.ResponseWriter, r *http.Request) {
	store := ac.catalog.Brands()
	if !loadOr503(w, func() error { return store.Load(r.Context()) }, store.Err) {
		return
	}

	q := r.URL.Query()
	sortBy, err := parseSort(q, models.BrandSortOptions, models.SortPriority)
	if err != nil {
		http.Error(w, "unknown sort option", http.StatusBadRequest)
		return
	}

	filters := models.BrandFilters{
		Search:      q.Get("search"),
		Category:    q.Get("category"),
		Alphabet:    q.Get("alphabet"),
		Country:     q.Get("country"),
		HasProducts: q.Get("hasProducts") == "true",
		Featured:    q.Get("featured") == "true",
	}

	ac.serveFromCacheOrCompute(w, cacheKey(r), func() (any, error) {
		sorted := models.SortBrands(models.FilterBrands(store.Items(), filters), sortBy)
		items, info := paginate(sorted, q)
		return listResponse[models.Brand]{Items: items, Pagination: info, ActiveFilters: filters.ActiveCount()}, nil
	})
}

func (ac *ApiController) GetBrand(w http.ResponseWriter, r *http.Request) {
	store := ac.catalog.Brands()
	if !loadOr503(w, func() error { return store.Load(r.Context()) }, store.Err) {
		return
	}

	brand, ok := store.GetByID(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ac.serveFromCacheOrCompute(w, cacheKey(r), func() (any, error) {
		return brand, nil
	})
}

func (ac *ApiController) GetPromotions(w http.ResponseWriter, r *http.Request) {
	store := ac.catalog.Promotions()
	if !loadOr503(w, func() error { return store.Load(r.Context()) }, store.Err) {
		return
	}

	q := r.URL.Query()
	var status models.PromotionStatus
	if raw := q.Get("status"); raw != "" {
		parsed, ok := models.ParsePromotionStatus(raw)
		if !ok {
			http.Error(w, "unknown promotion status", http.StatusBadRequest)
			return
		}
		status = parsed
	}
	if raw := q.Get("sort"); raw != "" {
		if opt, err := models.ParseSortOption(raw); err != nil || !models.PromotionSortOptions[opt] {
			http.Error(w, "unknown sort option", http.StatusBadRequest)
			return
		}
	}

	filters := models.PromotionFilters{
		Search:      q.Get("search"),
		Status:      status,
		Category:    q.Get("category"),
		Tags:        q["tag"],
		HasDiscount: q.Get("discount") == "true",
	}

	// Promotion listings are clock-dependent, so they bypass the
	// response cache: a cached page could report a stale status
	// around a day boundary.
	result := models.FilterPromotions(store.Processed(), filters)
	if raw := q.Get("sort"); raw != "" {
		opt, _ := models.ParseSortOption(raw)
		result = models.SortPromotions(result, opt)
	} else {
		result = models.SortPromotionsByStatus(result)
	}
	items, info := paginate(result, q)

	respondJSON(w, http.StatusOK, listResponse[models.Promotion]{
		Items: items, Pagination: info, ActiveFilters: filters.ActiveCount(),
	})
}

func (ac *ApiController) GetPromotion(w http.ResponseWriter, r *http.Request) {
	store := ac.catalog.Promotions()
	if !loadOr503(w, func() error { return store.Load(r.Context()) }, store.Err) {
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "invalid promotion id", http.StatusBadRequest)
		return
	}
	promotion, ok := store.GetByID(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, promotion)
}

func (ac *ApiController) GetSiteInfo(w http.ResponseWriter, r *http.Request) {
	store := ac.catalog.Config()
	if !loadOr503(w, func() error { return store.LoadSiteInfo(r.Context()) }, store.Err) {
		return
	}

	info, _ := store.SiteInfo()
	ac.serveFromCacheOrCompute(w, cacheKey(r), func() (any, error) {
		return info, nil
	})
}

func (ac *ApiController) GetPage(w http.ResponseWriter, r *http.Request) {
	pageID := r.URL.Query().Get("id")
	if !pageIDPattern.MatchString(pageID) {
		http.Error(w, "invalid page id", http.StatusBadRequest)
		return
	}

	page, err := ac.catalog.Config().Page(r.Context(), pageID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	ac.serveFromCacheOrCompute(w, cacheKey(r), func() (any, error) {
		return page, nil
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
