package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogd/internal/content"
	"catalogd/internal/models"
	"catalogd/internal/services"
	"catalogd/internal/structures"
	"catalogd/internal/testutil"
)

func seedFetcher() *testutil.MockFetcher {
	fetcher := testutil.NewMockFetcher()
	fetcher.Docs[content.PathProducts] = `[
		{"id":"p1","name":"苹果","categoryId":"fruit","brand":"嘉农","currentPrice":8,"originalPrice":10,"stock":3},
		{"id":"p2","name":"香蕉","categoryId":"fruit","brand":"都乐","currentPrice":5,"stock":0},
		{"id":"p3","name":"黄油","categoryId":"dairy","brand":"Anchor","originalPrice":45,"stock":12}
	]`
	fetcher.Docs[content.PathCategories] = `[
		{"id":"fruit","name":"水果"},
		{"id":"dairy","name":"乳制品"}
	]`
	fetcher.Docs[content.PathBrands] = `[
		{"id":"b1","name":"嘉农","country":"中国","is_own":true,"priority":1},
		{"id":"b2","name":"Anchor","country":"新西兰","product_count":3}
	]`
	fetcher.Docs[content.PathPromotions] = `[
		{"id":1,"title":"年度特卖","summary":"长期活动","start_date":"2020-01-01","end_date":"2099-12-31","is_featured":true},
		{"id":2,"title":"历史活动","summary":"早已结束","start_date":"2001-01-01","end_date":"2001-02-01"}
	]`
	fetcher.Docs[content.PathSiteInfo] = `{"name":"城市生活超市"}`
	fetcher.Docs[content.PagePath("about")] = `{"title":"关于我们"}`
	return fetcher
}

func newTestApi(t *testing.T) (*ApiController, *testutil.MockFetcher, *testutil.MockCache) {
	t.Helper()
	fetcher := seedFetcher()
	catalog := services.NewCatalogService(&structures.Config{}, fetcher, &testutil.MockLogger{}, testutil.NewMockMetrics())
	cache := testutil.NewMockCache()
	return NewApiController(&testutil.MockLogger{}, catalog, cache), fetcher, cache
}

func doGet(t *testing.T, handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeList[T any](t *testing.T, rr *httptest.ResponseRecorder) listResponse[T] {
	t.Helper()
	var resp listResponse[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestGetProducts_DefaultListing(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetProducts, "/products")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	resp := decodeList[models.Product](t, rr)
	assert.Equal(t, 3, resp.Pagination.TotalItems)
	assert.Equal(t, 0, resp.ActiveFilters)
	// Default sort is name ascending with Chinese collation.
	assert.Equal(t, "黄油", resp.Items[0].Name)
}

func TestGetProducts_FiltersAndPagination(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetProducts, "/products?category=fruit&size=1&page=2&sort=price-asc")

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeList[models.Product](t, rr)
	assert.Equal(t, 2, resp.Pagination.TotalItems)
	assert.Equal(t, 2, resp.Pagination.CurrentPage)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p1", resp.Items[0].ID)
	assert.Equal(t, 1, resp.ActiveFilters)
}

func TestGetProducts_PriceRange(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetProducts, "/products?minPrice=40&maxPrice=50")

	resp := decodeList[models.Product](t, rr)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p3", resp.Items[0].ID)
}

func TestGetProducts_BadPriceRange(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetProducts, "/products?minPrice=abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetProducts_UnknownSortOption(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetProducts, "/products?sort=featured")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetProducts_FetchFailure503(t *testing.T) {
	ac, fetcher, _ := newTestApi(t)
	fetcher.SetErr(content.PathProducts, &content.FetchError{Path: content.PathProducts, Kind: content.FailStatus, Status: 500})

	rr := doGet(t, ac.GetProducts, "/products")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestGetProducts_ResponseCached(t *testing.T) {
	ac, _, cache := newTestApi(t)
	doGet(t, ac.GetProducts, "/products?category=fruit")
	assert.Len(t, cache.Data, 1)

	// A second identical request is served from the cache.
	rr := doGet(t, ac.GetProducts, "/products?category=fruit")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetProduct_DetailResolvesWeakRefs(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetProduct, "/product?id=p1")

	require.Equal(t, http.StatusOK, rr.Code)
	var detail struct {
		Product      models.Product `json:"product"`
		CategoryName string         `json:"categoryName"`
		Brand        *models.Brand  `json:"brand"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, "苹果", detail.Product.Name)
	assert.Equal(t, "水果", detail.CategoryName)
	require.NotNil(t, detail.Brand)
	assert.Equal(t, "b1", detail.Brand.ID)
}

func TestGetProduct_DanglingRefsDegrade(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetProduct, "/product?id=p2")

	var detail struct {
		CategoryName string        `json:"categoryName"`
		Brand        *models.Brand `json:"brand"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	// p2 references a brand with no record of its own.
	assert.Nil(t, detail.Brand)
	assert.Equal(t, "水果", detail.CategoryName)
}

func TestGetProduct_NotFound(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetProduct, "/product?id=p99")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetCategory_WithProducts(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetCategory, "/category?id=fruit")

	require.Equal(t, http.StatusOK, rr.Code)
	var detail struct {
		Category models.Category  `json:"category"`
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, "水果", detail.Category.Name)
	assert.Len(t, detail.Products, 2)
}

func TestGetBrands_SortedByPriorityByDefault(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetBrands, "/brands")

	resp := decodeList[models.Brand](t, rr)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "b1", resp.Items[0].ID)
}

func TestGetBrands_HasProductsFilter(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetBrands, "/brands?hasProducts=true")

	resp := decodeList[models.Brand](t, rr)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "b2", resp.Items[0].ID)
}

func TestGetPromotions_StatusOrderAndDerivedFields(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetPromotions, "/promotions")

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeList[models.Promotion](t, rr)
	require.Len(t, resp.Items, 2)
	// The running promotion sorts ahead of the ended one.
	assert.Equal(t, 1, resp.Items[0].ID)
	assert.Equal(t, models.StatusActive, resp.Items[0].Status)
	assert.Equal(t, "正在进行", resp.Items[0].StatusText)
	assert.Equal(t, models.StatusEnded, resp.Items[1].Status)
}

func TestGetPromotions_StatusFilter(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetPromotions, "/promotions?status=ended")

	resp := decodeList[models.Promotion](t, rr)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].ID)
}

func TestGetPromotions_UnknownStatus400(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetPromotions, "/promotions?status=finished")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetPromotions_NotCached(t *testing.T) {
	ac, _, cache := newTestApi(t)
	doGet(t, ac.GetPromotions, "/promotions")
	assert.Empty(t, cache.Data)
}

func TestGetPromotion_ByID(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetPromotion, "/promotion?id=1")

	require.Equal(t, http.StatusOK, rr.Code)
	var p models.Promotion
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, models.StatusActive, p.Status)
}

func TestGetPromotion_BadID(t *testing.T) {
	ac, _, _ := newTestApi(t)
	assert.Equal(t, http.StatusBadRequest, doGet(t, ac.GetPromotion, "/promotion?id=abc").Code)
	assert.Equal(t, http.StatusNotFound, doGet(t, ac.GetPromotion, "/promotion?id=99").Code)
}

func TestGetSiteInfo(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetSiteInfo, "/site-info")

	require.Equal(t, http.StatusOK, rr.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "城市生活超市", info["name"])
}

func TestGetPage_ValidID(t *testing.T) {
	ac, _, _ := newTestApi(t)
	rr := doGet(t, ac.GetPage, "/page?id=about")

	require.Equal(t, http.StatusOK, rr.Code)
	var page map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, "关于我们", page["title"])
}

func TestGetPage_RejectsUnsafeID(t *testing.T) {
	ac, _, _ := newTestApi(t)
	assert.Equal(t, http.StatusBadRequest, doGet(t, ac.GetPage, "/page?id=..%2Fsecrets").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, ac.GetPage, "/page").Code)
}
