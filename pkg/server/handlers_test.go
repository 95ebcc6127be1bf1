package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/archin/storefront/pkg/animate"
	"github.com/archin/storefront/pkg/cart"
	"github.com/archin/storefront/pkg/catalog"
	"github.com/archin/storefront/pkg/render"
	"github.com/archin/storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []types.Product {
	return []types.Product{
		{Article: "P-1", Name: "Штукатурка", Category: "Штукатурки", Price: 449, Description: "<b>30 кг</b>"},
		{Article: "P-2", Name: "Шпатлевка", Category: "Шпатлевки", Price: 1299},
		{Article: "P-3", Name: "Краска", Category: "Краски", Price: 2500},
		{Article: "P-4", Name: "Грунт", Category: "Грунты", Price: 350},
		{Article: "P-5", Name: "Клей", Category: "Плиточные клеи", Price: 800},
		{Article: "P-6", Name: "Гидроизоляция", Category: "Гидроизоляция", Price: 1800},
		{Article: "P-7", Name: "Штукатурка цементная", Category: "Штукатурки", Price: 520},
	}
}

func testServer() *WebServer {
	loader := render.NewLoader("")
	loader.SetProducts(testProducts())
	return &WebServer{
		Engine:   catalog.NewEngine(render.CardsFor(loader.Products()), types.DefaultPageSize),
		Loader:   loader,
		Renderer: render.NewRenderer("sales@example.ru"),
		Cart:     &cart.CartServer{Storage: cart.NewMemoryCounterStorage()},
		Slides:   animate.NewSlideshow(3),
		Typing:   animate.NewTyping([]string{"Продукция"}),
	}
}

func getJSON(t *testing.T, handler http.Handler, url string, out any) *httptest.ResponseRecorder {
	t.Helper()
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, res.Code, "GET %s", url)
	require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	return res
}

func TestCatalogQuery(t *testing.T) {
	handler := testServer().ClientHandler()

	var result catalog.Result
	getJSON(t, handler, "/catalog?min=400&max=1300&sort=price-asc", &result)

	require.Len(t, result.Items, 4)
	assert.Equal(t, "P-1", result.Items[0].Article) // 449
	assert.Equal(t, "P-2", result.Items[3].Article) // 1299
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.TotalPages)
	assert.Empty(t, result.Pagination, "single page renders no controls")
}

func TestCatalogPaging(t *testing.T) {
	handler := testServer().ClientHandler()

	var result catalog.Result
	getJSON(t, handler, "/catalog?page=2", &result)

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "P-7", result.Items[0].Article)

	// past the end clamps
	getJSON(t, handler, "/catalog?page=9", &result)
	assert.Equal(t, 2, result.Page)
}

func TestCatalogFragment(t *testing.T) {
	handler := testServer().ClientHandler()

	var fragment fragmentResponse
	getJSON(t, handler, "/catalog/fragment?max=500", &fragment)

	assert.Equal(t, 2, fragment.TotalItems)
	assert.Contains(t, string(fragment.Grid), `data-article="P-1"`)
	assert.Contains(t, string(fragment.Grid), `data-article="P-4"`)
	assert.NotContains(t, string(fragment.Grid), `data-article="P-3"`)
	assert.Empty(t, string(fragment.Pagination))
}

func TestCategories(t *testing.T) {
	handler := testServer().ClientHandler()

	var categories []string
	getJSON(t, handler, "/categories", &categories)
	assert.Equal(t, []string{"Штукатурки", "Шпатлевки", "Краски", "Грунты", "Плиточные клеи", "Гидроизоляция"}, categories)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/categories/fragment?active=Краски", nil))
	require.Equal(t, http.StatusOK, res.Code)
	html := res.Body.String()
	assert.Contains(t, html, `data-category="all"`)
	assert.Contains(t, html, `filter-btn active" data-category="Краски"`)
	assert.Equal(t, 7, strings.Count(html, "filter-btn"))
}

func TestCategoryScopedGrid(t *testing.T) {
	handler := testServer().ClientHandler()

	res := httptest.NewRecorder()
	target := "/catalog/category/" + url.PathEscape("Штукатурки") + "/fragment"
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, res.Code)
	html := res.Body.String()
	assert.Equal(t, 2, strings.Count(html, "<article"))
	assert.Contains(t, html, `data-article="P-1"`)
	assert.Contains(t, html, `data-article="P-7"`)
	assert.NotContains(t, html, `data-article="P-2"`)

	// the "all" button restores the unscoped grid
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/catalog/category/all/fragment", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 7, strings.Count(res.Body.String(), "<article"))

	// an unknown category legitimately renders an empty grid
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/catalog/category/Unknown/fragment", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Empty(t, res.Body.String())
}

func TestCategoryProducts(t *testing.T) {
	handler := testServer().ClientHandler()

	var products []types.Product
	getJSON(t, handler, "/catalog/category/"+url.PathEscape("Краски"), &products)
	require.Len(t, products, 1)
	assert.Equal(t, "P-3", products[0].Article)
}

func TestPopularFragmentIsCompact(t *testing.T) {
	handler := testServer().ClientHandler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/popular/fragment", nil))
	require.Equal(t, http.StatusOK, res.Code)
	html := res.Body.String()
	assert.Equal(t, 6, strings.Count(html, "<article"))
	assert.NotContains(t, html, "product-desc")
}

func TestProductLookup(t *testing.T) {
	handler := testServer().ClientHandler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/products/P-1", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "product-card-full")
	assert.Contains(t, res.Body.String(), "30 кг")

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/products/missing", nil))
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestMissingCollaboratorsDegradeToEmpty(t *testing.T) {
	ws := &WebServer{}
	handler := ws.ClientHandler()

	var result catalog.Result
	getJSON(t, handler, "/catalog", &result)
	assert.Empty(t, result.Items)
	assert.Equal(t, 1, result.TotalPages)

	var fragment fragmentResponse
	getJSON(t, handler, "/catalog/fragment", &fragment)
	assert.Empty(t, string(fragment.Grid))
}

func TestSlideNavigation(t *testing.T) {
	handler := testServer().ClientHandler()

	var slide slideResponse
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/slide/next", nil))
	require.NoError(t, json.NewDecoder(res.Body).Decode(&slide))
	assert.Equal(t, 1, slide.Slide)

	getJSON(t, handler, "/slide", &slide)
	assert.Equal(t, 1, slide.Slide)
}
