package server

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/archin/storefront/pkg/catalog"
	"github.com/archin/storefront/pkg/common"
	"github.com/archin/storefront/pkg/render"
	"github.com/archin/storefront/pkg/types"
)

// runQuery drives the engine through the state transitions a request
// implies: replace the filter when the bounds changed, re-sort when the
// key changed, then jump to the requested page off the cached sequence.
func (ws *WebServer) runQuery(req *types.CatalogRequest) catalog.Result {
	catalogQueries.Inc()

	current := ws.Engine.Filter()
	if !boundEqual(current.Min, req.Min) || !boundEqual(current.Max, req.Max) {
		ws.Engine.ApplyFilter(req.Min, req.Max)
	}
	if ws.Engine.SortKey() != req.Sort {
		ws.Engine.ApplySort(req.Sort)
	}
	return ws.Engine.GoToPage(req.Page)
}

func boundEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Catalog answers a filter/sort/page query with the visible window and
// the pagination model.
func (ws *WebServer) Catalog(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		if ws.Engine == nil {
			return enc.Encode(catalog.Result{Page: 1, TotalPages: 1, Sort: types.SortPopular})
		}
		req, err := types.CatalogRequestFromHTTP(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return err
		}
		return enc.Encode(ws.runQuery(req))
	})(w, r)
}

type fragmentResponse struct {
	Grid       template.HTML `json:"grid"`
	Pagination template.HTML `json:"pagination"`
	TotalItems int           `json:"totalItems"`
}

// CatalogFragment renders the same query as full product cards plus the
// pagination control, ready to swap into the grid and pagination
// containers.
func (ws *WebServer) CatalogFragment(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		if ws.Engine == nil || ws.Renderer == nil {
			return enc.Encode(fragmentResponse{})
		}
		req, err := types.CatalogRequestFromHTTP(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return err
		}
		result := ws.runQuery(req)

		grid, err := ws.Renderer.Grid(ws.windowProducts(result), render.Full)
		if err != nil {
			return err
		}
		fragmentRenders.Inc()
		return enc.Encode(fragmentResponse{
			Grid:       grid,
			Pagination: result.PaginationHTML(),
			TotalItems: result.TotalItems,
		})
	})(w, r)
}

// windowProducts maps the visible cards back to their products. Cards
// with no backing product (statically authored markup) are skipped, the
// engine already decided their visibility.
func (ws *WebServer) windowProducts(result catalog.Result) []types.Product {
	if ws.Loader == nil {
		return nil
	}
	products := make([]types.Product, 0, len(result.Items))
	for _, card := range result.Items {
		if p, ok := ws.Loader.ByArticle(card.Article); ok {
			products = append(products, p)
		}
	}
	return products
}

// CategoryProducts returns the products of one category, the selection
// the filter buttons drive. "all" and unknown labels behave like the
// loader: everything and nothing respectively.
func (ws *WebServer) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		if ws.Loader == nil {
			return enc.Encode([]types.Product{})
		}
		return enc.Encode(ws.Loader.ByCategory(r.PathValue("category")))
	})(w, r)
}

// CategoryGrid renders the grid scoped to one category. Clicking a filter
// button replaces the whole grid content with this fragment.
func (ws *WebServer) CategoryGrid(w http.ResponseWriter, r *http.Request) {
	common.HtmlHandler(func(w http.ResponseWriter, r *http.Request) error {
		if ws.Loader == nil || ws.Renderer == nil {
			return nil
		}
		fragment, err := ws.Renderer.Grid(ws.Loader.ByCategory(r.PathValue("category")), render.Full)
		if err != nil {
			return err
		}
		fragmentRenders.Inc()
		_, err = w.Write([]byte(fragment))
		return err
	})(w, r)
}

// Categories lists the distinct category labels.
func (ws *WebServer) Categories(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		if ws.Loader == nil {
			return enc.Encode([]string{})
		}
		return enc.Encode(ws.Loader.Categories())
	})(w, r)
}

// CategoryFragment renders the category filter control. The active
// category comes from the query so the control can be rebuilt after a
// selection.
func (ws *WebServer) CategoryFragment(w http.ResponseWriter, r *http.Request) {
	common.HtmlHandler(func(w http.ResponseWriter, r *http.Request) error {
		if ws.Loader == nil || ws.Renderer == nil {
			return nil
		}
		fragment, err := ws.Renderer.CategoryFilters(ws.Loader.Categories(), r.URL.Query().Get("active"))
		if err != nil {
			return err
		}
		fragmentRenders.Inc()
		_, err = w.Write([]byte(fragment))
		return err
	})(w, r)
}

// Popular returns the category-diverse selection as products.
func (ws *WebServer) Popular(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		if ws.Loader == nil {
			return enc.Encode([]types.Product{})
		}
		return enc.Encode(ws.Loader.Popular(types.DefaultPageSize))
	})(w, r)
}

// PopularFragment renders the popular selection as compact cards.
func (ws *WebServer) PopularFragment(w http.ResponseWriter, r *http.Request) {
	common.HtmlHandler(func(w http.ResponseWriter, r *http.Request) error {
		if ws.Loader == nil || ws.Renderer == nil {
			return nil
		}
		fragment, err := ws.Renderer.Grid(ws.Loader.Popular(types.DefaultPageSize), render.Compact)
		if err != nil {
			return err
		}
		fragmentRenders.Inc()
		_, err = w.Write([]byte(fragment))
		return err
	})(w, r)
}

// Product renders a single product, full card variant, or 404s.
func (ws *WebServer) Product(w http.ResponseWriter, r *http.Request) {
	common.HtmlHandler(func(w http.ResponseWriter, r *http.Request) error {
		if ws.Loader == nil || ws.Renderer == nil {
			w.WriteHeader(http.StatusNotFound)
			return nil
		}
		p, ok := ws.Loader.ByArticle(r.PathValue("article"))
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return nil
		}
		fragment, err := ws.Renderer.Card(p, render.Full)
		if err != nil {
			return err
		}
		fragmentRenders.Inc()
		_, err = w.Write([]byte(fragment))
		return err
	})(w, r)
}

type slideResponse struct {
	Slide int `json:"slide"`
}

func (ws *WebServer) Slide(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		return enc.Encode(slideResponse{Slide: ws.Slides.Current()})
	})(w, r)
}

func (ws *WebServer) SlideNext(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		return enc.Encode(slideResponse{Slide: ws.Slides.Next()})
	})(w, r)
}

func (ws *WebServer) SlidePrev(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		return enc.Encode(slideResponse{Slide: ws.Slides.Prev()})
	})(w, r)
}

type typingResponse struct {
	Text string `json:"text"`
}

func (ws *WebServer) TypingFrame(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		return enc.Encode(typingResponse{Text: ws.Typing.Frame()})
	})(w, r)
}
