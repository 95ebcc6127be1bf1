// Package server exposes the catalog engine and the render pipeline over
// HTTP. Every endpoint degrades to an empty result when its collaborator
// is missing, a broken product feed must never take the page down.
package server

import (
	"net/http"

	"github.com/archin/storefront/pkg/animate"
	"github.com/archin/storefront/pkg/cart"
	"github.com/archin/storefront/pkg/catalog"
	"github.com/archin/storefront/pkg/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_queries_total",
		Help: "The total number of catalog filter/sort/page queries",
	})
	fragmentRenders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_fragment_renders_total",
		Help: "The total number of rendered HTML fragments",
	})
	cartUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_updates_total",
		Help: "The total number of cart counter updates",
	})
)

type WebServer struct {
	Engine   *catalog.Engine
	Loader   *render.Loader
	Renderer *render.Renderer
	Cart     *cart.CartServer
	Slides   *animate.Slideshow
	Typing   *animate.Typing
}

// ClientHandler returns the public API routes.
func (ws *WebServer) ClientHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/catalog", ws.Catalog)
	mux.HandleFunc("/catalog/fragment", ws.CatalogFragment)
	mux.HandleFunc("/catalog/category/{category}", ws.CategoryProducts)
	mux.HandleFunc("/catalog/category/{category}/fragment", ws.CategoryGrid)
	mux.HandleFunc("/categories", ws.Categories)
	mux.HandleFunc("/categories/fragment", ws.CategoryFragment)
	mux.HandleFunc("/popular", ws.Popular)
	mux.HandleFunc("/popular/fragment", ws.PopularFragment)
	mux.HandleFunc("/products/{article}", ws.Product)

	if ws.Cart != nil {
		mux.HandleFunc("GET /cart", ws.Cart.GetCounter)
		mux.HandleFunc("POST /cart/add", func(w http.ResponseWriter, r *http.Request) {
			cartUpdates.Inc()
			ws.Cart.AddToCounter(w, r)
		})
	}

	if ws.Slides != nil {
		mux.HandleFunc("GET /slide", ws.Slide)
		mux.HandleFunc("POST /slide/next", ws.SlideNext)
		mux.HandleFunc("POST /slide/prev", ws.SlidePrev)
	}
	if ws.Typing != nil {
		mux.HandleFunc("GET /typing", ws.TypingFrame)
	}

	return mux
}
