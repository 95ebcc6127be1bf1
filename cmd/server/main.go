package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/archin/storefront/pkg/animate"
	"github.com/archin/storefront/pkg/cart"
	"github.com/archin/storefront/pkg/catalog"
	"github.com/archin/storefront/pkg/common"
	"github.com/archin/storefront/pkg/messaging"
	"github.com/archin/storefront/pkg/render"
	"github.com/archin/storefront/pkg/server"
	"github.com/archin/storefront/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")

var (
	productsUrl   = os.Getenv("PRODUCTS_URL")
	listenAddress = envOr("LISTEN_ADDRESS", ":8080")
	debugAddress  = envOr("DEBUG_ADDRESS", ":8081")
	redisUrl      = os.Getenv("REDIS_URL")
	redisPassword = os.Getenv("REDIS_PASSWORD")
	rabbitUrl     = os.Getenv("RABBIT_URL")
	rabbitVHost   = os.Getenv("RABBIT_VHOST")
	orderEmail    = envOr("ORDER_EMAIL", "olnast.ru@yandex.ru")
)

// headline phrases the search box cycles through
var typingTexts = []string{
	"Продукция ARCHIN 🏗️",
	"Сухие смеси премиум-класса",
	"Гарантия качества",
	"Доставка по Москве",
	"Официальный дилер",
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

var ready atomic.Bool

func main() {
	flag.Parse()

	loader := render.NewLoader(productsUrl)
	srv := &server.WebServer{
		Loader:   loader,
		Renderer: render.NewRenderer(orderEmail),
		Slides:   animate.NewSlideshow(3),
		Typing:   animate.NewTyping(typingTexts),
	}

	var counterStorage cart.CounterStorage
	var redisStorage *cart.RedisCounterStorage
	if redisUrl != "" {
		redisStorage = cart.NewRedisCounterStorage(redisUrl, redisPassword, 0)
		counterStorage = redisStorage
		log.Printf("Cart counter backed by redis, url: %s", redisUrl)
	} else {
		counterStorage = cart.NewMemoryCounterStorage()
		log.Println("No redis url provided, cart counter is in-memory only")
	}
	srv.Cart = &cart.CartServer{Storage: counterStorage}

	var publisher *messaging.Publisher
	if rabbitUrl != "" {
		var err error
		publisher, err = messaging.Connect(rabbitUrl, rabbitVHost, "storefront")
		if err != nil {
			log.Printf("Failed to connect to RabbitMQ, running without fan-out: %v", err)
		} else {
			log.Println("Connected to RabbitMQ")
		}
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if productsUrl == "" {
			log.Println("No products url provided, starting with an empty catalog")
		} else if err := loader.Load(context.Background()); err != nil {
			// the page keeps working over an empty catalog
			log.Printf("Failed to load products: %v", err)
		} else {
			log.Printf("Loaded %d products", len(loader.Products()))
		}

		srv.Engine = catalog.NewEngine(render.CardsFor(loader.Products()), types.DefaultPageSize)

		if publisher != nil {
			err := publisher.PublishCatalogLoaded(context.Background(), messaging.CatalogLoaded{
				Products:   len(loader.Products()),
				Categories: loader.Categories(),
			})
			if err != nil {
				log.Printf("Failed to publish catalog_loaded: %v", err)
			}
		}
		ready.Store(true)
	}()

	srv.Slides.StartAutoplay()
	typingTask := animate.Start(time.Millisecond, srv.Typing.Step)

	debugMux := http.NewServeMux()
	debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	debugMux.Handle("/metrics", promhttp.Handler())
	if enableProfiling != nil && *enableProfiling {
		log.Println("Profiling enabled")
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	go func() {
		log.Printf("Starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	mux := http.NewServeMux()
	wg.Wait()
	mux.Handle("/api/", http.StripPrefix("/api", srv.ClientHandler()))

	apiServer := &http.Server{
		Addr:              listenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	common.RunServerWithShutdown(apiServer, "storefront api", 15*time.Second,
		func(ctx context.Context) error {
			typingTask.Stop()
			srv.Slides.StopAutoplay()
			return nil
		},
		func(ctx context.Context) error {
			if publisher != nil {
				return publisher.Close()
			}
			return nil
		},
		func(ctx context.Context) error {
			if redisStorage != nil {
				return redisStorage.Close()
			}
			return nil
		},
	)
}
