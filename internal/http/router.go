package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	MaxRequestBody int64
	Logger         *zap.Logger
}

// NewRouter wires the storefront API onto a chi router wrapped in
// OpenTelemetry instrumentation
func NewRouter(svc Storefront, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.MaxRequestBody <= 0 {
		cfg.MaxRequestBody = 1 << 20 // 1MB
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	cartHandler := NewCartHandler(svc, cfg.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(svc, cfg.RequestTimeout)
	productHandler := NewProductHandler(svc)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestSize(cfg.MaxRequestBody))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
				r.Put("/shipping", cartHandler.SetShipping)
				r.Post("/coupon", cartHandler.ApplyCoupon)
				r.Get("/totals", cartHandler.GetTotals)
			})
			r.Post("/checkout", checkoutHandler.Submit)
			r.Post("/reset", cartHandler.Reset)
		})
	})

	return otelhttp.NewHandler(r, "netcart-http")
}
