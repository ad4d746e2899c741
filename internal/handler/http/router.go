package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopkit/storefront/internal/cart"
	"github.com/shopkit/storefront/internal/catalog"
	"github.com/shopkit/storefront/pkg/health"
	"github.com/shopkit/storefront/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	catalogStore *catalog.Store,
	cartStore *cart.Store,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(catalogStore, logger)
	cartHandler := NewCartHandler(cartStore, catalogStore, logger)

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", catalogHandler.GetCatalog)
		r.Post("/load", catalogHandler.LoadCatalog)

		r.Put("/filters/{dimension}", catalogHandler.SetFilter)
		r.Delete("/filters", catalogHandler.ResetFilters)

		r.Put("/products/{productId}/rating", catalogHandler.ReviseRating)
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
		r.Delete("/items/{productId}", cartHandler.RemoveItem)

		r.Post("/checkout", cartHandler.RequestCheckout)
		r.Post("/checkout/confirm", cartHandler.ConfirmCheckout)
		r.Post("/checkout/cancel", cartHandler.CancelCheckout)
	})

	return r
}
