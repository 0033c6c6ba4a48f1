package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prwkhar/aura-gift/internal/cart"
	"github.com/prwkhar/aura-gift/internal/catalog"
	"github.com/prwkhar/aura-gift/internal/checkout"
	"github.com/prwkhar/aura-gift/pkg/health"
	"github.com/prwkhar/aura-gift/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	catalogService *catalog.Service,
	carts *cart.Manager,
	checkoutService *checkout.Service,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(CORS)

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(catalogService, logger)
	cartHandler := NewCartHandler(carts, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, carts, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// The catalog is public; carts and checkout are scoped to the
		// browser-held session id.
		r.Get("/products", catalogHandler.ListProducts)
		r.Post("/products/refresh", catalogHandler.RefreshCatalog)

		r.Group(func(r chi.Router) {
			r.Use(SessionFromHeader)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)

				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{lineRef}", cartHandler.SetQuantity)
				r.Put("/items/{lineRef}/note", cartHandler.UpdateNote)
				r.Delete("/items/{lineRef}", cartHandler.RemoveItem)
			})

			r.Post("/checkout", checkoutHandler.Submit)
			r.Get("/checkout/confirmation", checkoutHandler.Confirmation)
		})
	})

	return r
}
