package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/delakti/faithassembly-storefront/pkg/health"
	"github.com/delakti/faithassembly-storefront/pkg/middleware"

	"github.com/delakti/faithassembly-storefront/internal/service"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cartService *service.CartService,
	catalogService *service.CatalogService,
	checkoutService *service.CheckoutService,
	paymentConfig PaymentConfig,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(corsOrigins))
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

	cartHandler := NewCartHandler(cartService, logger)
	catalogHandler := NewCatalogHandler(catalogService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, paymentConfig, logger)

	// Catalog endpoints are public; no session required to browse.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", catalogHandler.ListProducts)
		r.Get("/{productId}", catalogHandler.GetProduct)
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productId}", cartHandler.UpdateQuantity)
		r.Delete("/items/{productId}", cartHandler.RemoveItem)
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/config", checkoutHandler.GetConfig)

		r.Group(func(r chi.Router) {
			r.Use(SessionIDFromHeader)
			r.Post("/", checkoutHandler.Checkout)
		})
	})

	return r
}
