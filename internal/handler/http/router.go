package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/catalog"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/service"
	"github.com/oushaabdelkhaleq88/ONIGIRI/pkg/health"
	"github.com/oushaabdelkhaleq88/ONIGIRI/pkg/middleware"
)

// RouterConfig carries the rate-limit settings for the checkout submit route.
type RouterConfig struct {
	SubmitRateRPS   int
	SubmitRateBurst int
}

// NewRouter creates a chi router with all ordering service routes registered.
func NewRouter(
	cat *catalog.Catalog,
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(CORS)
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("ordering"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	menuHandler := NewMenuHandler(cat, logger)
	cartHandler := NewCartHandler(cartService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/menu", menuHandler.ListItems)
		r.Get("/menu/{itemId}", menuHandler.GetItem)

		r.Group(func(r chi.Router) {
			r.Use(SessionIDFromHeader)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)

				r.Post("/items", cartHandler.AddItem)
				r.Delete("/items/{itemId}", cartHandler.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/quote", checkoutHandler.Quote)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RateLimit(cfg.SubmitRateRPS, cfg.SubmitRateBurst, logger))
					r.Post("/", checkoutHandler.Submit)
				})
			})
		})
	})

	return r
}
