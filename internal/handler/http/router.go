package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/refh96/catalogo-rancho-sub000/internal/service"
	"github.com/refh96/catalogo-rancho-sub000/pkg/health"
	"github.com/refh96/catalogo-rancho-sub000/pkg/middleware"
)

// RouterConfig carries the handler dependencies and route-level settings.
type RouterConfig struct {
	CartService    *service.CartService
	OrderService   *service.OrderService
	ProductService *service.ProductService
	StatsService   *service.StatsService
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	AdminToken     string
	CORSOrigins    []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cfg.CartService, cfg.Logger)
	checkoutHandler := NewCheckoutHandler(cfg.OrderService, cfg.Logger)
	productHandler := NewProductHandler(cfg.ProductService, cfg.Logger)
	statsHandler := NewStatsHandler(cfg.StatsService, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog
		r.Get("/products", productHandler.List)
		r.Get("/products/{id}", productHandler.Get)

		r.Post("/stats/visit", statsHandler.RecordVisit)

		// Session-scoped cart and checkout
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(SessionIDFromHeader)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Put("/details", cartHandler.SetCheckoutDetails)

				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productId}", cartHandler.SetQuantity)
				r.Delete("/items/{productId}", cartHandler.RemoveItem)
			})

			r.Post("/checkout", checkoutHandler.Submit)
		})

		// Admin surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(AdminToken(cfg.AdminToken))

			r.Post("/products", productHandler.Create)
			r.Put("/products/{id}", productHandler.Update)
			r.Delete("/products/{id}", productHandler.Delete)

			r.Get("/stats", statsHandler.Stats)
		})
	})

	return r
}
