package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/wishlist/internal/service"
	"github.com/utafrali/wishlist/pkg/health"
	"github.com/utafrali/wishlist/pkg/httputil"
	"github.com/utafrali/wishlist/pkg/middleware"
)

// ServiceName and ServiceVersion are reported by the index endpoint.
const (
	ServiceName    = "Wishlist REST API Service"
	ServiceVersion = "1.0"
)

// RouterConfig holds the optional parts of the router.
type RouterConfig struct {
	// TracingName enables request spans under this service name when set.
	TracingName string

	// Metrics records per-route request metrics when set.
	Metrics *middleware.HTTPMetrics

	// Gatherer backs the /metrics endpoint. Nil uses the default registry.
	Gatherer prometheus.Gatherer

	// RequestTimeout bounds the handling of a single request. Zero disables it.
	RequestTimeout time.Duration

	CORS middleware.CORSConfig
}

// NewRouter creates a chi router with all wishlist service routes registered.
func NewRouter(
	wishlistService *service.WishlistService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	if cfg.TracingName != "" {
		r.Use(middleware.Tracing(cfg.TracingName))
	}
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5, "application/json"))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/", index)

	h := NewWishlistHandler(wishlistService, logger)

	r.Route("/wishlists", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chimw.Timeout(cfg.RequestTimeout))
		}

		r.With(ContentTypeJSON).Post("/", h.CreateWishlist)
		r.Get("/", h.QueryWishlists)
		r.Delete("/reset", h.ResetWishlists)

		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", h.GetWishlist)
			r.With(ContentTypeJSON).Put("/", h.RenameWishlist)
			r.Delete("/", h.DeleteWishlist)

			r.Route("/items", func(r chi.Router) {
				r.With(ContentTypeJSON).Post("/", h.AddItem)
				r.Get("/", h.QueryItems)

				r.Route("/{product_id:-?[0-9]+}", func(r chi.Router) {
					r.Get("/", h.GetItem)
					r.With(ContentTypeJSON).Put("/", h.RenameItem)
					r.Delete("/", h.DeleteItem)
					r.Put("/add-to-cart", h.AddItemToCart)
				})
			})
		})
	})

	return r
}

type indexResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func index(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, indexResponse{Name: ServiceName, Version: ServiceVersion})
}
