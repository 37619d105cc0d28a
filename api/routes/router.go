package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suvai/freshmart-backend/api/controllers"
	"github.com/suvai/freshmart-backend/api/middleware"
	"github.com/suvai/freshmart-backend/internal/cart"
	"github.com/suvai/freshmart-backend/internal/catalog"
	"github.com/suvai/freshmart-backend/internal/chat"
	"github.com/suvai/freshmart-backend/internal/locator"
	"github.com/suvai/freshmart-backend/pkg/config"
	"github.com/suvai/freshmart-backend/pkg/logger"
	"github.com/suvai/freshmart-backend/pkg/metrics"
)

// Deps carries everything the router wires into controllers.
type Deps struct {
	Catalog     catalog.Catalog
	CartService cart.Service
	ChatService chat.Service
	Locator     locator.Service
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
	Readiness   []controllers.Dependency
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness...))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Get("/products", controllers.ProductsList(deps.Catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Put("/items/{productId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Post("/clear", controllers.CartClear(deps.CartService, logg))
			r.Post("/checkout", controllers.CartCheckout(deps.CartService, logg))
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/session", controllers.ChatSession(deps.ChatService, logg))
			r.Post("/messages", controllers.ChatSendMessage(deps.ChatService, logg))
			r.Post("/location", controllers.ChatLocation(deps.ChatService, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/nearby", controllers.StoresNearby(deps.Locator, deps.ChatService, logg))
			r.Get("/{storeId}/directions", controllers.StoresDirections(deps.Locator, deps.ChatService, logg))
		})
	})

	return r
}
