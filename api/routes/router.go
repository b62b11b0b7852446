package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veritrace/qrbatch-backend/api/controllers"
	"github.com/veritrace/qrbatch-backend/api/middleware"
	"github.com/veritrace/qrbatch-backend/internal/batches"
	"github.com/veritrace/qrbatch-backend/internal/orders"
	"github.com/veritrace/qrbatch-backend/internal/packaging"
	"github.com/veritrace/qrbatch-backend/internal/products"
	"github.com/veritrace/qrbatch-backend/internal/tenants"
	"github.com/veritrace/qrbatch-backend/pkg/config"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
	"github.com/veritrace/qrbatch-backend/pkg/redis"
)

// Services bundles everything the router exposes over HTTP.
type Services struct {
	Tenants   tenants.Service
	Batches   batches.Service
	Orders    orders.Service
	Products  products.Service
	Packaging packaging.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store redis.IdempotencyStore,
	pingers map[string]controllers.Pinger,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/token", controllers.AuthToken(svcs.Tenants, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.TenantAuth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(store, logg))

		r.Route("/batches", func(r chi.Router) {
			r.Post("/", controllers.BatchCreate(svcs.Batches, logg))
			r.Get("/{batchID}", controllers.BatchGet(svcs.Batches, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.OrderGet(svcs.Orders, logg))
			r.Post("/{orderID}/po/render", controllers.OrderRenderPO(svcs.Orders, logg))
			r.Post("/{orderID}/po/send", controllers.OrderSendPO(svcs.Orders, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(svcs.Products, logg))
			r.Get("/{productID}", controllers.ProductGet(svcs.Products, logg))
		})

		r.Route("/packaging-config", func(r chi.Router) {
			r.Get("/", controllers.PackagingGet(svcs.Packaging, logg))
			r.Put("/", controllers.PackagingPut(svcs.Packaging, logg))
		})
	})

	return r
}
