package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/makersrow/makersrow-backend/api/controllers"
	"github.com/makersrow/makersrow-backend/api/middleware"
	cartsvc "github.com/makersrow/makersrow-backend/internal/cart"
	checkoutsvc "github.com/makersrow/makersrow-backend/internal/checkout"
	"github.com/makersrow/makersrow-backend/internal/manufacturers"
	"github.com/makersrow/makersrow-backend/internal/marketing"
	ordersvc "github.com/makersrow/makersrow-backend/internal/orders"
	"github.com/makersrow/makersrow-backend/internal/products"
	"github.com/makersrow/makersrow-backend/pkg/config"
	"github.com/makersrow/makersrow-backend/pkg/db"
	"github.com/makersrow/makersrow-backend/pkg/logger"
	"github.com/makersrow/makersrow-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	metricsRegistry *prometheus.Registry,
	productsRepo *products.Repository,
	manufacturersRepo *manufacturers.Repository,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService ordersvc.Service,
	marketingService marketing.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productsRepo, logg))
			r.Get("/{productId}", controllers.ProductDetail(productsRepo, logg))
			r.Get("/{productId}/blurb", controllers.ProductBlurb(marketingService, logg))
		})

		r.Route("/manufacturers", func(r chi.Router) {
			r.Get("/", controllers.ManufacturerList(manufacturersRepo, logg))
			r.Get("/{manufacturerId}", controllers.ManufacturerDetail(manufacturersRepo, logg))
			r.Get("/{manufacturerId}/products", controllers.ManufacturerProducts(productsRepo, logg))
			r.With(middleware.Auth(cfg.JWT, logg), middleware.RequireManufacturer(logg)).
				Get("/{manufacturerId}/orders", controllers.ManufacturerOrders(ordersService, logg))
		})

		// Cart routes accept either a bearer token or a guest session header.
		r.Route("/cart", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.Shopper(cfg.JWT, logg))
				r.Get("/", controllers.CartFetch(cartService, logg))
				r.Post("/items", controllers.CartAdd(cartService, logg))
				r.Put("/items", controllers.CartUpdate(cartService, logg))
				r.Delete("/items/{productId}", controllers.CartRemove(cartService, logg))
			})
			r.With(middleware.Auth(cfg.JWT, logg)).
				Post("/migrate", controllers.CartMigrate(cartService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/checkout", controllers.Checkout(cartService, checkoutService, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
				r.With(middleware.RequireManufacturer(logg)).
					Post("/{orderId}/status", controllers.OrderAdvanceStatus(ordersService, logg))
			})
		})
	})

	return r
}
