package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nvalenzo/threadhaus-backend/api/controllers"
	"github.com/nvalenzo/threadhaus-backend/api/middleware"
	"github.com/nvalenzo/threadhaus-backend/internal/cart"
	"github.com/nvalenzo/threadhaus-backend/internal/catalog"
	checkoutsvc "github.com/nvalenzo/threadhaus-backend/internal/checkout"
	"github.com/nvalenzo/threadhaus-backend/internal/orders"
	"github.com/nvalenzo/threadhaus-backend/internal/reviews"
	"github.com/nvalenzo/threadhaus-backend/internal/sales"
	"github.com/nvalenzo/threadhaus-backend/internal/users"
	"github.com/nvalenzo/threadhaus-backend/pkg/auth/session"
	"github.com/nvalenzo/threadhaus-backend/pkg/config"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
	"github.com/nvalenzo/threadhaus-backend/pkg/metrics"
)

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker
	Limiter  middleware.RateLimiterStore
	Metrics  *metrics.HTTPMetrics

	RedisPinger   controllers.Pinger
	GatewayPinger controllers.Pinger

	Users    users.Service
	Catalog  catalog.Service
	Sales    sales.Service
	Cart     cart.Service
	Checkout checkoutsvc.Service
	Orders   orders.Service
	Reviews  reviews.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.RedisPinger, deps.GatewayPinger))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/v1/products", controllers.StorefrontBrowse(deps.Catalog, logg))
		r.Get("/v1/products/{productId}", controllers.StorefrontProductDetail(deps.Catalog, logg))
		r.Get("/v1/products/{productId}/reviews", controllers.ReviewList(deps.Reviews, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Limiter, logg)).Post("/login", controllers.AuthLogin(deps.Users, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Limiter, logg)).Post("/register", controllers.AuthRegister(deps.Users, logg))
		r.Post("/federated", controllers.AuthFederated(deps.Users, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Users, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Post("/v1/auth/logout", controllers.AuthLogout(deps.Users, logg))

		r.Route("/v1/me", func(r chi.Router) {
			r.Get("/", controllers.ProfileFetch(deps.Users, logg))
			r.Put("/", controllers.ProfileUpdate(deps.Users, logg))
			r.Get("/addresses", controllers.AddressList(deps.Users, logg))
			r.Post("/addresses", controllers.AddressUpsert(deps.Users, logg))
			r.Delete("/addresses/{addressId}", controllers.AddressDelete(deps.Users, logg))
			r.Get("/orders", controllers.OrderHistory(deps.Orders, logg))
		})

		r.Post("/v1/products/{productId}/reviews", controllers.ReviewCreate(deps.Reviews, logg))

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Put("/items", controllers.CartSetQuantity(deps.Cart, logg))
			r.Delete("/items", controllers.CartRemoveItem(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
		})

		r.Route("/v1/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutState(deps.Checkout, logg))
			r.Post("/shipping", controllers.CheckoutShipping(deps.Checkout, logg))
			r.Post("/payment", controllers.CheckoutPayment(deps.Checkout, logg))
			r.Post("/back", controllers.CheckoutBack(deps.Checkout, logg))
			r.Post("/submit", controllers.CheckoutSubmit(deps.Checkout, logg))
			r.Post("/reset", controllers.CheckoutReset(deps.Checkout, logg))
		})

		r.Route("/v1/seller", func(r chi.Router) {
			r.Use(middleware.RequireSeller(logg))
			r.Get("/products", controllers.SellerListProducts(deps.Catalog, logg))
			r.Post("/products", controllers.SellerCreateProduct(deps.Catalog, logg))
			r.Patch("/products/{productId}", controllers.SellerUpdateProduct(deps.Catalog, logg))
			r.Delete("/products/{productId}", controllers.SellerDeleteProduct(deps.Catalog, logg))
			r.Post("/products/{productId}/variants", controllers.SellerAddVariant(deps.Catalog, logg))
			r.Patch("/products/{productId}/variants/{variantId}", controllers.SellerUpdateVariant(deps.Catalog, logg))
			r.Delete("/products/{productId}/variants/{variantId}", controllers.SellerRemoveVariant(deps.Catalog, logg))
			r.Put("/products/{productId}/variants/{variantId}/stock", controllers.SellerSetStock(deps.Catalog, logg))
			r.Post("/products/{productId}/variants/{variantId}/stock/adjust", controllers.SellerAdjustStock(deps.Catalog, logg))
			r.Post("/inventory/bulk", controllers.SellerBulkUpdateStock(deps.Catalog, logg))
			r.Post("/catalog/refresh", controllers.SellerRefreshCatalog(deps.Catalog, logg))
			r.Get("/analytics/dashboard", controllers.SellerDashboard(deps.Sales, logg))
		})
	})

	return r
}
