package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhttp "github.com/thiago536/v0-gabycommerce-structure/internal/admin/handler/http"
	carthttp "github.com/thiago536/v0-gabycommerce-structure/internal/cart/handler/http"
	cataloghttp "github.com/thiago536/v0-gabycommerce-structure/internal/catalog/handler/http"
	checkouthttp "github.com/thiago536/v0-gabycommerce-structure/internal/checkout/handler/http"
	"github.com/thiago536/v0-gabycommerce-structure/internal/config"
	favhttp "github.com/thiago536/v0-gabycommerce-structure/internal/favorites/handler/http"
	orderhttp "github.com/thiago536/v0-gabycommerce-structure/internal/order/handler/http"
	profilehttp "github.com/thiago536/v0-gabycommerce-structure/internal/profile/handler/http"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/health"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/middleware"
)

type routerDeps struct {
	cfg          *config.Config
	logger       *slog.Logger
	health       *health.Handler
	cart         *carthttp.CartHandler
	favorites    *favhttp.FavoritesHandler
	catalog      *cataloghttp.CatalogHandler
	checkout     *checkouthttp.CheckoutHandler
	orders       *orderhttp.OrderHandler
	profile      *profilehttp.ProfileHandler
	adminAuth    *adminhttp.AuthHandler
	requireAdmin func(http.Handler) http.Handler
}

// newRouter assembles the full HTTP surface: storefront APIs, back-office
// APIs behind admin auth, and the operational endpoints.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(middleware.Recovery(deps.logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(deps.logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: deps.cfg.AllowedOrigins,
		Environment:    deps.cfg.Environment,
	}))

	// Operational endpoints.
	r.Get("/health/live", deps.health.LivenessHandler())
	r.Get("/health/ready", deps.health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Storefront APIs.
	r.Mount("/api/v1/catalog", deps.catalog.Routes())
	r.Mount("/api/v1/cart", deps.cart.Routes())
	r.Mount("/api/v1/favorites", deps.favorites.Routes())
	r.Mount("/api/v1/checkout", deps.checkout.Routes())
	r.Mount("/api/v1/profile", deps.profile.Routes())

	// Back office. Login itself lives under /api/v1/admin and is the only
	// unauthenticated admin route.
	r.Mount("/api/v1/admin", deps.adminAuth.Routes())
	r.With(deps.requireAdmin).Mount("/api/v1/admin/products", deps.catalog.AdminRoutes())
	r.With(deps.requireAdmin).Mount("/api/v1/admin/orders", deps.orders.Routes())

	return r
}
