package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkrishnan-dev/orderhub-backend/api/controllers"
	"github.com/mkrishnan-dev/orderhub-backend/api/middleware"
	"github.com/mkrishnan-dev/orderhub-backend/internal/auth"
	"github.com/mkrishnan-dev/orderhub-backend/internal/orders"
	"github.com/mkrishnan-dev/orderhub-backend/internal/stores"
	"github.com/mkrishnan-dev/orderhub-backend/internal/suppliers"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/auth/session"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/config"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/logger"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	promRegistry *prometheus.Registry,
	sessionManager sessionManager,
	authService auth.Service,
	ordersService orders.Service,
	storeCatalog stores.Catalog,
	supplierDirectory suppliers.Directory,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, redisClient, logg))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
		Post("/login", controllers.AuthLogin(authService, cfg.Session, cfg.JWT, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, cfg.Session.CookieName, sessionManager, logg))

		r.Get("/logout", controllers.AuthLogout(authService, cfg.Session, logg))
		r.Post("/logout", controllers.AuthLogout(authService, cfg.Session, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, cfg.Session, cfg.JWT, logg))

		r.Get("/dashboard", controllers.Dashboard(ordersService, logg))
		r.Get("/get_orders", controllers.GetOrders(ordersService, logg))
		r.Get("/get_orders/{store}/{supplier}", controllers.GetOrders(ordersService, logg))
		r.Post("/update_orders", controllers.UpdateOrders(ordersService, logg))
		r.Get("/get_store_headers", controllers.GetStoreHeaders(storeCatalog, logg))
		r.Get("/get_supplier_info", controllers.GetSupplierInfo(supplierDirectory, logg))
		r.Post("/send_whatsapp_message", controllers.SendWhatsAppMessage(ordersService, logg))
	})

	return r
}
