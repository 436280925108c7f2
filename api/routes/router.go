package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MaxKocheshkov/API-service-for-retail/api/controllers"
	"github.com/MaxKocheshkov/API-service-for-retail/api/middleware"
	"github.com/MaxKocheshkov/API-service-for-retail/internal/auth"
	cartsvc "github.com/MaxKocheshkov/API-service-for-retail/internal/cart"
	"github.com/MaxKocheshkov/API-service-for-retail/internal/catalog"
	"github.com/MaxKocheshkov/API-service-for-retail/internal/contacts"
	ordersvc "github.com/MaxKocheshkov/API-service-for-retail/internal/orders"
	"github.com/MaxKocheshkov/API-service-for-retail/internal/users"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/auth/session"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/config"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/enums"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/logger"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/redis"
)

// RouterParams bundles everything the HTTP layer needs.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Gatherer prometheus.Gatherer

	AuthService     auth.Service
	UserService     users.Service
	ContactsService contacts.Service
	CatalogService  catalog.Service
	Importer        *catalog.Importer
	CartService     cartsvc.Service
	OrderService    ordersvc.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

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
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": p.DB,
			"redis":    p.Redis,
		}))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.Get("/verify", controllers.AuthVerify(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(p.CatalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(p.CatalogService, logg))
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/info", controllers.AccountInfo(p.UserService, logg))
			r.Put("/info", controllers.AccountUpdate(p.UserService, logg))
			r.Get("/contacts", controllers.ContactsList(p.ContactsService, logg))
			r.Post("/contacts", controllers.ContactCreate(p.ContactsService, logg))
			r.Delete("/contacts/{contactId}", controllers.ContactDelete(p.ContactsService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(p.CartService, logg))
			r.Post("/items", controllers.CartAddItem(p.CartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(p.CartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(p.CartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrdersCheckout(p.OrderService, logg))
			r.Get("/", controllers.OrdersList(p.OrderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(p.OrderService, logg))
		})

		r.Route("/partner", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRolePartner), logg))
			r.Post("/import", controllers.PartnerImport(p.Importer, logg))
			r.Get("/state", controllers.PartnerStateGet(p.CatalogService, logg))
			r.Put("/state", controllers.PartnerStateSet(p.CatalogService, logg))
			r.Get("/products", controllers.PartnerProducts(p.CatalogService, logg))
			r.Get("/orders", controllers.PartnerOrders(p.OrderService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Post("/orders/{orderId}/status", controllers.AdminOrderStatus(p.OrderService, logg))
	})

	return r
}
