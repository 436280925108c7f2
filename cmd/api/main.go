package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MaxKocheshkov/API-service-for-retail/api/routes"
	"github.com/MaxKocheshkov/API-service-for-retail/internal/auth"
	cartsvc "github.com/MaxKocheshkov/API-service-for-retail/internal/cart"
	"github.com/MaxKocheshkov/API-service-for-retail/internal/catalog"
	"github.com/MaxKocheshkov/API-service-for-retail/internal/contacts"
	ordersvc "github.com/MaxKocheshkov/API-service-for-retail/internal/orders"
	"github.com/MaxKocheshkov/API-service-for-retail/internal/users"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/auth/session"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/config"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/db"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/logger"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/metrics"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/migrate"
	"github.com/MaxKocheshkov/API-service-for-retail/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	importerMetrics := metrics.NewImporterMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	contactsRepo := contacts.NewRepository(dbClient.DB())
	cartRepo := cartsvc.NewRepository(dbClient.DB())
	orderRepo := ordersvc.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:          userRepo,
		ShopFinder:        catalogRepo,
		SessionManager:    sessionManager,
		VerificationStore: redisClient,
		JWTConfig:         cfg.JWT,
		PasswordConfig:    cfg.Password,
		AppConfig:         cfg.App,
		VerificationTTL:   cfg.Verification.TokenTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	contactsService, err := contacts.NewService(contactsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create contacts service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	importer, err := catalog.NewImporter(catalog.ImporterParams{
		Repo:    catalogRepo,
		Tx:      dbClient,
		Metrics: importerMetrics,
		Config:  cfg.Importer,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create feed importer", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartRepo, dbClient, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersvc.ServiceParams{
		Repo:     orderRepo,
		Carts:    cartRepo,
		Contacts: contactsRepo,
		Tx:       dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Sessions:        sessionManager,
			Gatherer:        registry,
			AuthService:     authService,
			UserService:     userService,
			ContactsService: contactsService,
			CatalogService:  catalogService,
			Importer:        importer,
			CartService:     cartService,
			OrderService:    orderService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
