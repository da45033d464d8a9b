package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/digifund/digifund-backend/api/routes"
	"github.com/digifund/digifund-backend/internal/auth"
	"github.com/digifund/digifund-backend/internal/customers"
	"github.com/digifund/digifund-backend/internal/dashboard"
	"github.com/digifund/digifund-backend/internal/export"
	"github.com/digifund/digifund-backend/internal/insights"
	"github.com/digifund/digifund-backend/internal/inventory"
	"github.com/digifund/digifund-backend/internal/invoices"
	"github.com/digifund/digifund-backend/internal/relationships"
	"github.com/digifund/digifund-backend/internal/users"
	"github.com/digifund/digifund-backend/pkg/auth/session"
	"github.com/digifund/digifund-backend/pkg/config"
	"github.com/digifund/digifund-backend/pkg/db"
	"github.com/digifund/digifund-backend/pkg/logger"
	"github.com/digifund/digifund-backend/pkg/metrics"
	"github.com/digifund/digifund-backend/pkg/migrate"
	"github.com/digifund/digifund-backend/pkg/pubsub"
	"github.com/digifund/digifund-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
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

	broker, err := pubsub.NewRedisBroker(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create event broker", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	usersRepo := users.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	invoiceRepo := invoices.NewRepository(dbClient.DB())
	relationshipRepo := relationships.NewRepository(dbClient.DB())
	customerRepo := customers.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.ServiceParams{Repo: inventoryRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	invoiceService, err := invoices.NewService(invoices.ServiceParams{
		DB:            dbClient,
		InvoiceRepo:   invoiceRepo,
		InventoryRepo: inventoryRepo,
		Users:         usersRepo,
		Publisher:     broker,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

	relationshipService, err := relationships.NewService(relationships.ServiceParams{
		DB:    dbClient,
		Repo:  relationshipRepo,
		Users: usersRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create relationship service", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(customers.ServiceParams{Repo: customerRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{Invoices: invoiceRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	insightService, err := insights.NewService(insights.ServiceParams{
		Items:     inventoryRepo,
		Customers: customerRepo,
		Invoices:  invoiceRepo,
		Config:    cfg.Insights,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create insights service", err)
		os.Exit(1)
	}

	exportService, err := export.NewService(export.ServiceParams{
		Items:     inventoryRepo,
		Invoices:  invoiceRepo,
		Customers: customerRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create export service", err)
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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			promRegistry,
			httpMetrics,
			sessionManager,
			authService,
			registerService,
			inventoryService,
			invoiceService,
			relationshipService,
			customerService,
			dashboardService,
			insightService,
			exportService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
