package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/mkrishnan-dev/orderhub-backend/api/routes"
	"github.com/mkrishnan-dev/orderhub-backend/internal/auth"
	"github.com/mkrishnan-dev/orderhub-backend/internal/notify"
	"github.com/mkrishnan-dev/orderhub-backend/internal/orders"
	"github.com/mkrishnan-dev/orderhub-backend/internal/stores"
	"github.com/mkrishnan-dev/orderhub-backend/internal/suppliers"
	"github.com/mkrishnan-dev/orderhub-backend/internal/users"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/auth/session"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/config"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/filestore"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/logger"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/metrics"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/redis"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/whatsapp"
)

const shutdownTimeout = 10 * time.Second

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
		Console:     cfg.App.IsDev(),
	})

	if cfg.App.IsProd() {
		cfg.Session.CookieSecure = true
	}

	files, err := filestore.New(cfg.Data.Dir)
	if err != nil {
		logg.Error(context.Background(), "failed to open data directory", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrderMetrics(promRegistry)

	userRepo, err := users.NewRepository(files)
	if err != nil {
		logg.Error(context.Background(), "failed to create user repository", err)
		os.Exit(1)
	}
	storeCatalog, err := stores.NewCatalog(files, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create store catalog", err)
		os.Exit(1)
	}
	supplierDirectory, err := suppliers.NewDirectory(files)
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier directory", err)
		os.Exit(1)
	}
	orderFiles, err := orders.NewFileStore(files, cfg.Data.AllStoresSentinel)
	if err != nil {
		logg.Error(context.Background(), "failed to create order file store", err)
		os.Exit(1)
	}

	var notifier orders.Notifier
	if cfg.WhatsApp.Enabled() {
		gateway, err := whatsapp.NewClient(
			cfg.WhatsApp.AccountSID,
			cfg.WhatsApp.AuthToken,
			cfg.WhatsApp.FromNumber,
			whatsapp.WithBaseURL(cfg.WhatsApp.BaseURL),
			whatsapp.WithHTTPClient(&http.Client{Timeout: cfg.WhatsApp.Timeout}),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to create whatsapp client", err)
			os.Exit(1)
		}
		notifyService, err := notify.NewService(notify.ServiceParams{
			Gateway: gateway,
			Metrics: orderMetrics,
			Logger:  logg,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create notify service", err)
			os.Exit(1)
		}
		notifier = notifyService
	} else {
		logg.Warn(context.Background(), "whatsapp credentials absent, notifications disabled")
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Store:    orderFiles,
		Contacts: supplierDirectory,
		Catalog:  storeCatalog,
		Notifier: notifier,
		Metrics:  orderMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SupplierDir:    supplierDirectory,
		StoreCatalog:   storeCatalog,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		DefaultStore:   cfg.Data.DefaultStore,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
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
			redisClient,
			promRegistry,
			sessionManager,
			authService,
			ordersService,
			storeCatalog,
			supplierDirectory,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var shutdownErr error
		shutdownErr = multierr.Append(shutdownErr, server.Shutdown(shutdownCtx))
		shutdownErr = multierr.Append(shutdownErr, redisClient.Close())
		if shutdownErr != nil {
			logg.Error(ctx, "shutdown completed with errors", shutdownErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
