package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/atelier-storefront/api/controllers"
	"github.com/angelmondragon/atelier-storefront/api/routes"
	"github.com/angelmondragon/atelier-storefront/internal/cart"
	"github.com/angelmondragon/atelier-storefront/internal/catalog"
	"github.com/angelmondragon/atelier-storefront/internal/customization"
	"github.com/angelmondragon/atelier-storefront/internal/preferences"
	"github.com/angelmondragon/atelier-storefront/internal/wishlist"
	"github.com/angelmondragon/atelier-storefront/pkg/config"
	"github.com/angelmondragon/atelier-storefront/pkg/db"
	"github.com/angelmondragon/atelier-storefront/pkg/debounce"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
	"github.com/angelmondragon/atelier-storefront/pkg/metrics"
	"github.com/angelmondragon/atelier-storefront/pkg/migrate"
	"github.com/angelmondragon/atelier-storefront/pkg/redis"
	"github.com/angelmondragon/atelier-storefront/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(runCtx, cfg.DB, logg)
	if err != nil {
		logg.Error(runCtx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(runCtx, cfg, logg, dbClient); err != nil {
		logg.Error(runCtx, "failed to run dev migrations", err)
		os.Exit(1)
	}
	if cfg.FeatureFlags.AutoSeed && !cfg.App.IsProd() {
		if err := catalog.SeedDefaults(runCtx, dbClient.DB()); err != nil {
			logg.Error(runCtx, "failed to seed catalog", err)
			os.Exit(1)
		}
		logg.Info(runCtx, "catalog seeded")
	}

	checks := []controllers.ReadinessCheck{{Name: "database", Pinger: dbClient}}

	var (
		store       storage.Store
		redisClient *redis.Client
	)
	if cfg.Storage.IsRedis() {
		redisClient, err = redis.New(runCtx, cfg.Redis, logg)
		if err != nil {
			logg.Error(runCtx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		store = storage.NewRedis(redisClient, cfg.Storage.KeyTTL)
		checks = append(checks, controllers.ReadinessCheck{Name: "redis", Pinger: redisClient})
	} else {
		store = storage.NewMemory(cfg.Storage.MemoryQuotaKB * 1024)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storeMetrics := metrics.NewStorefront(reg)

	local := storage.NewLocal(store, logg, storeMetrics)

	catalogSvc, err := catalog.NewService(catalog.ServiceParams{Repo: catalog.NewRepository(dbClient.DB())})
	if err != nil {
		logg.Error(runCtx, "failed to create catalog service", err)
		os.Exit(1)
	}
	schemas := customization.NewConfigCache(catalogSvc, storeMetrics)

	// Sessions read configuration and products from the remote catalog when one is configured.
	var (
		sessionSchemas  customization.Provider      = schemas
		sessionProducts customization.ProductSource = catalogSvc
	)
	if cfg.Catalog.BaseURL != "" {
		remote, err := customization.NewHTTPProvider(cfg.Catalog.BaseURL, cfg.Catalog.RequestTimeout, nil)
		if err != nil {
			logg.Error(runCtx, "failed to create catalog client", err)
			os.Exit(1)
		}
		sessionSchemas = customization.NewConfigCache(remote, storeMetrics)
		sessionProducts = remote
		logg.Info(logg.WithField(runCtx, "catalog_url", cfg.Catalog.BaseURL), "using remote catalog for customization")
	}

	cartSvc, err := cart.NewService(cart.ServiceParams{Storage: local, Products: catalogSvc})
	if err != nil {
		logg.Error(runCtx, "failed to create cart service", err)
		os.Exit(1)
	}
	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{Storage: local, Products: catalogSvc, Cart: cartSvc})
	if err != nil {
		logg.Error(runCtx, "failed to create wishlist service", err)
		os.Exit(1)
	}
	prefSvc, err := preferences.NewService(preferences.ServiceParams{Storage: local})
	if err != nil {
		logg.Error(runCtx, "failed to create preferences service", err)
		os.Exit(1)
	}

	manager, err := customization.NewManager(customization.ManagerParams{
		Schemas:      sessionSchemas,
		Products:     sessionProducts,
		Storage:      local,
		Cart:         cartSvc,
		Scheduler:    debounce.RealScheduler{},
		PriceDelay:   cfg.Customization.PriceDebounce,
		PersistDelay: cfg.Customization.PersistDebounce,
		IdleTTL:      cfg.Customization.SessionIdleTTL,
		Metrics:      storeMetrics,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(runCtx, "failed to create customization manager", err)
		os.Exit(1)
	}

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		manager.Run(runCtx, cfg.Customization.SweepInterval)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(runCtx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": cfg.Storage.Driver,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:         cfg,
			Logger:         logg,
			Checks:         checks,
			Catalog:        catalogSvc,
			Schemas:        schemas,
			Cart:           cartSvc,
			Wishlist:       wishlistSvc,
			Preferences:    prefSvc,
			Sessions:       manager,
			HTTPMetrics:    metrics.NewHTTP(reg),
			MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs error
	errs = multierr.Append(errs, server.Shutdown(shutdownCtx))
	<-sweepDone
	// Pending selections are written before the stores close.
	manager.Shutdown()
	if redisClient != nil {
		errs = multierr.Append(errs, redisClient.Close())
	}
	errs = multierr.Append(errs, dbClient.Close())

	if errs != nil {
		logg.Error(ctx, "errors during shutdown", errs)
		exitCode = 1
	}
	logg.Info(ctx, "api server stopped")
	os.Exit(exitCode)
}
