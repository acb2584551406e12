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

	"github.com/tldpricer/tldpricer-backend/api/routes"
	"github.com/tldpricer/tldpricer-backend/internal/extensions"
	"github.com/tldpricer/tldpricer-backend/internal/pricing"
	"github.com/tldpricer/tldpricer-backend/internal/registrars"
	"github.com/tldpricer/tldpricer-backend/pkg/config"
	"github.com/tldpricer/tldpricer-backend/pkg/db"
	"github.com/tldpricer/tldpricer-backend/pkg/logger"
	"github.com/tldpricer/tldpricer-backend/pkg/metrics"
	"github.com/tldpricer/tldpricer-backend/pkg/migrate"
	"github.com/tldpricer/tldpricer-backend/pkg/redis"
)

const serviceName = "tldpricer-api"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: serviceName}).Error(context.Background(), "config load failed", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithField(context.Background(), "component", "api")

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api exited with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	dbClient, err := db.New(bootCtx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(bootCtx, cfg, logg, dbClient); err != nil {
		return err
	}

	var cache *redis.Client
	if cfg.Redis.Enabled() {
		cache, err = redis.New(bootCtx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer cache.Close()
	}

	qm := metrics.NewQueryMetrics(prometheus.DefaultRegisterer)

	pricingOpts := pricing.Options{
		CacheTTL: cfg.Cache.CheapestTTL,
		Metrics:  qm,
		Logger:   logg,
	}
	if cache != nil && cfg.FeatureFlags.CacheCheapest {
		pricingOpts.Cache = cache
	}
	pricingSvc, err := pricing.NewService(pricing.NewRepository(dbClient.DB()), pricingOpts)
	if err != nil {
		return err
	}
	extensionsSvc, err := extensions.NewService(extensions.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	registrarsSvc, err := registrars.NewService(registrars.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	deps := routes.Deps{
		ServiceName: serviceName,
		Logger:      logg,
		Metrics:     qm,
		Pricing:     pricingSvc,
		Extensions:  extensionsSvc,
		Registrars:  registrarsSvc,
		DBPinger:    dbClient,
	}
	if cache != nil {
		deps.CachePinger = cache
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           routes.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		listenCtx := logg.WithFields(ctx, map[string]any{"addr": srv.Addr, "env": cfg.App.Env})
		logg.Info(listenCtx, "http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
