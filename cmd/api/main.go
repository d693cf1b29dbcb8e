package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/panelops/panelops-backend/api/controllers"
	"github.com/panelops/panelops-backend/api/routes"
	"github.com/panelops/panelops-backend/internal/alerts"
	"github.com/panelops/panelops-backend/internal/analytics"
	"github.com/panelops/panelops-backend/internal/campaigns"
	"github.com/panelops/panelops-backend/internal/commerce"
	"github.com/panelops/panelops-backend/internal/dashboard"
	"github.com/panelops/panelops-backend/internal/events"
	"github.com/panelops/panelops-backend/internal/marketing"
	"github.com/panelops/panelops-backend/internal/picking"
	"github.com/panelops/panelops-backend/internal/resellers"
	"github.com/panelops/panelops-backend/pkg/config"
	"github.com/panelops/panelops-backend/pkg/db"
	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/metrics"
	"github.com/panelops/panelops-backend/pkg/migrate"
	"github.com/panelops/panelops-backend/pkg/redis"
	"github.com/panelops/panelops-backend/pkg/restclient"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	requestMetrics := metrics.NewRequestMetrics(registry)
	upstreamMetrics := metrics.NewUpstreamMetrics(registry)

	var cache redis.CacheStore
	if cfg.Cache.Enabled {
		cache = redisClient
	}
	cacheTTL := cfg.Cache.TTL

	newRest := func(source string, upstream config.UpstreamConfig) *restclient.Client {
		rest, restErr := restclient.New(source, upstream, logg)
		if restErr != nil {
			logg.Error(context.Background(), "failed to build upstream client: "+source, restErr)
			os.Exit(1)
		}
		return rest.WithObserver(upstreamMetrics)
	}

	commerceRest := newRest(commerce.Source, cfg.Commerce)
	eventsRest := newRest(events.Source, cfg.Events)
	marketingRest := newRest(marketing.Source, cfg.Marketing)
	pickingRest := newRest(picking.Source, cfg.Picking)
	resellersRest := newRest(resellers.Source, cfg.Resellers)
	campaignsRest := newRest(campaigns.Source, cfg.Campaigns)

	commerceClient := commerce.NewClient(commerceRest, cache, cacheTTL, logg)
	eventsClient := events.NewClient(eventsRest, cache, cacheTTL, logg)
	marketingClient := marketing.NewClient(marketingRest, cache, cacheTTL, logg)

	alertsService := alerts.NewService(alerts.NewRepository(dbClient.DB()), logg)
	dashboardService := dashboard.NewService(commerceClient, alertsService, logg)
	analyticsService := analytics.NewService(commerceClient, eventsClient, marketingClient, logg)
	pickingService := picking.NewService(pickingRest, cache, cacheTTL, logg)
	resellersService := resellers.NewService(resellersRest, cache, cacheTTL, logg)
	campaignsService := campaigns.NewService(campaignsRest, cache, cacheTTL, logg)

	router := routes.NewRouter(routes.Deps{
		Config:           cfg,
		Logger:           logg,
		RequestMetrics:   requestMetrics,
		Registry:         registry,
		IdempotencyStore: redisClient,
		Dashboard:        dashboardService,
		Analytics:        analyticsService,
		Alerts:           alertsService,
		Picking:          pickingService,
		Resellers:        resellersService,
		Campaigns:        campaignsService,
		HealthChecks: []controllers.HealthCheck{
			{Name: "database", Pinger: dbClient},
			{Name: "redis", Pinger: redisClient},
			{Name: "commerce", Pinger: commerceRest},
		},
	})

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
		Addr:    addr,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
