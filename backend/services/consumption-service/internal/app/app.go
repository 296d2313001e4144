package app

import (
	"context"
	"database/sql"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"dropzero/backend/libs/auth"
	"dropzero/backend/libs/httpx"
	"dropzero/backend/libs/metrics"
	libredis "dropzero/backend/libs/redis"
	"dropzero/backend/services/consumption-service/internal/analytics"
	"dropzero/backend/services/consumption-service/internal/cache"
	appconfig "dropzero/backend/services/consumption-service/internal/config"
	"dropzero/backend/services/consumption-service/internal/db"
	"dropzero/backend/services/consumption-service/internal/feed"
	"dropzero/backend/services/consumption-service/internal/http"
	"dropzero/backend/services/consumption-service/internal/http/handlers"
	"dropzero/backend/services/consumption-service/internal/repository"
	"dropzero/backend/services/consumption-service/internal/service"
)

// App wires dependencies for the consumption service.
type App struct {
	server *httpx.Server
	hub    *feed.Hub
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := db.EnsureSchema(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
	} else {
		logger.Info("redis address not configured, aggregate cache disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	readingRepo := repository.NewReadingRepository(sqlDB)
	meterRepo := repository.NewMeterRepository(sqlDB)
	tariffRepo := repository.NewTariffRepository(sqlDB)
	users := repository.NewUserDirectory(sqlDB)

	aggregates := cache.NewAggregateCache(redisClient, cfg.Cache.TTL, m)
	hub := feed.NewHub(cfg.Feed.PingInterval, m, logger)
	clock := clockwork.NewRealClock()

	tariffSvc := service.NewTariffService(tariffRepo, cfg.Tariff.FixedWeeklyCharge, cfg.Tariff.RatePerM3, logger)
	readingsSvc := service.NewReadingsService(readingRepo, tariffSvc, service.ReadingsDeps{
		Users:     users,
		Cache:     aggregates,
		Publisher: hub,
		Metrics:   m,
		Clock:     clock,
		Tips:      analytics.ReadingTips,
	}, logger)
	adminSvc := service.NewAdminService(readingRepo, meterRepo, users, aggregates, clock, logger)

	tokens := auth.NewTokenService(cfg.JWT.Secret, 0)
	feedServer := feed.NewServer(hub, cfg.Feed.Buffer, cfg.Feed.WriteTimeout, logger)

	routes := httpserver.Routes{
		Dashboard:     handlers.NewDashboardHandler(readingsSvc, logger),
		History:       handlers.NewHistoryHandler(readingsSvc, logger),
		Chart:         handlers.NewChartHandler(readingsSvc, logger),
		Advice:        handlers.NewAdviceHandler(readingsSvc, logger),
		Export:        handlers.NewExportHandler(readingsSvc, logger),
		SubmitReading: handlers.NewSubmitReadingHandler(readingsSvc, logger),
		ZoneMap:       handlers.NewZoneMapHandler(adminSvc, logger),
		Alerts:        handlers.NewAlertsHandler(adminSvc, logger),
		AlertStream:   feedServer.HandleWS,
		Stats:         handlers.NewStatsHandler(adminSvc, logger),
		RegisterMeter: handlers.NewRegisterMeterHandler(adminSvc, logger),
		Health:        handlers.NewHealthHandler(),
		Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	router := httpserver.NewRouter(routes, tokens)
	server := httpx.NewServer(cfg.HTTPAddress(), router, logger,
		httpx.RecoveryMiddleware(logger),
		httpx.LoggingMiddleware(logger, m),
	)

	return &App{
		server: server,
		hub:    hub,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Start(ctx)
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
