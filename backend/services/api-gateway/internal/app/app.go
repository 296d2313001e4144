package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"dropzero/backend/libs/auth"
	"dropzero/backend/libs/httpx"
	"dropzero/backend/libs/metrics"
	"dropzero/backend/services/api-gateway/internal/clients"
	"dropzero/backend/services/api-gateway/internal/config"
	httpserver "dropzero/backend/services/api-gateway/internal/http"
	"dropzero/backend/services/api-gateway/internal/http/handlers"
)

// App wires API gateway dependencies.
type App struct {
	server *httpx.Server
	logger *zap.Logger
}

// New constructs application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	httpClient := clients.NewDefaultHTTPClient(cfg.HTTPTimeout())

	authClient := clients.NewAuthClient(cfg.Services.AuthURL, httpClient)
	consumptionClient := clients.NewConsumptionClient(cfg.Services.ConsumptionURL, httpClient)

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:        handlers.NewAuthHandlers(authClient, logger),
		ConsumptionHandlers: handlers.NewConsumptionHandlers(consumptionClient, logger),
		AlertStream:         handlers.NewStreamHandler(consumptionClient.StreamURL(), logger),
		HealthHandler:       handlers.NewHealthHandler(),
		Metrics:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, auth.NewTokenService(cfg.JWT.Secret, 0))

	server := httpx.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		httpx.RecoveryMiddleware(logger),
		httpx.LoggingMiddleware(logger, m),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources (none yet).
func (a *App) Close() {}
