package app

import (
	"context"
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"dropzero/backend/libs/auth"
	"dropzero/backend/libs/httpx"
	"dropzero/backend/libs/metrics"
	appconfig "dropzero/backend/services/auth-service/internal/config"
	"dropzero/backend/services/auth-service/internal/db"
	"dropzero/backend/services/auth-service/internal/http"
	"dropzero/backend/services/auth-service/internal/http/handlers"
	"dropzero/backend/services/auth-service/internal/password"
	"dropzero/backend/services/auth-service/internal/repository"
	"dropzero/backend/services/auth-service/internal/service"
)

// App wires dependencies for the auth service.
type App struct {
	server *httpx.Server
	db     *sql.DB
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

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	userRepo := repository.NewUserRepository(sqlDB)
	hasher := password.NewBcryptHasher(cfg.Signup.BcryptCost)
	tokenSvc := auth.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authSvc := service.NewAuthService(userRepo, hasher, tokenSvc, cfg.Signup.AllowAdmin, logger)

	routes := httpserver.Routes{
		Register:      handlers.NewRegisterHandler(authSvc, logger),
		Login:         handlers.NewLoginHandler(authSvc, logger),
		GetProfile:    handlers.NewGetProfileHandler(authSvc, logger),
		UpdateProfile: handlers.NewUpdateProfileHandler(authSvc, logger),
		Health:        handlers.NewHealthHandler(),
		Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	router := httpserver.NewRouter(routes, tokenSvc)
	server := httpx.NewServer(cfg.HTTPAddress(), router, logger,
		httpx.RecoveryMiddleware(logger),
		httpx.LoggingMiddleware(logger, m),
	)

	return &App{
		server: server,
		db:     sqlDB,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
