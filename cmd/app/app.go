package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"shiftsite/internal/config"
	"shiftsite/internal/database"
	handlers "shiftsite/internal/handler"
	"shiftsite/internal/metrics"
	"shiftsite/internal/middleware"
	"shiftsite/internal/provider"
	"shiftsite/internal/repository"
	"shiftsite/internal/service"
	"shiftsite/internal/storage"
	"shiftsite/internal/web"
)

// App is the assembled server: connections, services and the routed handler.
type App struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Handler  http.Handler

	limiter *middleware.RateLimiter
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		db.CloseDB()
		return nil, err
	}
	if err := minioClient.EnsureBucket(ctx); err != nil {
		db.CloseDB()
		return nil, err
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("ошибка при загрузке шаблонов: %w", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	authClient := provider.NewClient(repo, provider.NewLogMailer(logger), cfg, provider.WithLogger(logger))
	services := service.NewService(repo, db.DB, authClient, minioClient, collector, logger)

	limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst), logger)

	h := handlers.NewHandlers(services, renderer, cfg, logger)
	router := handlers.NewRouter(h, handlers.RouterDeps{
		Logger:            logger,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		HTTPMetrics:       collector,
		MetricsHandler:    metrics.Handler(registry),
		AuthLimiter:       limiter,
	})

	return &App{
		DB:       db,
		Repo:     repo,
		Services: services,
		Handler:  router,
		limiter:  limiter,
	}, nil
}

func (a *App) Close() error {
	a.limiter.Stop()
	return a.DB.CloseDB()
}
