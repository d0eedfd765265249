package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/travisk/storage-dashboard-go/internal/config"
	"github.com/travisk/storage-dashboard-go/internal/domain"
	"github.com/travisk/storage-dashboard-go/internal/handler"
	"github.com/travisk/storage-dashboard-go/internal/infra/cache"
	"github.com/travisk/storage-dashboard-go/internal/infra/client"
	"github.com/travisk/storage-dashboard-go/internal/infra/favorites"
	"github.com/travisk/storage-dashboard-go/internal/infra/observability"
	"github.com/travisk/storage-dashboard-go/internal/infra/resilience"
	"github.com/travisk/storage-dashboard-go/internal/infra/store"
	"github.com/travisk/storage-dashboard-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("use_remote_dataset", cfg.UseRemoteDataset),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Bool("auth_enabled", cfg.AuthEnabled),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "storage-dashboard")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	analyticsCache := cache.New[any](cfg.CacheTTL)

	// --- Dataset ---
	projects, dealBook, err := loadDataset(cfg, metrics, logger)
	if err != nil {
		logger.Fatal("failed to load dataset", zap.Error(err))
	}
	snap := store.NewSnapshot(projects, dealBook)
	logger.Info("snapshot built",
		zap.Int("projects", len(snap.Projects)),
		zap.Int("deals", len(snap.Deals)),
	)

	// --- Services ---
	svc := service.NewDashboardService(snap, analyticsCache, metrics, logger)
	exportSvc := service.NewExportService(snap, metrics, logger, cfg.ExportDir)
	favSvc := service.NewFavoritesService(favorites.NewFileStore(cfg.FavoritesFile), snap, logger)

	var authSvc *service.AuthService
	if cfg.AuthEnabled {
		authSvc = service.NewAuthService(cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTAccessTTL, logger)
		logger.Info("auth enabled, favorite mutations require a token")
	}

	// --- Router ---
	router := handler.NewRouter(svc, exportSvc, favSvc, authSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// loadDataset resolves the project list from the configured source. A remote
// fetch failure falls back to the bundled seed so the dashboard still comes up.
func loadDataset(cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) ([]domain.Project, store.DealBook, error) {
	dealBook, err := store.LoadDealBook()
	if err != nil {
		return nil, store.DealBook{}, err
	}

	if cfg.UseRemoteDataset {
		resilienceCfg := resilience.Config{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
			MaxConcurrency: cfg.MaxConcurrency,
		}
		cb := resilience.NewCircuitBreaker("dataset")
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		datasetClient := client.NewDatasetClient(httpClient, cfg.DatasetURL, cb, resilienceCfg)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()

		projects, err := datasetClient.FetchProjects(ctx)
		if err == nil {
			logger.Info("dataset fetched from remote", zap.String("url", cfg.DatasetURL))
			return projects, dealBook, nil
		}
		metrics.IncrDatasetError("remote")
		logger.Warn("remote dataset unavailable, falling back to bundled seed", zap.Error(err))
	}

	projects, err := store.LoadProjects(cfg.DataFile)
	if err != nil {
		return nil, store.DealBook{}, err
	}
	return projects, dealBook, nil
}
