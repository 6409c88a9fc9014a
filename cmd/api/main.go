package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/pantry/backend/config"
	"github.com/pageza/pantry/backend/internal/api"
	"github.com/pageza/pantry/backend/internal/database"
	"github.com/pageza/pantry/backend/internal/logger"
	"github.com/pageza/pantry/backend/internal/metrics"
	"github.com/pageza/pantry/backend/internal/middleware"
	"github.com/pageza/pantry/backend/internal/router"
	"github.com/pageza/pantry/backend/internal/server"
	"github.com/pageza/pantry/backend/internal/service"
)

const datasetFetchTimeout = 2 * time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Environment.Verbose(),
	})
	defer func() { _ = zlog.Sync() }()
	zlog.Info("Configuration loaded", zap.String("environment", string(cfg.Environment)))

	db, err := database.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg, zlog)
	if err != nil {
		// Continue without rate limiting or revocation if Redis is not available
		zlog.Warn("Failed to connect to Redis", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	datasetPath := cfg.DatasetPath
	if config.IsS3URI(datasetPath) {
		datasetPath = fetchDataset(cfg, zlog)
	}

	m := metrics.New()
	dataset, err := service.LoadDataset(datasetPath, cfg.ImagesDir, zlog)
	if err != nil {
		zlog.Warn("Recipe dataset only partially loaded", zap.Error(err))
	}
	m.RecordDataset(len(dataset.Recipes), dataset.TierCounts)

	images := service.NewImageLocator(cfg.ImagesDir, cfg.StaticImagesDir())
	catalog := service.NewCatalog(dataset.Recipes, images)

	var revocations service.RevocationStore
	if redisClient != nil {
		revocations = service.NewRedisRevocationStore(redisClient)
	}
	sessions := service.NewSessionService(cfg.SessionSecret, cfg.SessionTTL, revocations)
	limiter := middleware.NewAuthRateLimiter(redisClient, cfg.AuthRateLimit, cfg.AuthRateLimitWin, zlog)

	handlers := api.Handlers{
		Health: api.NewHealthHandler(catalog, db),
		Recipe: api.NewRecipeHandler(catalog, cfg.ImagesDir, m),
		Auth: api.NewAuthHandler(
			service.NewAuthService(db.DB, cfg.BcryptCost),
			sessions,
			limiter,
			m,
			zlog,
			cfg.CookieSecure,
		),
	}
	engine := router.SetupRouter(router.Options{
		Logger:         zlog,
		Metrics:        m,
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
		Environment:    cfg.Environment,
		Debug:          cfg.Debug,
	}, handlers)

	srv := server.New(cfg.Addr(), engine, zlog)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zlog.Fatal("Server error", zap.Error(err))
		}
		return
	case sig := <-quit:
		zlog.Info("Received signal", zap.String("signal", sig.String()))
	}

	zlog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server shutdown error", zap.Error(err))
	}
	zlog.Info("Server stopped")
}

// fetchDataset downloads the dataset from S3. A failed download is logged and
// the service starts with no recipes.
func fetchDataset(cfg *config.Config, zlog *zap.Logger) string {
	ctx, cancel := context.WithTimeout(context.Background(), datasetFetchTimeout)
	defer cancel()

	s3cfg, err := config.NewS3Config(ctx, cfg.AWSRegion)
	if err != nil {
		zlog.Warn("Failed to configure S3 client", zap.Error(err))
		return ""
	}
	path, err := s3cfg.FetchDataset(ctx, cfg.DatasetPath, cfg.DatasetCacheDir)
	if err != nil {
		zlog.Warn("Failed to fetch dataset from S3", zap.String("uri", cfg.DatasetPath), zap.Error(err))
		return ""
	}
	zlog.Info("Dataset fetched from S3", zap.String("uri", cfg.DatasetPath), zap.String("path", path))
	return path
}
