package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/pantry/backend/config"
)

// NewRedisClient creates a new Redis client. It returns nil without an error
// when no Redis server is configured.
func NewRedisClient(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	if !cfg.RedisEnabled() {
		logger.Info("Redis not configured, rate limiting and session revocation disabled")
		return nil, nil
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}
	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// Use Redis URL if provided (for production deployments)
	if cfg.RedisURL != "" {
		parsedOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsedOpts
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis", zap.String("addr", opts.Addr))
	return client, nil
}
