package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gotrends/internal/config"
	"github.com/jonesrussell/gotrends/internal/events"
	"github.com/jonesrussell/gotrends/internal/logger"
)

// ErrEmptyAddress is returned when the Redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

// connectionTimeout is the timeout for verifying the Redis connection.
const connectionTimeout = 5 * time.Second

// SetupCrawlPublisher creates an optional crawl request publisher if Redis is
// enabled. Returns nil if Redis is disabled or unavailable; the API then
// reports crawl triggering as unconfigured instead of failing startup.
func SetupCrawlPublisher(cfg *config.Config, log logger.Logger) *events.Publisher {
	if !cfg.Redis.Enabled {
		return nil
	}

	client, err := newRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis not available, crawl triggering disabled",
			logger.Error(err),
		)
		return nil
	}

	log.Info("Crawl publisher initialized",
		logger.String("redis_address", cfg.Redis.Address),
	)
	return events.NewPublisher(client, log)
}

func newRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
