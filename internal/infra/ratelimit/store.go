package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	memoryStorage "github.com/gofiber/storage/memory/v2"
	redisStorage "github.com/gofiber/storage/redis/v2"
	"github.com/redis/go-redis/v9"

	"toolszone/internal/infra/logging"
)

// RedisConfig points the limiter at a Redis database. An empty Addr keeps
// counters in process memory.
type RedisConfig struct {
	Addr string
	DB   int
}

// NewStore returns limiter storage: memory when no Redis address is
// configured, Redis otherwise. A configured Redis that does not answer a
// ping is an error; counters are never split between backends.
func NewStore(cfg RedisConfig) (fiber.Storage, error) {
	if cfg.Addr == "" {
		logging.Info("Using in-memory storage for rate limiting")
		return memoryStorage.New(), nil
	}

	if err := ping(cfg); err != nil {
		return nil, fmt.Errorf("rate limit redis at %s: %w", cfg.Addr, err)
	}

	logging.Info("Using Redis for rate limiting", "addr", cfg.Addr, "db", cfg.DB)
	return redisStorage.New(redisStorage.Config{
		Addrs:    []string{cfg.Addr},
		Database: cfg.DB,
	}), nil
}

func ping(cfg RedisConfig) error {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return rdb.Ping(ctx).Err()
}
