package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

type Config struct {
	Addr     string
	Password string
	DB       int
	// PoolSize of 0 keeps the go-redis default.
	PoolSize int
}

// Connect opens a client for the idempotency cache and fails unless the
// server answers a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	if err := Ping(rdb)(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Ping returns a readiness probe for rdb.
func Ping(rdb redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		return nil
	}
}
