package cache

import (
	"context"

	"github.com/Domenick1991/aircheckin/config"
	"github.com/redis/go-redis/v9"
)

// NewClient builds a redis client from config. The same client backs both
// the seat lock and the idempotency store; it is the only cross-instance
// coordination point.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

// Ping verifies connectivity at startup.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
