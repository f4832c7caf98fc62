// Package cache is a small key/value store with expiry. Session revocations
// live here so that a logout is honoured by every instance sharing Redis.
package cache

import (
	"context"
	"time"

	"github.com/shashiranjanraj/cafehub/config"
	"github.com/shashiranjanraj/cafehub/pkg/logger"
)

// Store is implemented by RedisStore and MemoryStore.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Connect returns a Redis-backed store when REDIS_ADDR answers a ping and an
// in-process store otherwise. The second value is a close function.
func Connect(ctx context.Context) (Store, func() error) {
	rs, err := NewRedisStore(ctx, config.RedisAddr(), config.RedisPassword())
	if err != nil {
		logger.Warn("cache: redis unavailable, using in-memory store", "addr", config.RedisAddr(), "error", err)
		return NewMemoryStore(), func() error { return nil }
	}
	logger.Info("cache: redis connected", "addr", config.RedisAddr())
	return rs, rs.Close
}
