package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCacheAdapter stores serialized quiz sessions in Redis. Entries always carry a TTL
// so abandoned sessions expire on their own.
type RedisCacheAdapter struct {
	client *redis.Client
}

// NewRedisCacheAdapter wraps an already connected client (see cache.NewRedisClient).
func NewRedisCacheAdapter(client *redis.Client) domain.Cache {
	return &RedisCacheAdapter{client: client}
}

// Get returns domain.ErrCacheMiss for unknown or expired keys.
func (r *RedisCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set overwrites the value and resets its TTL. A non-positive expiration keeps the key
// forever, which the session store never asks for.
func (r *RedisCacheAdapter) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		logger.Get().Error("Failed to write session to Redis",
			zap.String("key", key),
			zap.Int("bytes", len(value)),
			zap.Duration("ttl", expiration),
			zap.Error(err))
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete is a no-op for missing keys.
func (r *RedisCacheAdapter) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisCacheAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ domain.Cache = (*RedisCacheAdapter)(nil)
