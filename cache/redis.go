// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/katalvlaran/primal/config"
)

// Redis is a Store backed by a Redis server. Entries expire after the
// configured TTL; zero keeps them forever.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to cfg.Addr and verifies the connection with a PING.
func NewRedis(ctx context.Context, cfg config.CacheConfig) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping %s: %w", cfg.Addr, err)
	}

	return &Redis{rdb: rdb, ttl: cfg.TTL}, nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		return "", false, err
	}

	return v, true, nil
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, key, value, r.ttl).Err()
}

// Close closes the connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
