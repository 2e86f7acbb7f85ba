// SPDX-License-Identifier: MIT

// Package cache stores computed results for the HTTP front end.
//
// A Store is a plain string key/value store; Memory keeps a bounded LRU in
// process and Redis shares results between replicas. Loader sits in front of
// a Store and coalesces concurrent computations of the same key, so a burst
// of identical requests for a large index runs the computation once.
package cache

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/primal/config"
)

const keyPrefix = "primal:"

// Store is a string key/value store.
//
// Get reports ok=false with a nil error for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open builds the Store selected by cfg.Kind.
func Open(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	switch cfg.Kind {
	case config.CacheNone:
		return Nop{}, nil
	case config.CacheMemory:
		return NewMemory(cfg.Size), nil
	case config.CacheRedis:
		r, err := NewRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("cache: unknown kind %q", cfg.Kind)
	}
}

// Nop stores nothing.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (Nop) Set(context.Context, string, string) error         { return nil }
func (Nop) Close() error                                      { return nil }

// Loader reads through a Store and computes misses once per key at a time.
type Loader struct {
	store  Store
	group  singleflight.Group
	logger *zap.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// NewLoader wraps store. A nil logger discards store failures.
func NewLoader(store Store, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{
		store:  store,
		logger: logger.With(zap.String("component", "result-cache")),
	}
}

// Load returns the value for key, calling compute on a miss and storing its
// result. cached reports whether the value came from the store.
//
// Each call counts once in Stats: a hit when the first lookup finds the key,
// a miss otherwise. Store failures are logged and treated as misses; only
// compute errors are returned, and they are not cached.
func (l *Loader) Load(ctx context.Context, key string, compute func() (string, error)) (value string, cached bool, err error) {
	key = keyPrefix + key
	if v, ok := l.get(ctx, key); ok {
		l.hits.Add(1)
		return v, true, nil
	}
	l.misses.Add(1)

	res, err, _ := l.group.Do(key, func() (interface{}, error) {
		// a flight that finished just before this one may have stored it
		if v, ok := l.get(ctx, key); ok {
			return lookup{value: v, cached: true}, nil
		}
		v, err := compute()
		if err != nil {
			return lookup{}, err
		}
		if err := l.store.Set(ctx, key, v); err != nil {
			l.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}

		return lookup{value: v}, nil
	})
	if err != nil {
		return "", false, err
	}
	r := res.(lookup)

	return r.value, r.cached, nil
}

// Stats returns the hit and miss counts.
func (l *Loader) Stats() (hits, misses int64) {
	return l.hits.Load(), l.misses.Load()
}

type lookup struct {
	value  string
	cached bool
}

func (l *Loader) get(ctx context.Context, key string) (string, bool) {
	v, ok, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}

	return v, ok
}
