package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/primal/cache"
	"github.com/katalvlaran/primal/config"
)

// ------------------------------------------------------------------------
// Memory
// ------------------------------------------------------------------------

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(4)

	_, ok, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "a", "2"))
	v, ok, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	require.NoError(t, m.Set(ctx, "a", "3"))
	v, _, _ = m.Get(ctx, "a")
	assert.Equal(t, "3", v)
	assert.Equal(t, 1, m.Len())
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(2)

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, _, _ = m.Get(ctx, "a") // b is now the oldest
	require.NoError(t, m.Set(ctx, "c", "3"))

	_, ok, _ := m.Get(ctx, "b")
	assert.False(t, ok, "b should be evicted")
	_, ok, _ = m.Get(ctx, "a")
	assert.True(t, ok)
	_, ok, _ = m.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, 2, m.Len())
}

func TestMemory_NonPositiveSizeHoldsOne(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(0)
	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	assert.Equal(t, 1, m.Len())
}

func TestMemory_ConcurrentUseStaysBounded(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(16)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := string(rune('a' + (w*200+i)%40))
				assert.NoError(t, m.Set(ctx, key, key))
				v, ok, err := m.Get(ctx, key)
				assert.NoError(t, err)
				if ok {
					assert.Equal(t, key, v)
				}
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, m.Len(), 16)

	require.NoError(t, m.Close())
	assert.Equal(t, 0, m.Len())
}

// ------------------------------------------------------------------------
// Loader
// ------------------------------------------------------------------------

func TestLoader_ComputesOnceThenHits(t *testing.T) {
	l := cache.NewLoader(cache.NewMemory(8), nil)
	calls := 0
	compute := func() (string, error) {
		calls++
		return "7919", nil
	}

	v, cached, err := l.Load(context.Background(), "nth:1000", compute)
	require.NoError(t, err)
	assert.Equal(t, "7919", v)
	assert.False(t, cached)

	v, cached, err = l.Load(context.Background(), "nth:1000", compute)
	require.NoError(t, err)
	assert.Equal(t, "7919", v)
	assert.True(t, cached)
	assert.Equal(t, 1, calls)

	hits, misses := l.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLoader_ErrorsAreNotCached(t *testing.T) {
	l := cache.NewLoader(cache.NewMemory(8), nil)
	boom := errors.New("boom")

	_, _, err := l.Load(context.Background(), "k", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)

	v, cached, err := l.Load(context.Background(), "k", func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.False(t, cached)
}

func TestLoader_CoalescesConcurrentMisses(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := cache.NewLoader(cache.NewMemory(8), nil)
	var calls atomic.Int32
	release := make(chan struct{})
	compute := func() (string, error) {
		calls.Add(1)
		<-release
		return "v", nil
	}

	const n = 16
	var wg sync.WaitGroup
	started := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started <- struct{}{}
			v, _, err := l.Load(context.Background(), "same", compute)
			assert.NoError(t, err)
			assert.Equal(t, "v", v)
		}()
	}
	for i := 0; i < n; i++ {
		<-started
	}
	close(release)
	wg.Wait()

	// late arrivals either join the flight or find the stored value
	assert.Equal(t, int32(1), calls.Load())
	hits, misses := l.Stats()
	assert.Equal(t, int64(n), hits+misses, "every Load counts once")
	v, cached, err := l.Load(context.Background(), "same", compute)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "v", v)
}

// failingStore fails every operation.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("down")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("down") }
func (failingStore) Close() error                              { return nil }

func TestLoader_StoreFailuresAreLoggedMisses(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	l := cache.NewLoader(failingStore{}, zap.New(core))

	v, cached, err := l.Load(context.Background(), "k", func() (string, error) { return "x", nil })
	require.NoError(t, err)
	assert.Equal(t, "x", v)
	assert.False(t, cached)

	assert.Equal(t, 2, logs.FilterMessage("cache get failed").Len())
	hits, misses := l.Stats()
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1, logs.FilterMessage("cache set failed").Len())
	entry := logs.All()[0]
	assert.Equal(t, "result-cache", entry.ContextMap()["component"])
	assert.Equal(t, "primal:k", entry.ContextMap()["key"])
}

// ------------------------------------------------------------------------
// Open
// ------------------------------------------------------------------------

func TestOpen_Kinds(t *testing.T) {
	ctx := context.Background()

	s, err := cache.Open(ctx, config.CacheConfig{Kind: config.CacheNone})
	require.NoError(t, err)
	assert.IsType(t, cache.Nop{}, s)
	require.NoError(t, s.Set(ctx, "a", "b"))
	_, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	s, err = cache.Open(ctx, config.CacheConfig{Kind: config.CacheMemory, Size: 3})
	require.NoError(t, err)
	assert.IsType(t, &cache.Memory{}, s)
	require.NoError(t, s.Close())

	_, err = cache.Open(ctx, config.CacheConfig{Kind: "memcached"})
	assert.Error(t, err)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	s, err := cache.Open(ctx, config.CacheConfig{Kind: config.CacheRedis, Addr: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Nil(t, s)
}
