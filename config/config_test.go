package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/primal/config"
	"github.com/katalvlaran/primal/nthprime"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "primal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, uint64(nthprime.DefaultThreshold), cfg.Threshold)
	assert.Equal(t, "auto", cfg.Strategy)
	assert.Equal(t, config.CacheMemory, cfg.Cache.Kind)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
threshold: 5000
strategy: sieve
workers: 8
logging:
  level: debug
server:
  addr: 127.0.0.1:9999
  readTimeout: 3s
cache:
  kind: redis
  addr: redis:6379
  ttl: 1h
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(5000), cfg.Threshold)
	assert.Equal(t, "sieve", cfg.Strategy)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout, "untouched fields keep defaults")
	assert.Equal(t, config.CacheRedis, cfg.Cache.Kind)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "threshold: 5000\nstrategy: sieve\n")
	t.Setenv("PRIMAL_THRESHOLD", "77")
	t.Setenv("PRIMAL_STRATEGY", "sequential")
	t.Setenv("PRIMAL_CACHE_KIND", "none")
	t.Setenv("PRIMAL_CACHE_TTL", "90s")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), cfg.Threshold)
	assert.Equal(t, "sequential", cfg.Strategy)
	assert.Equal(t, config.CacheNone, cfg.Cache.Kind)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("bad yaml", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "threshold: [1, 2"))
		assert.Error(t, err)
	})
	t.Run("bad env number", func(t *testing.T) {
		t.Setenv("PRIMAL_WORKERS", "many")
		_, err := config.Load("")
		assert.ErrorIs(t, err, config.ErrInvalid)
	})
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*config.Config){
		"zero threshold":   func(c *config.Config) { c.Threshold = 0 },
		"negative memo":    func(c *config.Config) { c.MemoLimit = -1 },
		"no workers":       func(c *config.Config) { c.Workers = 0 },
		"zero max index":   func(c *config.Config) { c.Server.MaxIndex = 0 },
		"unknown strategy": func(c *config.Config) { c.Strategy = "lmo" },
		"unknown cache":    func(c *config.Config) { c.Cache.Kind = "memcached" },
		"empty memory":     func(c *config.Config) { c.Cache.Size = 0 },
		"redis no addr":    func(c *config.Config) { c.Cache.Kind, c.Cache.Addr = config.CacheRedis, "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}

func TestNthOptions_DriveTheComputation(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = "sieve"
	cfg.MemoLimit = 0

	p, err := nthprime.Nth(1000, cfg.NthOptions()...)
	require.NoError(t, err)
	assert.Equal(t, "7919", p.String())
}
