// SPDX-License-Identifier: MIT

// Package config loads the primal command configuration from an optional
// YAML file and PRIMAL_* environment overrides, in that order, on top of
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/primal/nthprime"
	"github.com/katalvlaran/primal/primepi"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Cache kinds.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the top-level configuration.
type Config struct {
	Threshold uint64        `yaml:"threshold"`
	Strategy  string        `yaml:"strategy"`
	MemoLimit int           `yaml:"memoLimit"`
	Workers   int           `yaml:"workers"`
	Logging   LoggingConfig `yaml:"logging"`
	Server    ServerConfig  `yaml:"server"`
	Cache     CacheConfig   `yaml:"cache"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig holds HTTP server settings for `primal serve`.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	MaxIndex        uint64        `yaml:"maxIndex"` // largest n served by /v1/nth
	MaxCount        uint64        `yaml:"maxCount"` // largest x served by /v1/pi
}

// CacheConfig selects and sizes the result cache.
type CacheConfig struct {
	Kind     string        `yaml:"kind"`
	Size     int           `yaml:"size"` // entries, memory cache only
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Threshold: nthprime.DefaultThreshold,
		Strategy:  nthprime.Auto.String(),
		MemoLimit: primepi.DefaultMemoLimit,
		Workers:   4,
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxIndex:        1_000_000_000,
			MaxCount:        1_000_000_000_000,
		},
		Cache: CacheConfig{
			Kind: CacheMemory,
			Size: 4096,
			Addr: "localhost:6379",
			TTL:  24 * time.Hour,
		},
	}
}

// Validate reports the first nonsensical field.
func (c *Config) Validate() error {
	switch {
	case c.Threshold == 0:
		return fmt.Errorf("%w: threshold must be >= 1", ErrInvalid)
	case c.MemoLimit < 0:
		return fmt.Errorf("%w: memoLimit must be >= 0", ErrInvalid)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be >= 1", ErrInvalid)
	case c.Server.MaxIndex == 0 || c.Server.MaxCount == 0:
		return fmt.Errorf("%w: server.maxIndex and server.maxCount must be >= 1", ErrInvalid)
	}
	if _, err := nthprime.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch c.Cache.Kind {
	case CacheNone:
	case CacheMemory:
		if c.Cache.Size < 1 {
			return fmt.Errorf("%w: cache.size must be >= 1", ErrInvalid)
		}
	case CacheRedis:
		if c.Cache.Addr == "" {
			return fmt.Errorf("%w: cache.addr is required for redis", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown cache.kind %q", ErrInvalid, c.Cache.Kind)
	}

	return nil
}

// NthOptions turns the computation settings into driver options.
// The config must have passed Validate.
func (c *Config) NthOptions() []nthprime.Option {
	s, _ := nthprime.ParseStrategy(c.Strategy)

	return []nthprime.Option{
		nthprime.WithThreshold(c.Threshold),
		nthprime.WithStrategy(s),
		nthprime.WithMemoLimit(c.MemoLimit),
		nthprime.WithWorkers(c.Workers),
	}
}

// applyEnvOverrides reads PRIMAL_* variables. A value that does not parse is
// an error.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PRIMAL_THRESHOLD"); v != "" {
		t, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: PRIMAL_THRESHOLD: %w", ErrInvalid, err)
		}
		cfg.Threshold = t
	}
	if v := os.Getenv("PRIMAL_STRATEGY"); v != "" {
		cfg.Strategy = v
	}
	if v := os.Getenv("PRIMAL_MEMO_LIMIT"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PRIMAL_MEMO_LIMIT: %w", ErrInvalid, err)
		}
		cfg.MemoLimit = m
	}
	if v := os.Getenv("PRIMAL_WORKERS"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PRIMAL_WORKERS: %w", ErrInvalid, err)
		}
		cfg.Workers = w
	}
	if v := os.Getenv("PRIMAL_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PRIMAL_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PRIMAL_CACHE_KIND"); v != "" {
		cfg.Cache.Kind = v
	}
	if v := os.Getenv("PRIMAL_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("PRIMAL_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("PRIMAL_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: PRIMAL_CACHE_TTL: %w", ErrInvalid, err)
		}
		cfg.Cache.TTL = d
	}

	return nil
}
