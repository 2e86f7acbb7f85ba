// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/katalvlaran/primal/cache"
	"github.com/katalvlaran/primal/config"
	"github.com/katalvlaran/primal/nthprime"
	"github.com/katalvlaran/primal/primepi"
	"github.com/katalvlaran/primal/trace"
)

type nthResponse struct {
	N      uint64 `json:"n"`
	Prime  string `json:"prime"`
	Cached bool   `json:"cached"`
}

type piResponse struct {
	X      uint64 `json:"x"`
	Count  uint64 `json:"count"`
	Cached bool   `json:"cached"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// server answers HTTP queries through a result cache.
type server struct {
	cfg      *config.Config
	loader   *cache.Loader
	registry *prometheus.Registry
	sink     trace.Sink
	logger   *zap.Logger
}

// newServer registers the stage metrics and cache counters on a fresh
// registry, so several servers can coexist in one process.
func newServer(cfg *config.Config, store cache.Store, logger *zap.Logger) (*server, error) {
	reg := prometheus.NewRegistry()
	metrics, err := trace.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	s := &server{
		cfg:      cfg,
		loader:   cache.NewLoader(store, logger),
		registry: reg,
		sink:     trace.Multi(trace.Zap(logger), metrics),
		logger:   logger.With(zap.String("component", "http")),
	}

	cacheCounters := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "primal",
			Name:      "cache_hits_total",
			Help:      "Results served from the cache.",
		}, func() float64 { h, _ := s.loader.Stats(); return float64(h) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "primal",
			Name:      "cache_misses_total",
			Help:      "Cache lookups that found nothing.",
		}, func() float64 { _, m := s.loader.Stats(); return float64(m) }),
	}
	for _, c := range cacheCounters {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering cache metrics: %w", err)
		}
	}

	return s, nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/nth/{n}", s.handleNth)
	mux.HandleFunc("GET /v1/pi/{x}", s.handlePi)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return mux
}

func (s *server) handleNth(w http.ResponseWriter, r *http.Request) {
	n, err := parseUint(r.PathValue("n"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if n > s.cfg.Server.MaxIndex {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: fmt.Sprintf("n = %d exceeds the served maximum %d", n, s.cfg.Server.MaxIndex),
		})
		return
	}

	v, cached, err := s.loader.Load(r.Context(), "nth:"+strconv.FormatUint(n, 10), func() (string, error) {
		p, err := nthprime.Nth(n, append(s.cfg.NthOptions(), nthprime.WithTrace(s.sink))...)
		if err != nil {
			return "", err
		}
		return p.String(), nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nthResponse{N: n, Prime: v, Cached: cached})
}

func (s *server) handlePi(w http.ResponseWriter, r *http.Request) {
	x, err := parseUint(r.PathValue("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if x > s.cfg.Server.MaxCount {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: fmt.Sprintf("x = %d exceeds the served maximum %d", x, s.cfg.Server.MaxCount),
		})
		return
	}

	v, cached, err := s.loader.Load(r.Context(), "pi:"+strconv.FormatUint(x, 10), func() (string, error) {
		c, err := primepi.Count(x, primepi.WithMemoLimit(s.cfg.MemoLimit), primepi.WithTrace(s.sink))
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(c, 10), nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	c, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		s.writeError(w, fmt.Errorf("corrupt cache entry for pi(%d): %w", x, err))
		return
	}
	writeJSON(w, http.StatusOK, piResponse{X: x, Count: c, Cached: cached})
}

// writeError maps computation errors to status codes.
func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, nthprime.ErrIndexTooLarge) {
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("computation failed", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
