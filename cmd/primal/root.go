// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/primal/config"
	"github.com/katalvlaran/primal/nthprime"
	"github.com/katalvlaran/primal/trace"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfgPath   string
	verbose   bool
	strategy  string
	threshold uint64

	cfg    *config.Config
	logger *zap.Logger
}

func newApp() *app { return &app{} }

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "primal",
		Short: "Exact n-th primes, prime counts and primorials",
		Long: `primal computes p_n, the n-th prime, exactly.

Small indices are stepped from 1 with a probable-prime successor; large ones
are estimated, corrected with a Legendre prime count over a wheel sieve, and
finished with a short walk.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.cfgPath, "config", "c", "", "path to a YAML config file")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log every computation stage")
	f.StringVar(&a.strategy, "strategy", "", "force a path: auto, sequential or sieve")
	f.Uint64Var(&a.threshold, "threshold", 0, "smallest n the auto strategy sieves for")

	root.AddCommand(
		newNthCmd(a),
		newPiCmd(a),
		newPrimorialCmd(a),
		newServeCmd(a),
	)

	return root
}

// setup loads the configuration, applies flag overrides and builds the
// logger unless one was injected.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.strategy != "" {
		cfg.Strategy = a.strategy
	}
	if a.threshold != 0 {
		cfg.Threshold = a.threshold
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger != nil {
		return nil
	}
	zc := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	a.logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// nthOptions returns the configured driver options with stage logging.
func (a *app) nthOptions(extra ...trace.Sink) []nthprime.Option {
	sink := trace.Multi(append([]trace.Sink{trace.Zap(a.logger)}, extra...)...)

	return append(a.cfg.NthOptions(), nthprime.WithTrace(sink))
}

// parseUint accepts plain decimals and the 1e9 shorthand.
func parseUint(s string) (uint64, error) {
	if mant, exp, ok := strings.Cut(strings.ToLower(s), "e"); ok {
		m, err := strconv.ParseUint(mant, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", s)
		}
		e, err := strconv.ParseUint(exp, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", s)
		}
		for ; e > 0; e-- {
			if m > math.MaxUint64/10 {
				return 0, fmt.Errorf("number %q overflows uint64", s)
			}
			m *= 10
		}

		return m, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}

	return v, nil
}
