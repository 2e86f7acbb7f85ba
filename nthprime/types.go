// SPDX-License-Identifier: MIT

// Package nthprime computes p_n, the n-th prime (p₁ = 2), as a *big.Int.
//
// Two strategies share one driver:
//
//   - Sequential: start at 1 and step to the next prime n times. Exact and
//     overhead-free; the cost is n successor calls.
//   - Sieve: estimate a lower bound X for p_n, sieve the base primes up to
//     √(1.01·X), count π(X) with Legendre's formula, correct the bound to Y
//     and count again, then walk the remaining n − π(Y) primes with the
//     successor. The walk is short because the correction is linear in the
//     rank deficit.
//
// Auto (the default) picks Sequential for n < threshold and Sieve otherwise.
//
// Complexity:
//
//	– Sequential: O(n) successor calls.
//	– Sieve:      O(√X) sieve plus two Legendre counts plus a short walk,
//	              where X ≈ n·ln n.
//
// Options:
//
//	– WithThreshold(t):     switch point for Auto (default DefaultThreshold).
//	– WithStrategy(s):      force Sequential or Sieve.
//	– WithSuccessor(s):     replace the next-prime step (default nextprime.Default).
//	– WithMemoLimit(k):     memo bound of the counting oracle.
//	– WithTrace(sink):      receive one trace.Event per stage.
//
// Errors (sentinel):
//
//	– ErrIndexTooLarge         if n does not fit a big.Word or its bounds overflow.
//	– ErrOvershoot             if π(X) already reaches n.
//	– ErrInsufficientCoverage  if the base primes stop below √Y.
//
// Convention: n = 0 yields 0 with a nil error. No prime precedes p₁, and 0
// keeps n ↦ p_n strictly increasing on all of ℕ.
//
// Every call is independent: there is no package state, so calls may run on
// any number of goroutines. Batch does exactly that.
package nthprime

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/primal/nextprime"
	"github.com/katalvlaran/primal/primepi"
	"github.com/katalvlaran/primal/trace"
)

// DefaultThreshold is the smallest n the Auto strategy sends to the sieve path.
const DefaultThreshold = 1_000_000

// Sentinel errors returned by the driver.
var (
	// ErrIndexTooLarge indicates that n is outside the supported range.
	ErrIndexTooLarge = errors.New("nthprime: index too large")

	// ErrOvershoot indicates that the lower bound X already has π(X) ≥ n.
	// The estimate is a lower bound for every n it is used for, so this
	// signals a broken estimator rather than bad input.
	ErrOvershoot = errors.New("nthprime: estimate overshoots the n-th prime")

	// ErrInsufficientCoverage indicates that the sieve stopped below √Y.
	// It is the counting oracle's error, re-exported for errors.Is.
	ErrInsufficientCoverage = primepi.ErrInsufficientCoverage
)

// Strategy selects the computation path.
type Strategy int

const (
	// Auto uses Sequential below the threshold and Sieve at or above it.
	Auto Strategy = iota
	// Sequential walks from 1 with the successor.
	Sequential
	// Sieve always estimates, counts and walks, whatever n is.
	Sieve
)

var strategyNames = [...]string{Auto: "auto", Sequential: "sequential", Sieve: "sieve"}

// String returns the lower-case strategy name.
func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}

	return strategyNames[s]
}

// ParseStrategy maps "auto", "sequential" or "sieve" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for i, v := range strategyNames {
		if v == name {
			return Strategy(i), nil
		}
	}

	return Auto, fmt.Errorf("nthprime: unknown strategy %q", name)
}

const (
	panicThreshold = "nthprime: WithThreshold: threshold must be >= 1"
	panicStrategy  = "nthprime: WithStrategy: unknown strategy"
	panicSuccessor = "nthprime: WithSuccessor(nil)"
	panicMemo      = "nthprime: WithMemoLimit: limit must be >= 0"
	panicSink      = "nthprime: WithTrace(nil)"
	panicWorkers   = "nthprime: WithWorkers: workers must be >= 1"
)

// Options configures a call. Fields are unexported; use the WithX setters.
type Options struct {
	threshold uint64
	strategy  Strategy
	successor nextprime.Successor
	memoLimit int
	sink      trace.Sink
	workers   int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults:
//   - threshold: DefaultThreshold
//   - strategy:  Auto
//   - successor: nextprime.Default
//   - memoLimit: primepi.DefaultMemoLimit
//   - sink:      trace.Nop
//   - workers:   4 (Batch only)
func DefaultOptions() Options {
	return Options{
		threshold: DefaultThreshold,
		strategy:  Auto,
		successor: nextprime.Default,
		memoLimit: primepi.DefaultMemoLimit,
		sink:      trace.Nop,
		workers:   4,
	}
}

// WithThreshold sets the index from which Auto uses the sieve path.
// Panics if t == 0.
func WithThreshold(t uint64) Option {
	if t == 0 {
		panic(panicThreshold)
	}

	return func(o *Options) { o.threshold = t }
}

// WithStrategy forces a path. Panics on an undefined Strategy.
func WithStrategy(s Strategy) Option {
	if s < Auto || s > Sieve {
		panic(panicStrategy)
	}

	return func(o *Options) { o.strategy = s }
}

// WithSuccessor replaces the next-prime step used by both paths.
// Panics on nil.
func WithSuccessor(s nextprime.Successor) Option {
	if s == nil {
		panic(panicSuccessor)
	}

	return func(o *Options) { o.successor = s }
}

// WithMemoLimit bounds the counting oracle's memo; see primepi.WithMemoLimit.
// Panics on a negative limit.
func WithMemoLimit(limit int) Option {
	if limit < 0 {
		panic(panicMemo)
	}

	return func(o *Options) { o.memoLimit = limit }
}

// WithTrace reports every stage to s. Panics on nil; pass trace.Nop to silence.
func WithTrace(s trace.Sink) Option {
	if s == nil {
		panic(panicSink)
	}

	return func(o *Options) { o.sink = s }
}

// WithWorkers bounds the number of indices Batch computes at once.
// Panics if w < 1.
func WithWorkers(w int) Option {
	if w < 1 {
		panic(panicWorkers)
	}

	return func(o *Options) { o.workers = w }
}

func gatherOptions(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
