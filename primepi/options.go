// SPDX-License-Identifier: MIT

package primepi

import (
	"github.com/katalvlaran/primal/trace"
)

// DefaultMemoLimit bounds the (value, index) memo of a single Oracle.
// At 16 bytes of key and 8 of value per entry this stays around 2 MiB.
const DefaultMemoLimit = 1 << 16

const (
	panicNegativeMemo = "primepi: WithMemoLimit: limit must be >= 0"
	panicNilSink      = "primepi: WithTrace(nil)"
)

// Options configures an Oracle. Fields are unexported; use the WithX setters.
type Options struct {
	memoLimit int
	sink      trace.Sink
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults:
//   - memoLimit: DefaultMemoLimit
//   - sink:      trace.Nop
func DefaultOptions() Options {
	return Options{
		memoLimit: DefaultMemoLimit,
		sink:      trace.Nop,
	}
}

// WithMemoLimit caps the number of memoised φ and π values. Zero disables
// memoisation and leaves the plain Legendre recursion, whose running time
// grows exponentially with the number of base primes in the worst case.
// Panics on a negative limit.
func WithMemoLimit(limit int) Option {
	if limit < 0 {
		panic(panicNegativeMemo)
	}

	return func(o *Options) { o.memoLimit = limit }
}

// WithTrace reports each top-level π evaluation to s as a StageCount event.
// Panics on nil; pass trace.Nop to silence.
func WithTrace(s trace.Sink) Option {
	if s == nil {
		panic(panicNilSink)
	}

	return func(o *Options) { o.sink = s }
}

func gatherOptions(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
