// SPDX-License-Identifier: MIT

package nthprime

import (
	"fmt"
	"math/big"

	"github.com/katalvlaran/primal/estimate"
	"github.com/katalvlaran/primal/intmath"
	"github.com/katalvlaran/primal/primepi"
	"github.com/katalvlaran/primal/sieve"
	"github.com/katalvlaran/primal/trace"
)

// margin scales the linear correction so that Y stays below p_n for the
// typical case; prime-count fluctuations can still beat it, see backoff.
const margin = 0.99

// refiner holds the per-call state of the sieve path:
// target n, bounds X < Y, and the oracle that counts them.
type refiner struct {
	n    uint64
	opts Options

	x, y   uint64
	corr   uint64 // Y − X
	oracle *primepi.Oracle
}

// run drives Estimate → Correct → Walk and leaves p_n in z.
func (r *refiner) run(z *big.Int) error {
	if err := r.estimate(); err != nil {
		return err
	}
	delta2, err := r.correct()
	if err != nil {
		return err
	}
	r.walk(z, delta2)

	return nil
}

// estimate computes X and builds the oracle over the base primes ≤ √(1.01·X).
func (r *refiner) estimate() error {
	x, err := estimate.Lower(r.n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIndexTooLarge, err)
	}
	r.x = x
	r.opts.sink.Trace(trace.Event{Stage: trace.StageEstimate, N: r.n, Value: x})

	limit := estimate.SieveLimit(x)
	s, err := sieve.New(limit)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIndexTooLarge, err)
	}
	s.Release()
	r.opts.sink.Trace(trace.Event{Stage: trace.StageSieve, N: r.n, Value: limit, Count: uint64(s.Len())})

	r.oracle = primepi.FromSieve(s,
		primepi.WithMemoLimit(r.opts.memoLimit),
		primepi.WithTrace(r.opts.sink),
	)

	return nil
}

// correct moves X up by the linear correction to Y and returns the number of
// primes in (Y, p_n]. It never returns a Y with π(Y) ≥ n.
func (r *refiner) correct() (uint64, error) {
	c, err := r.oracle.Pi(r.x)
	if err != nil {
		return 0, err
	}
	if c >= r.n {
		return 0, fmt.Errorf("%w: π(%d) = %d ≥ n = %d", ErrOvershoot, r.x, c, r.n)
	}
	delta := r.n - c

	corr, ok := intmath.FloorToUint64(float64(delta) * margin * intmath.Ln(r.x))
	if !ok || r.x+corr < r.x {
		return 0, fmt.Errorf("%w: bound %d + %g overflows", ErrIndexTooLarge, r.x, float64(delta)*margin*intmath.Ln(r.x))
	}
	r.corr = corr
	r.y = r.x + corr
	r.opts.sink.Trace(trace.Event{Stage: trace.StageCorrect, N: r.n, Value: r.y, Delta: delta})

	return r.backoff()
}

// maxBackoffs bounds the halvings of a 64-bit correction before Y = X.
const maxBackoffs = 64

// backoff counts π(Y) and, while Y has reached p_n, halves the correction
// toward X and counts again. After maxBackoffs halvings Y = X, whose count
// correct has already found below n, so the loop ends with a positive deficit.
func (r *refiner) backoff() (uint64, error) {
	for halvings := 0; ; halvings++ {
		if !r.oracle.Covers(r.y) {
			return 0, fmt.Errorf("%w: Y = %d with sieve limit %d",
				ErrInsufficientCoverage, r.y, r.oracle.Limit())
		}
		c, err := r.oracle.Pi(r.y)
		if err != nil {
			return 0, err
		}
		if c < r.n {
			return r.n - c, nil
		}
		if halvings == maxBackoffs {
			return 0, fmt.Errorf("%w: π(%d) = %d ≥ n = %d after %d halvings",
				ErrOvershoot, r.y, c, r.n, halvings)
		}

		r.corr /= 2
		r.y = r.x + r.corr
		r.opts.sink.Trace(trace.Event{Stage: trace.StageBackoff, N: r.n, Value: r.y, Count: c})
	}
}

// walk sets z to Y and applies the successor delta times.
func (r *refiner) walk(z *big.Int, delta uint64) {
	r.opts.sink.Trace(trace.Event{Stage: trace.StageWalk, N: r.n, Value: r.y, Count: delta})

	z.SetUint64(r.y)
	for i := uint64(0); i < delta; i++ {
		r.opts.successor.Next(z, z)
	}
}
