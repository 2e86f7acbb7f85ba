// SPDX-License-Identifier: MIT

// Package primepi counts primes: π(x) is the number of primes ≤ x.
//
// An Oracle is built from an ascending base-prime list that contains every
// prime up to a limit L. Queries come in two flavours:
//
//   - x ≤ L: binary search in the list, O(log π(L)).
//   - x > L: Legendre's formula
//
//     π(x) = π(√x) + φ(x, a) − 1,  a = π(√x)
//
//     where φ(x, a) counts the integers in [1, x] with no prime factor among
//     the first a primes. φ unrolls over the base primes,
//
//     φ(x, a) = φ(x, 2) − Σ_{2 ≤ i < a} φ(⌊x/pᵢ⌋, i)      (0-based pᵢ)
//
//     and bottoms out in closed forms for a ≤ 2 (φ(x, 2) counts the mod-6
//     wheel) and, whenever x < p_{a+1}², in φ(x, a) = 1 + π(x) − a, which
//     recurses back into π for a smaller argument.
//
// Precondition: ⌊√x⌋ ≤ L. A query the list cannot answer exactly returns
// ErrInsufficientCoverage; this is a sizing bug in the caller, not a data
// error, and retrying with the same Oracle cannot succeed.
//
// Complexity:
//
//   - Without memoisation the φ recursion branches once per base prime and
//     is exponential in a in the worst case.
//   - A bounded memo keyed by (value, index) plus the x < p_{a+1}² cut keep the
//     practical cost well below x^(3/4) for the x a 64-bit n-th prime needs.
//     Asymptotically better methods (Meissel–Lehmer, LMO) are out of scope.
//
// An Oracle is not safe for concurrent use; build one per goroutine.
package primepi

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/primal/intmath"
	"github.com/katalvlaran/primal/sieve"
	"github.com/katalvlaran/primal/trace"
)

// ErrInsufficientCoverage indicates that the base primes stop below √x.
var ErrInsufficientCoverage = errors.New("primepi: base primes do not cover √x")

// Stats counts the work done by an Oracle since it was built.
type Stats struct {
	PiCalls  uint64 // π evaluations above the table limit
	PhiCalls uint64 // φ evaluations
	MemoHits uint64 // φ and π values served from the memo
}

type phiKey struct {
	x, a uint64
}

// Oracle answers π(x) from a fixed base-prime list.
type Oracle struct {
	primes  []uint64
	limit   uint64
	opts    Options
	phiMemo map[phiKey]uint64
	piMemo  map[uint64]uint64
	stats   Stats
}

// New returns an Oracle over primes, which must be the ascending list of all
// primes ≤ limit (as produced by package sieve). The slice is not copied.
func New(primes []uint64, limit uint64, opts ...Option) *Oracle {
	cfg := gatherOptions(opts)
	o := &Oracle{
		primes: primes,
		limit:  limit,
		opts:   cfg,
	}
	if cfg.memoLimit > 0 {
		o.phiMemo = make(map[phiKey]uint64)
		o.piMemo = make(map[uint64]uint64)
	}

	return o
}

// FromSieve builds an Oracle over the list extracted by s. The sieve's
// bitmap may be released afterwards.
func FromSieve(s *sieve.Sieve, opts ...Option) *Oracle {
	return New(s.Primes(), s.Limit(), opts...)
}

// Count returns π(x), sieving the base primes up to ⌊√x⌋ first.
func Count(x uint64, opts ...Option) (uint64, error) {
	s, err := sieve.New(intmath.Sqrt(x))
	if err != nil {
		return 0, err
	}
	s.Release()

	return FromSieve(s, opts...).Pi(x)
}

// Limit returns the bound L up to which the base list is complete.
func (o *Oracle) Limit() uint64 { return o.limit }

// Available returns the number of base primes.
func (o *Oracle) Available() int { return len(o.primes) }

// Stats returns the work counters.
func (o *Oracle) Stats() Stats { return o.stats }

// Covers reports whether π(x) is answerable: ⌊√x⌋ ≤ L.
func (o *Oracle) Covers(x uint64) bool {
	return intmath.Sqrt(x) <= o.limit
}

// Pi returns the number of primes ≤ x.
func (o *Oracle) Pi(x uint64) (uint64, error) {
	if !o.Covers(x) {
		return 0, fmt.Errorf("%w: ⌊√%d⌋ = %d exceeds limit %d",
			ErrInsufficientCoverage, x, intmath.Sqrt(x), o.limit)
	}
	c := o.pi(x)
	o.opts.sink.Trace(trace.Event{Stage: trace.StageCount, Value: x, Count: c})

	return c, nil
}

// rank returns the number of base primes ≤ x.
func (o *Oracle) rank(x uint64) uint64 {
	return uint64(sort.Search(len(o.primes), func(i int) bool { return o.primes[i] > x }))
}

func (o *Oracle) pi(x uint64) uint64 {
	if x <= o.limit {
		return o.rank(x)
	}
	if v, ok := o.piMemo[x]; ok {
		o.stats.MemoHits++
		return v
	}
	o.stats.PiCalls++

	a := o.rank(intmath.Sqrt(x))
	v := a + o.legendre(x, a) - 1

	if len(o.piMemo) < o.opts.memoLimit {
		o.piMemo[x] = v
	}

	return v
}

// phi returns φ(x, a), taking every shortcut available.
func (o *Oracle) phi(x, a uint64) uint64 {
	o.stats.PhiCalls++
	switch {
	case x == 0:
		return 0
	case a == 0:
		return x
	case a == 1:
		return x - x/2
	case a == 2:
		return sieve.CoprimeCount(x)
	}

	// x < p_{a+1}²: what survives is 1 and the primes in (p_a, x].
	// π's own call skips this cut, so the recursion always shrinks x.
	if a < uint64(len(o.primes)) {
		if p := o.primes[a]; x/p < p {
			if c := o.pi(x); c > a {
				return c - a + 1
			}
			return 1
		}
	}

	return o.legendre(x, a)
}

// legendre expands φ(x, a) over the base primes p_2 … p_{a−1}.
func (o *Oracle) legendre(x, a uint64) uint64 {
	if a <= 2 {
		return o.phi(x, a)
	}
	key := phiKey{x: x, a: a}
	if v, ok := o.phiMemo[key]; ok {
		o.stats.MemoHits++
		return v
	}

	v := sieve.CoprimeCount(x)
	var q uint64
	for i := uint64(2); i < a; i++ {
		q = x / o.primes[i]
		if q == 0 {
			break
		}
		v -= o.phi(q, i)
	}

	if len(o.phiMemo) < o.opts.memoLimit {
		o.phiMemo[key] = v
	}

	return v
}
