// SPDX-License-Identifier: MIT

// Package estimate brackets the n-th prime with classical asymptotic bounds
// and sizes the base-prime sieve used by the counting oracle.
//
// Bounds (n ≥ 2 for the lower, n ≥ 6 for the upper):
//
//	n·(ln n + ln ln n − 1) < p_n < n·(ln n + ln ln n)
//
// The lower bound is the driver's starting point: the refinement loop in
// package nthprime only ever moves upward, so an estimate that lands below
// p_n is what it relies on.
package estimate

import (
	"errors"
	"math"

	"github.com/katalvlaran/primal/intmath"
)

// MinSieveLimit is the smallest sieve bound SieveLimit returns. For tiny
// estimates the 1% headroom is narrower than a single prime gap; 1024 covers
// every refined bound below 1024² without a second sieve pass.
const MinSieveLimit = 1024

// ErrOverflow indicates that a bound does not fit in a uint64.
var ErrOverflow = errors.New("estimate: bound overflows uint64")

// smallPrimes backs Upper for n < 6 where the asymptotic form does not hold.
var smallPrimes = [...]uint64{0, 2, 3, 5, 7, 11}

// Lower returns X = ⌊n·(ln n + ln ln n − 1)⌋, clamped to at least 1.
//
// For n ≤ 2 the formula is undefined or non-positive, so 1 is returned: every
// prime lies above it. Lower is a pure function of n.
//
// Complexity: O(1).
func Lower(n uint64) (uint64, error) {
	if n < 3 {
		return 1, nil
	}
	fn := float64(n)
	ln := math.Log(fn)
	x, ok := intmath.FloorToUint64(fn * (ln + math.Log(ln) - 1))
	if !ok {
		return 0, ErrOverflow
	}
	if x < 1 {
		x = 1
	}

	return x, nil
}

// Upper returns a value strictly above p_n: ⌈n·(ln n + ln ln n)⌉ for n ≥ 6,
// the exact prime (plus one) below that.
func Upper(n uint64) (uint64, error) {
	if n < uint64(len(smallPrimes)) {
		return smallPrimes[n] + 1, nil
	}
	fn := float64(n)
	ln := math.Log(fn)
	x, ok := intmath.FloorToUint64(math.Ceil(fn * (ln + math.Log(ln))))
	if !ok {
		return 0, ErrOverflow
	}

	return x, nil
}

// SieveLimit returns ⌊√(1.01·x)⌋, never less than MinSieveLimit.
//
// The extra 1% leaves room for the refined bound Y > X computed by the
// driver, so the base primes sieved for X still cover √Y.
func SieveLimit(x uint64) uint64 {
	padded := x + x/100
	if padded < x { // wrapped
		padded = math.MaxUint64
	}
	limit := intmath.Sqrt(padded)
	if limit < MinSieveLimit {
		return MinSieveLimit
	}

	return limit
}
