// SPDX-License-Identifier: MIT

// Package intmath holds the small integer helpers shared by the prime
// packages: exact floor square root and a few overflow-aware conversions.
//
// Everything here works on uint64 and never allocates.
package intmath

import (
	"math"
	"math/bits"
)

// maxSqrt is ⌊√(2^64−1)⌋; any root above it would overflow when squared.
const maxSqrt = math.MaxUint32

// Sqrt returns ⌊√x⌋ exactly.
//
// The float64 estimate is off by at most a few units once x exceeds 2^53,
// so it is corrected in both directions with integer arithmetic.
//
// Complexity: O(1).
func Sqrt(x uint64) uint64 {
	if x < 2 {
		return x
	}
	r := uint64(math.Sqrt(float64(x)))
	if r > maxSqrt {
		r = maxSqrt
	}
	for r*r > x {
		r--
	}
	for r < maxSqrt && (r+1)*(r+1) <= x {
		r++
	}

	return r
}

// Ln returns the natural logarithm of x as a float64 (−Inf for 0).
func Ln(x uint64) float64 {
	return math.Log(float64(x))
}

// MulOverflows reports whether a*b does not fit in a uint64.
func MulOverflows(a, b uint64) bool {
	hi, _ := bits.Mul64(a, b)

	return hi != 0
}

// FloorToUint64 converts a non-negative finite float to uint64, reporting
// false when f is negative, NaN, or too large to represent.
func FloorToUint64(f float64) (uint64, bool) {
	if math.IsNaN(f) || f < 0 || f >= math.MaxUint64 {
		return 0, false
	}

	return uint64(math.Floor(f)), true
}
