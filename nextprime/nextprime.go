// SPDX-License-Identifier: MIT

// Package nextprime provides the "next prime after x" step the n-th prime
// driver walks with.
//
// Candidates above x are stepped over odd integers, filtered by trial
// division with the primes below 64, and confirmed with math/big's
// ProbablyPrime. Below 2^64 ProbablyPrime(0) runs Baillie–PSW, which has no
// known counterexample and has been verified exhaustively in that range, so
// the step is exact there; above it Rounds extra Miller–Rabin rounds apply.
package nextprime

import (
	"math"
	"math/big"
)

// DefaultRounds is the Miller–Rabin round count used for candidates wider
// than 64 bits (the same count GMP's test suite uses for mpz_probab_prime_p).
const DefaultRounds = 25

// Successor advances to the next prime.
//
// Next sets z to the smallest prime strictly greater than x and returns z.
// z and x may alias. Implementations must be deterministic.
type Successor interface {
	Next(z, x *big.Int) *big.Int
}

// Prober is the default Successor.
type Prober struct {
	// Rounds is the Miller–Rabin count for candidates above 64 bits.
	Rounds int
}

// Default is the Successor used when none is configured.
var Default Successor = Prober{Rounds: DefaultRounds}

// Next is Default.Next.
func Next(z, x *big.Int) *big.Int { return Default.Next(z, x) }

// filterPrimes are the odd primes used for the cheap trial-division filter.
var filterPrimes = [...]uint64{3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61}

// filterSquare is 64²: an odd candidate below it that survives the filter is prime.
const filterSquare = 64 * 64

// Next implements Successor.
func (p Prober) Next(z, x *big.Int) *big.Int {
	if x.Cmp(big.NewInt(2)) < 0 {
		return z.SetUint64(2)
	}
	// Stay in machine words while the walk cannot wrap.
	if x.IsUint64() && x.Uint64() < math.MaxUint64-1<<16 {
		if c, ok := nextUint64(x.Uint64()); ok {
			return z.SetUint64(c)
		}
	}

	c := new(big.Int).Add(x, big.NewInt(1))
	if c.Bit(0) == 0 {
		c.Add(c, big.NewInt(1))
	}
	two := big.NewInt(2)
	for !c.ProbablyPrime(p.Rounds) {
		c.Add(c, two)
	}

	return z.Set(c)
}

// nextUint64 returns the smallest prime above x ≥ 2, or false if the search
// would leave the safe uint64 range.
func nextUint64(x uint64) (uint64, bool) {
	if x == 2 {
		return 3, true
	}
	c := x + 1
	if c%2 == 0 {
		c++
	}
	var scratch big.Int
	for ; c < math.MaxUint64-2; c += 2 {
		if !passesFilter(c) {
			continue
		}
		if c < filterSquare || scratch.SetUint64(c).ProbablyPrime(0) {
			return c, true
		}
	}

	return 0, false
}

// passesFilter reports whether odd c has no factor among filterPrimes other
// than itself.
func passesFilter(c uint64) bool {
	for _, q := range filterPrimes {
		if c == q {
			return true
		}
		if c%q == 0 {
			return false
		}
	}

	return true
}
