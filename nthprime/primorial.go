// SPDX-License-Identifier: MIT

package nthprime

import (
	"fmt"
	"math/big"

	"github.com/katalvlaran/primal/estimate"
	"github.com/katalvlaran/primal/sieve"
	"github.com/katalvlaran/primal/trace"
)

// leafSize is the run length below which the product tree multiplies
// sequentially.
const leafSize = 16

// Primorial sets z to p₁·p₂·…·p_n and returns z. Primorial of 0 is 1.
//
// The primes come from one sieve up to estimate.Upper(n); the product is
// formed as a balanced tree so that the big multiplications pair operands
// of similar size. Only WithTrace is honoured among the options.
// On error z is set to 0 and nil is returned.
func Primorial(z *big.Int, n uint64, opts ...Option) (*big.Int, error) {
	cfg := gatherOptions(opts)
	if n == 0 {
		return z.SetUint64(1), nil
	}

	upper, err := estimate.Upper(n)
	if err != nil {
		z.SetUint64(0)
		return nil, fmt.Errorf("%w: %w", ErrIndexTooLarge, err)
	}
	s, err := sieve.New(upper)
	if err != nil {
		z.SetUint64(0)
		return nil, fmt.Errorf("%w: %w", ErrIndexTooLarge, err)
	}
	s.Release()
	cfg.sink.Trace(trace.Event{Stage: trace.StageSieve, N: n, Value: upper, Count: uint64(s.Len())})

	primes := s.Primes()
	if uint64(len(primes)) < n {
		z.SetUint64(0)
		return nil, fmt.Errorf("%w: %d primes below %d, need %d",
			ErrInsufficientCoverage, len(primes), upper, n)
	}

	return z.Set(product(primes[:n])), nil
}

// product multiplies ps by splitting it in halves.
func product(ps []uint64) *big.Int {
	if len(ps) <= leafSize {
		acc := big.NewInt(1)
		var f big.Int
		for _, p := range ps {
			acc.Mul(acc, f.SetUint64(p))
		}

		return acc
	}
	mid := len(ps) / 2
	left := product(ps[:mid])

	return left.Mul(left, product(ps[mid:]))
}
