// SPDX-License-Identifier: MIT

package nthprime

import (
	"fmt"
	"math"
	"math/big"
)

// Into sets z to p_n and returns z. On error z is set to 0 and nil is
// returned.
//
// n = 0 sets z to 0 and is not an error.
func Into(z *big.Int, n uint64, opts ...Option) (*big.Int, error) {
	cfg := gatherOptions(opts)
	if err := run(z, n, cfg); err != nil {
		z.SetUint64(0)
		return nil, err
	}

	return z, nil
}

// Nth returns p_n in a freshly allocated big.Int.
func Nth(n uint64, opts ...Option) (*big.Int, error) {
	return Into(new(big.Int), n, opts...)
}

// MustNth is like Nth but panics on error.
func MustNth(n uint64, opts ...Option) *big.Int {
	z, err := Nth(n, opts...)
	if err != nil {
		panic(err)
	}

	return z
}

// run dispatches one index under cfg.
func run(z *big.Int, n uint64, cfg Options) error {
	if n > math.MaxUint {
		return fmt.Errorf("%w: %d does not fit a machine word", ErrIndexTooLarge, n)
	}
	if n == 0 {
		z.SetUint64(0)
		return nil
	}

	if useSequential(n, cfg) {
		sequential(z, n, cfg)
		return nil
	}

	r := refiner{n: n, opts: cfg}

	return r.run(z)
}

func useSequential(n uint64, cfg Options) bool {
	switch cfg.strategy {
	case Sequential:
		return true
	case Sieve:
		return false
	default:
		return n < cfg.threshold
	}
}
