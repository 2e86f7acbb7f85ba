// SPDX-License-Identifier: MIT

// Package sieve builds the base-prime list for the counting oracle with a
// sieve of Eratosthenes on a mod-6 wheel.
//
// Only candidates coprime to 6 (residues 1 and 5 mod 6) get a bit, so the
// bitmap costs one bit per three integers. Bit i stands for
//
//	v(i) = 3i + 5 − (i & 1)   i.e. 5, 7, 11, 13, 17, 19, ...
//
// and the inverse is i(v) = ⌊v/3⌋ − 1. A set bit marks a composite.
//
// Complexity:
//
//   - Time:  O(L log log L) for a limit L.
//   - Space: L/3 bits for the bitmap plus O(L / ln L) words for the list.
//
// The bitmap is scratch: call Release once the list has been extracted and
// only the list is kept alive.
package sieve

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// MaxLimit caps the sieve bound (about 716 MiB of bitmap at the cap).
const MaxLimit = 1 << 34

// ErrLimitTooLarge indicates a sieve bound above MaxLimit.
var ErrLimitTooLarge = errors.New("sieve: limit too large")

// Sieve holds a wheel bitmap and the primes extracted from it.
type Sieve struct {
	limit  uint64
	size   uint           // number of wheel candidates in [5, limit]
	bits   *bitset.BitSet // nil after Release
	primes []uint64
}

// New sieves every integer in [2, limit] and extracts the ascending list of
// primes, prefixed by the two primes the wheel skips (2 and 3).
//
// Marking walks the multiples p·m of each base prime p with m ≡ 1, 5 (mod 6)
// only: m advances by 2 and 4 alternately, toggled by step = 6 − step, so the
// inner loop carries no modulo.
func New(limit uint64) (*Sieve, error) {
	if limit > MaxLimit {
		return nil, fmt.Errorf("%w: %d > %d", ErrLimitTooLarge, limit, uint64(MaxLimit))
	}

	s := &Sieve{limit: limit}
	if limit >= 1 {
		s.size = uint(CoprimeCount(limit) - 1) // drop the value 1
	}
	s.bits = bitset.New(s.size)

	var (
		i, step uint64
		p, v    uint64
	)
	for i = 0; i < uint64(s.size); i++ {
		if s.bits.Test(uint(i)) {
			continue
		}
		p = value(i)
		if p*p > limit {
			break
		}
		// p ≡ 5 (mod 6) → next cofactor is +2 away, p ≡ 1 → +4.
		step = 2
		if p%6 == 1 {
			step = 4
		}
		for v = p * p; v <= limit; {
			s.bits.Set(uint(index(v)))
			v += p * step
			step = 6 - step
		}
	}

	s.extract()

	return s, nil
}

// extract collects 2, 3 and every clear wheel bit into s.primes.
func (s *Sieve) extract() {
	s.primes = make([]uint64, 0, approxCount(s.limit))
	if s.limit >= 2 {
		s.primes = append(s.primes, 2)
	}
	if s.limit >= 3 {
		s.primes = append(s.primes, 3)
	}
	i, ok := s.bits.NextClear(0)
	for ok && i < s.size {
		s.primes = append(s.primes, value(uint64(i)))
		i, ok = s.bits.NextClear(i + 1)
	}
}

// Limit returns the sieve bound L; the list holds every prime ≤ L.
func (s *Sieve) Limit() uint64 { return s.limit }

// Primes returns the ascending base-prime list. The slice is shared; callers
// must not modify it.
func (s *Sieve) Primes() []uint64 { return s.primes }

// Len returns π(L), the number of primes in the list.
func (s *Sieve) Len() int { return len(s.primes) }

// Last returns the largest prime ≤ L, or 0 when L < 2.
func (s *Sieve) Last() uint64 {
	if len(s.primes) == 0 {
		return 0
	}

	return s.primes[len(s.primes)-1]
}

// Release drops the bitmap. The prime list stays valid.
func (s *Sieve) Release() { s.bits = nil }

// IsPrime reports whether v is prime. v must not exceed Limit; larger values
// report false. After Release the answer comes from a binary search of the list.
func (s *Sieve) IsPrime(v uint64) bool {
	switch {
	case v > s.limit || v < 2:
		return false
	case v == 2 || v == 3:
		return true
	case v%2 == 0 || v%3 == 0:
		return false
	}
	if s.bits != nil {
		return !s.bits.Test(uint(index(v)))
	}
	k := sort.Search(len(s.primes), func(j int) bool { return s.primes[j] >= v })

	return k < len(s.primes) && s.primes[k] == v
}

// Count returns π(limit) by sieving exhaustively. It is the reference the
// recursive oracle is checked against.
func Count(limit uint64) (uint64, error) {
	s, err := New(limit)
	if err != nil {
		return 0, err
	}

	return uint64(s.Len()), nil
}

// CoprimeCount returns how many integers in [1, x] are coprime to 6, i.e.
// φ(x, 2) in Legendre's notation.
func CoprimeCount(x uint64) uint64 {
	c := 2 * (x / 6)
	switch r := x % 6; {
	case r >= 5:
		c += 2
	case r >= 1:
		c++
	}

	return c
}

// value maps a wheel index to its integer.
func value(i uint64) uint64 { return 3*i + 5 - (i & 1) }

// index maps a wheel integer (coprime to 6, ≥ 5) to its bit.
func index(v uint64) uint64 { return v/3 - 1 }

// approxCount over-estimates π(x) to size the list in one allocation.
func approxCount(x uint64) int {
	if x < 17 {
		return 8
	}
	// x / (ln x − 1.1) bounds π(x) from above for x ≥ 17.
	return int(float64(x)/(math.Log(float64(x))-1.1)) + 8
}
