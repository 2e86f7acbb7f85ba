package estimate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/primal/estimate"
)

// knownPrimes maps n → p_n for a spread of indices.
var knownPrimes = map[uint64]uint64{
	1:       2,
	2:       3,
	3:       5,
	4:       7,
	5:       11,
	6:       13,
	10:      29,
	25:      97,
	100:     541,
	1000:    7919,
	3141:    28843,
	10000:   104729,
	100000:  1299709,
	1000000: 15485863,
}

func TestLower_FixedValues(t *testing.T) {
	cases := []struct {
		n, want uint64
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 1}, // formula gives 0.57
		{4, 2},
		{10, 21},
		{1000, 7840},
		{1000000, 15441302},
	}
	for _, c := range cases {
		got, err := estimate.Lower(c.n)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "Lower(%d)", c.n)
	}
}

// TestBounds_BracketKnownPrimes verifies Lower(n) < p_n < Upper(n).
func TestBounds_BracketKnownPrimes(t *testing.T) {
	for n, p := range knownPrimes {
		lo, err := estimate.Lower(n)
		require.NoError(t, err)
		hi, err := estimate.Upper(n)
		require.NoError(t, err)
		assert.Less(t, lo, p, "Lower(%d)", n)
		assert.Greater(t, hi, p, "Upper(%d)", n)
	}
}

func TestLower_Monotone(t *testing.T) {
	prev := uint64(0)
	for n := uint64(1); n < 5000; n++ {
		x, err := estimate.Lower(n)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, x, prev, "Lower(%d)", n)
		prev = x
	}
}

func TestBounds_Overflow(t *testing.T) {
	_, err := estimate.Lower(1 << 63)
	assert.ErrorIs(t, err, estimate.ErrOverflow)
	_, err = estimate.Upper(1 << 63)
	assert.ErrorIs(t, err, estimate.ErrOverflow)
}

func TestSieveLimit(t *testing.T) {
	assert.Equal(t, uint64(estimate.MinSieveLimit), estimate.SieveLimit(0))
	assert.Equal(t, uint64(estimate.MinSieveLimit), estimate.SieveLimit(7840))
	assert.Equal(t, uint64(3949), estimate.SieveLimit(15441302))
	assert.Equal(t, uint64(1004987), estimate.SieveLimit(1000000000000))

	// never wraps
	assert.Equal(t, uint64(4294967295), estimate.SieveLimit(^uint64(0)))
}
