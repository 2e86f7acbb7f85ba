package nthprime_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/katalvlaran/primal/nthprime"
)

// ------------------------------------------------------------------------
// Batch
// ------------------------------------------------------------------------

func TestBatch_MatchesSingleCalls(t *testing.T) {
	defer goleak.VerifyNone(t)

	ns := []uint64{0, 1, 10, 1000, 3141, 20000, 5, 5}
	got, err := nthprime.Batch(context.Background(), ns, nthprime.WithWorkers(3), nthprime.WithThreshold(1000))
	require.NoError(t, err)
	require.Len(t, got, len(ns))

	for i, n := range ns {
		want := nthprime.MustNth(n)
		assert.Equal(t, want.String(), got[i].String(), "batch[%d] n=%d", i, n)
	}
	assert.NotSame(t, got[6], got[7], "each index gets its own result")
}

func TestBatch_Empty(t *testing.T) {
	defer goleak.VerifyNone(t)

	got, err := nthprime.Batch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBatch_FirstErrorWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	got, err := nthprime.Batch(context.Background(), []uint64{10, 1 << 62, 20})
	assert.ErrorIs(t, err, nthprime.ErrIndexTooLarge)
	assert.Contains(t, err.Error(), "batch[1]")
	assert.Nil(t, got)
}

func TestBatch_CanceledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := nthprime.Batch(ctx, []uint64{1, 2, 3})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

// ------------------------------------------------------------------------
// Primorial
// ------------------------------------------------------------------------

func TestPrimorial_Small(t *testing.T) {
	cases := []struct {
		n    uint64
		want string
	}{
		{0, "1"},
		{1, "2"},
		{2, "6"},
		{5, "2310"},
		{6, "30030"},
		{10, "6469693230"},
		{15, "614889782588491410"},
	}
	for _, c := range cases {
		z, err := nthprime.Primorial(new(big.Int), c.n)
		require.NoError(t, err)
		assert.Equal(t, c.want, z.String(), "p_%d#", c.n)
	}
}

// TestPrimorial_ProductTree compares the tree product with a running product
// over the first 2000 primes.
func TestPrimorial_ProductTree(t *testing.T) {
	ref := reference(t, 20000)
	const n = 2000

	want := big.NewInt(1)
	var f big.Int
	for _, p := range ref[:n] {
		want.Mul(want, f.SetUint64(p))
	}

	z := big.NewInt(-5)
	got, err := nthprime.Primorial(z, n)
	require.NoError(t, err)
	assert.Same(t, z, got)
	assert.Zero(t, want.Cmp(got))

	// divisible by p_n, not by p_{n+1}
	var r big.Int
	assert.Zero(t, r.Mod(got, new(big.Int).SetUint64(ref[n-1])).Sign())
	assert.NotZero(t, r.Mod(got, new(big.Int).SetUint64(ref[n])).Sign())
}

func TestPrimorial_TooLarge(t *testing.T) {
	z := big.NewInt(3)
	got, err := nthprime.Primorial(z, 1<<40)
	assert.ErrorIs(t, err, nthprime.ErrIndexTooLarge)
	assert.Nil(t, got)
	assert.Zero(t, z.Sign())
}
