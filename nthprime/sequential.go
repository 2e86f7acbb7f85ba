// SPDX-License-Identifier: MIT

package nthprime

import (
	"math/big"

	"github.com/katalvlaran/primal/trace"
)

// sequential sets z to p_n by stepping n times from 1.
func sequential(z *big.Int, n uint64, cfg Options) {
	cfg.sink.Trace(trace.Event{Stage: trace.StageSequential, N: n, Count: n})

	z.SetUint64(1)
	for i := uint64(0); i < n; i++ {
		cfg.successor.Next(z, z)
	}
}
