// SPDX-License-Identifier: MIT

package nthprime

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"
)

// Batch computes p_n for every n in ns, running at most WithWorkers indices
// at a time. The result is index-aligned with ns.
//
// The first failure cancels the remaining work and is returned wrapped with
// its index. Cancellation of ctx is observed between indices, never inside a
// single computation. A trace sink passed via WithTrace is shared by all
// workers and must synchronise.
func Batch(ctx context.Context, ns []uint64, opts ...Option) ([]*big.Int, error) {
	cfg := gatherOptions(opts)
	out := make([]*big.Int, len(ns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i, n := range ns {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			z := new(big.Int)
			if err := run(z, n, cfg); err != nil {
				return fmt.Errorf("nthprime: batch[%d] n=%d: %w", i, n, err)
			}
			out[i] = z

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
