// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/primal/nthprime"
	"github.com/katalvlaran/primal/primepi"
	"github.com/katalvlaran/primal/trace"
)

func newNthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nth N [N...]",
		Short: "Print the N-th prime for each index",
		Long: `Print p_N for every index. Indices are computed concurrently, up to the
configured number of workers; output keeps the argument order. p_0 is 0.`,
		Example: "  primal nth 1 10 1000000\n  primal nth 1e8 --strategy sieve",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns := make([]uint64, len(args))
			for i, s := range args {
				n, err := parseUint(s)
				if err != nil {
					return err
				}
				ns[i] = n
			}

			start := time.Now()
			ps, err := nthprime.Batch(cmd.Context(), ns, a.nthOptions()...)
			if err != nil {
				return err
			}
			a.logger.Info("computed primes", zap.Int("count", len(ps)), zap.Duration("elapsed", time.Since(start)))

			out := cmd.OutOrStdout()
			for i, p := range ps {
				fmt.Fprintf(out, "p_%d = %s\n", ns[i], p)
			}

			return nil
		},
	}
}

func newPiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "pi X [X...]",
		Short:   "Print π(X), the number of primes ≤ X",
		Example: "  primal pi 1000000 1e10",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, s := range args {
				x, err := parseUint(s)
				if err != nil {
					return err
				}
				c, err := primepi.Count(x,
					primepi.WithMemoLimit(a.cfg.MemoLimit),
					primepi.WithTrace(trace.Zap(a.logger)),
				)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "pi(%d) = %d\n", x, c)
			}

			return nil
		},
	}
}

func newPrimorialCmd(a *app) *cobra.Command {
	var digits bool
	cmd := &cobra.Command{
		Use:   "primorial N",
		Short: "Print the product of the first N primes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseUint(args[0])
			if err != nil {
				return err
			}
			z, err := nthprime.Primorial(new(big.Int), n, a.nthOptions()...)
			if err != nil {
				return err
			}
			if digits {
				fmt.Fprintf(cmd.OutOrStdout(), "p_%d# has %d digits\n", n, len(z.String()))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "p_%d# = %s\n", n, z)

			return nil
		},
	}
	cmd.Flags().BoolVar(&digits, "digits", false, "print only the number of decimal digits")

	return cmd
}
