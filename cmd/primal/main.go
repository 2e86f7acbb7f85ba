// SPDX-License-Identifier: MIT

// Command primal computes n-th primes, prime counts and primorials from the
// command line, or serves them over HTTP.
//
//	primal nth 1000 1000000
//	primal pi 1e9
//	primal primorial 50 --digits
//	primal serve --config primal.yaml
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(newApp()).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
