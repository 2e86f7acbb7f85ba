// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/primal/cache"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /v1/nth/{n}, /v1/pi/{x}, /metrics and /healthz over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ln, err := net.Listen("tcp", a.cfg.Server.Addr)
			if err != nil {
				return err
			}

			return a.serve(cmd.Context(), ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

// serve runs the HTTP server on ln until ctx is done, then shuts it down
// within the configured timeout.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	store, err := cache.Open(ctx, a.cfg.Cache)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer store.Close()

	srv, err := newServer(a.cfg, store, a.logger)
	if err != nil {
		_ = ln.Close()
		return err
	}
	httpSrv := &http.Server{
		Handler:      srv.routes(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("primal listening",
			zap.String("addr", ln.Addr().String()),
			zap.String("cache", a.cfg.Cache.Kind),
		)
		errc <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.logger.Info("primal stopped")

	return nil
}
