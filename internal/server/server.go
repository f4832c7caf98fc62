// Package server binds the HTTP handler to a port and drains it on shutdown.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/shashiranjanraj/cafehub/pkg/logger"
)

const shutdownGrace = 10 * time.Second

// Start serves handler on addr until ctx is cancelled, then stops accepting
// connections and waits for in-flight requests.
func Start(ctx context.Context, handler http.Handler, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return oops.Code("SERVER_LISTEN_FAILED").With("addr", addr).Wrap(err)
	}
	return Serve(ctx, handler, ln)
}

// Serve is Start on an existing listener.
func Serve(ctx context.Context, handler http.Handler, ln net.Listener) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return oops.Code("SERVER_FAILED").Wrap(err)
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SERVER_SHUTDOWN_FAILED").Wrap(err)
	}
	<-errCh
	logger.Info("server: stopped")
	return nil
}
