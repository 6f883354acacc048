package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpadapter "github.com/aretw0/ussdsim/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds how long in-flight requests get after a stop signal.
const ShutdownTimeout = 5 * time.Second

// NewHTTPHandler wires the HTTP adapter to the stack.
func NewHTTPHandler(st *Stack) http.Handler {
	opts := []httpadapter.Option{
		httpadapter.WithLogger(st.Logger),
		httpadapter.WithCatalog(st.Catalog),
	}
	if st.Registry != nil {
		opts = append(opts, httpadapter.WithMetricsHandler(promhttp.HandlerFor(st.Registry, promhttp.HandlerOpts{})))
	}
	return httpadapter.NewHandler(st.Sessions, st.Devices, opts...)
}

// Serve runs the HTTP API on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, st *Stack, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHTTPHandler(st),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		st.Logger.Info("HTTP server listening", "address", addr, "shared_store", st.Shared())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		st.Logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", ShutdownTimeout, err)
		}
		st.Logger.Info("HTTP server stopped")
		return nil
	}
}
