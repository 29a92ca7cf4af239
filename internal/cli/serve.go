package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/tendero/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the webhook router with /metrics mounted.
func NewHTTPHandler(app *App) http.Handler {
	return httpAdapter.NewHandler(app.Dispatcher,
		httpAdapter.WithLogger(app.Logger),
		httpAdapter.WithMetricsHandler(promhttp.HandlerFor(app.Metrics, promhttp.HandlerOpts{})),
		httpAdapter.WithAllowedOrigins(app.Config.HTTP.AllowedOrigins...),
	)
}

// Serve runs the webhook on app.Config.HTTP.Addr until ctx is done, then
// drains in-flight requests.
func Serve(ctx context.Context, app *App) error {
	srv := &http.Server{
		Addr:              app.Config.HTTP.Addr,
		Handler:           NewHTTPHandler(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("tendero server listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		app.Logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		app.Logger.Info("tendero server stopped gracefully")
		return nil
	}
}
