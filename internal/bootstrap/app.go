package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/tone-changer/internal/domain/rewrite"
	"github.com/yanqian/tone-changer/internal/infra/config"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the relay's HTTP server lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	rewrite rewrite.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, rewriteSvc rewrite.Service) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, rewrite: rewriteSvc}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server
// fails. In-flight rewrites get shutdownTimeout to drain.
func (a *App) Run(ctx context.Context) error {
	a.reportReadiness()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// reportReadiness logs, once at start-up, which preconditions for serving
// rewrites are missing. Requests are still accepted and answered with a
// configuration error.
func (a *App) reportReadiness() {
	upstreamReady := a.rewrite != nil && a.rewrite.Ready()
	secretSet := a.cfg.Auth.SharedSecret != ""
	if upstreamReady && secretSet {
		a.logger.Info("relay ready", "cors_origins", a.cfg.CORS.AllowedOrigins)
		return
	}
	a.logger.Error("relay not ready, rewrite requests will fail", "upstream_client_ready", upstreamReady, "shared_secret_set", secretSet)
}
