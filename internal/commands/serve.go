package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_ingest/internal/handlers"
	"github.com/SscSPs/ledger_ingest/pkg/database"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API on PORT.

Pending migrations are applied first when RUN_MIGRATIONS is set. The server
stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := a.config(cmd)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return &ExitError{Code: 2, Err: errors.New("JWT_SECRET is required to serve the API")}
			}
			if cfg.RunMigrations && cfg.DatabaseURL != "" {
				logger.Info("Running database migrations...")
				if err := database.Migrate(cfg.DatabaseURL, database.Up, logger); err != nil {
					return err
				}
			}

			rt, ctx, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			router, err := handlers.NewRouter(cfg, logger, rt.Services, rt.Uploads, rt.Metrics)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return runServer(ctx, srv, logger)
		},
	}
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
