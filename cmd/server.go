package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"yamdb/internal/data/repository"
	"yamdb/internal/wire"
	"yamdb/pkg/database"
	"yamdb/pkg/mailer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Serve flags
	migrateOnStart  bool
	cleanupInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server and a background janitor that purges expired
sessions and confirmation codes. SIGINT or SIGTERM triggers a graceful shutdown.

Examples:
  yamdb serve                      # Serve on PORT from config
  yamdb serve --migrate            # Apply migrations first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkCleanupInterval(cleanupInterval); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		return runServer(ctx, e)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply pending migrations before serving")
	serveCmd.Flags().DurationVar(&cleanupInterval, "cleanup-interval", time.Hour, "How often expired sessions and codes are purged")
}

func checkCleanupInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("--cleanup-interval must be positive, got %s", d)
	}
	return nil
}

func runServer(ctx context.Context, e *env) error {
	logger := e.logger

	if migrateOnStart {
		applied, err := database.Migrate(ctx, e.db)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Migrations applied", zap.Strings("versions", applied))
	}

	repos := repository.NewRepository(e.db, logger)
	app := wire.Wiring(repos, e.config, mailer.New(e.config.Email, logger), logger)

	go runJanitor(ctx, app, logger)

	srv := &http.Server{
		Addr:              ":" + e.config.App.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("app", e.config.App.Name),
			zap.String("addr", srv.Addr),
			zap.Bool("debug", e.config.App.Debug))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server", zap.Duration("timeout", e.config.App.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), e.config.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

// runJanitor purges expired auth state and idle rate limit buckets until ctx ends.
func runJanitor(ctx context.Context, app *wire.App, logger *zap.Logger) {
	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()

	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanup.C:
			sessions, codes, err := app.Service.Auth.CleanupExpired(ctx)
			if err != nil {
				logger.Error("Cleanup failed", zap.Error(err))
				continue
			}
			logger.Info("Expired auth state purged",
				zap.Int64("sessions", sessions),
				zap.Int64("codes", codes))
		case now := <-sweep.C:
			if app.Limiter != nil {
				app.Limiter.Sweep(now)
			}
		}
	}
}
