package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/giygas/medibot-api/data"
	"github.com/giygas/medibot-api/logging"
	"github.com/giygas/medibot-api/oracle"
	"github.com/giygas/medibot-api/scheduler"
	"github.com/giygas/medibot-api/server"
)

const (
	serveCommandName = "serve"
	shutdownTimeout  = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   serveCommandName,
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, app)
		},
	}
}

// runServe starts the scheduler and the server and blocks until ctx is done
// or the server fails
func runServe(ctx context.Context, app *App) error {
	status := data.NewStatusContainer(app.KB, oracle.ModeOf(app.Oracle))

	sched := scheduler.NewScheduler(status, app.Oracle, app.Config.OracleProbeInterval)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	srv := server.NewServer(app.Config, status, app.Extractor, app.Resolver)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logging.Info("Server started",
		"address", app.Config.Address,
		"port", app.Config.Port,
		"env", app.Config.Env,
		"oracle_mode", status.GetOracleMode(),
		"knowledge_base_entries", app.KB.Len())

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error("Server failed", "error", err)
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return <-errCh
}
