package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/infinity-booking/provider-ui/internal/logger"
	"github.com/infinity-booking/provider-ui/internal/ui/config"
	"github.com/infinity-booking/provider-ui/internal/ui/server"
	"github.com/infinity-booking/provider-ui/internal/version"
	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:   "provider-ui",
		Short: "Infinity Booking provider web interface",
		Long: `Server rendered web UI for Infinity Booking service providers.

The UI calls the booking API on behalf of the logged in provider. Configuration is read from environment variables
(ENVIRONMENT, PORT, API_BASE_URL, COOKIE_SECRET, ...).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
	slog.SetDefault(appLogger)

	appLogger.Info("Starting provider UI",
		slog.String("version", version.Get().Version),
		slog.String("environment", cfg.Environment),
	)

	srv, err := server.NewServer(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to create UI server", slog.String("error", err.Error()))
		return err
	}

	// Set up graceful shutdown handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		appLogger.Error("UI server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("UI server shutdown complete")
	return nil
}
