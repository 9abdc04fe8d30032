// Package serve implements the serve command, running the dashboard
// HTTP server and the background poller.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/api"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/conf"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/datastore"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/logging"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/observability"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/poller"
)

const shutdownTimeout = 10 * time.Second

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(settings)
		},
	}
}

func run(settings *conf.Settings) error {
	logging.Init()
	logger := logging.ForService("serve")

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	ds := datastore.New(settings, metrics.Datastore)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logger.Error("Failed to close datastore", "error", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))
	if settings.WebServer.Debug {
		e.Debug = true
	}

	controller, err := api.New(e, ds, settings, metrics)
	if err != nil {
		return fmt.Errorf("failed to initialize API: %w", err)
	}
	defer controller.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dashboardPoller := poller.New(ds, settings.Dashboard.PollInterval, metrics.Poller)
	controller.SetSnapshotProvider(dashboardPoller)
	if err := dashboardPoller.Start(ctx); err != nil {
		return fmt.Errorf("failed to start poller: %w", err)
	}
	defer dashboardPoller.Stop()

	errChan := make(chan error, 1)
	go func() {
		addr := ":" + settings.WebServer.Port
		logger.Info("Starting web server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("web server failed: %w", err)
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown failed: %w", err)
	}

	if err := ds.Optimize(shutdownCtx); err != nil {
		logger.Warn("Datastore maintenance on shutdown failed", "error", err)
	}
	return nil
}
