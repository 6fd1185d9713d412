package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shopfloor/cmd"
	apihttp "shopfloor/internal/adapters/in/http"
	"shopfloor/internal/adapters/metrics"
	"shopfloor/internal/adapters/out/postgres"
	"shopfloor/internal/logging"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := logging.InitLogger(config.LogLevel, config.LogFormat)

	gormDB, err := postgres.Open(config.Database())
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	app := cmd.NewCompositionRoot(config, gormDB, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := newEcho(ctx, app)
	if err != nil {
		log.Fatalf("Error building HTTP server: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	go func() {
		logger.Info("HTTP server starting", "port", config.HTTPPort, "db_driver", config.DBDriver)
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); startErr != nil &&
			!errors.Is(startErr, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", startErr)
			stop()
		}
	}()

	<-ctx.Done()
	shutdown(app, e, jobManager.StopAll, config, logger)

	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
}

func newEcho(ctx context.Context, app *cmd.CompositionRoot) (*echo.Echo, error) {
	contract, err := apihttp.LoadContract(ctx)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(app.CreateHTTPMetrics().Middleware())

	apihttp.RegisterRoutes(e, app.CreateHTTPServer(), contract)
	e.GET("/ws", app.CreateWebSocketHandler().Serve)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(app.MetricsRegistry())))

	return e, nil
}

func shutdown(app *cmd.CompositionRoot, e *echo.Echo, stopJobs func(), config cmd.Config, logger *slog.Logger) {
	logger.Info("Shutting down")

	stopJobs()
	app.Hub().CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
