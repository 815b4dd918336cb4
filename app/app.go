// Package app wires the application together and owns its lifecycle.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shreshta-sdc/shreshta-server/cache"
	"github.com/shreshta-sdc/shreshta-server/catalog"
	"github.com/shreshta-sdc/shreshta-server/config"
	"github.com/shreshta-sdc/shreshta-server/constants"
	"github.com/shreshta-sdc/shreshta-server/extract"
	"github.com/shreshta-sdc/shreshta-server/health"
	"github.com/shreshta-sdc/shreshta-server/interfaces"
	"github.com/shreshta-sdc/shreshta-server/media"
	"github.com/shreshta-sdc/shreshta-server/scheduler"
	"github.com/shreshta-sdc/shreshta-server/server"
	"github.com/shreshta-sdc/shreshta-server/sheets"
	"github.com/shreshta-sdc/shreshta-server/storage"
	"github.com/shreshta-sdc/shreshta-server/telemetry"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

type Application struct {
	config      *config.Config
	storage     *storage.FirebaseStorage
	screenshots *media.ScreenshotStore
	mirror      interfaces.RegistrationMirror
	cache       *cache.DashboardCache
	metrics     *telemetry.MetricsClient
	scheduler   *scheduler.Scheduler
	server      *server.Server

	stopCacheWorker context.CancelFunc
}

func New() (*Application, error) {
	app := &Application{}

	if err := app.loadConfig(); err != nil {
		return nil, err
	}

	if err := app.initializeDependencies(); err != nil {
		return nil, err
	}

	app.initializeServer()
	app.initializeScheduler()

	return app, nil
}

func (app *Application) loadConfig() error {
	app.config = config.Load()
	if err := app.config.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func (app *Application) initializeDependencies() error {
	store, err := storage.NewStorage(app.config, catalog.IDs())
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.storage = store

	screenshots, err := media.NewScreenshotStore(app.config)
	if err != nil {
		return fmt.Errorf("failed to initialize screenshot store: %w", err)
	}
	app.screenshots = screenshots

	if app.config.Features.EnableSheetMirror {
		mirror, err := sheets.NewClient(app.config)
		if err != nil {
			// The mirror is a backup, not a dependency worth refusing
			// to start over.
			utils.Warn("Sheet mirror unavailable: %v", err)
		} else {
			app.mirror = mirror
		}
	}

	app.cache = cache.NewDashboardCache()
	app.stopCacheWorker = app.cache.StartCleanupWorker(constants.CacheCleanupInterval)

	if app.config.Telemetry.Enabled {
		app.metrics = telemetry.NewMetricsClient(app.config.Telemetry.ProjectID)
	} else {
		app.metrics = telemetry.NewMetricsClient("")
	}

	return nil
}

func (app *Application) initializeServer() {
	healthHandler := health.NewHandler(health.NewFirestoreChecker(app.storage.GetClient()))

	app.server = server.New(server.Options{
		Config:      app.config,
		Storage:     app.storage,
		Screenshots: app.screenshots,
		Mirror:      app.mirror,
		Extractor:   extract.NewPDFExtractor(),
		Cache:       app.cache,
		Metrics:     app.metrics,
		Health:      healthHandler,
	})
	healthHandler.AddInfo("write_concurrency", app.server.ConcurrencySummary)
}

func (app *Application) initializeScheduler() {
	if !app.config.Schedule.Enabled || app.mirror == nil {
		utils.Info("Daily summary scheduler disabled")
		return
	}
	app.scheduler = scheduler.NewScheduler(app.config, app.storage, app.mirror)
}

// Run starts the server and blocks until a shutdown signal arrives.
func (app *Application) Run() error {
	if app.scheduler != nil {
		app.scheduler.Start()
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.server.Start()
	}()

	utils.Info("%s registration server is running. Press CTRL-C to exit.", constants.FestName)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	select {
	case err := <-errChan:
		app.shutdown()
		return err
	case sig := <-sigChan:
		utils.Info("Received signal %v, shutting down", sig)
		app.shutdown()
		return nil
	}
}

func (app *Application) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.HTTPShutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		utils.Error("HTTP server shutdown failed: %v", err)
	}
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if app.stopCacheWorker != nil {
		app.stopCacheWorker()
	}
	if app.metrics != nil {
		if err := app.metrics.Close(); err != nil {
			utils.Warn("Failed to close metrics client: %v", err)
		}
	}
	if err := app.screenshots.Close(); err != nil {
		utils.Warn("Failed to close screenshot store: %v", err)
	}
	if err := app.storage.Close(); err != nil {
		utils.Warn("Failed to close storage: %v", err)
	}

	utils.Info("Shutdown complete")
}
