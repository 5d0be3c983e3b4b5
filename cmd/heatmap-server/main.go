package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/temperature-heatmap/internal/api/http"
	"github.com/i474232898/temperature-heatmap/internal/config"
	"github.com/i474232898/temperature-heatmap/internal/heatmap"
	"github.com/i474232898/temperature-heatmap/internal/logging"
	"github.com/i474232898/temperature-heatmap/internal/render"
	"github.com/i474232898/temperature-heatmap/internal/scheduler"
	"github.com/i474232898/temperature-heatmap/internal/store"
	"github.com/i474232898/temperature-heatmap/internal/temperature"
	"github.com/i474232898/temperature-heatmap/internal/temperature/sources"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "production", 0, httpapi.ServiceName).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.AppEnv, cfg.LogLevel, httpapi.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Snapshot store with configured retention.
	retention := store.Retention{MaxHistory: cfg.StoreMaxHistory, MaxAge: cfg.StoreMaxAge}
	var snapshots temperature.Store
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		sqliteStore, err := store.OpenSQLite(ctx, cfg.StorePath, retention)
		if err != nil {
			log.Error("failed to open sqlite store", "path", cfg.StorePath, "error", err)
			os.Exit(1)
		}
		defer sqliteStore.Close()
		snapshots = sqliteStore
	default:
		snapshots = store.NewMemoryStore(retention)
	}

	// Sources in priority order: remote dataset first, local file as fallback.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	var srcs []temperature.Source
	if cfg.DatasetURL != "" {
		srcs = append(srcs, sources.NewHTTPSource(httpClient, cfg.DatasetURL, sources.DefaultBackoff, log))
	}
	if cfg.DatasetFile != "" {
		srcs = append(srcs, sources.NewFileSource(cfg.DatasetFile))
	}

	service := temperature.NewService(snapshots, srcs, log)

	// Initial load; a failure is not fatal when a persisted snapshot exists.
	loadCtx, cancelLoad := context.WithTimeout(ctx, time.Minute)
	if _, err := service.Refresh(loadCtx); err != nil {
		if _, latestErr := service.GetLatest(ctx); latestErr != nil {
			log.Warn("initial dataset load failed; serving 503 until the next refresh", "error", err)
		} else {
			log.Warn("initial dataset load failed; serving last stored snapshot", "error", err)
		}
	}
	cancelLoad()

	sched := scheduler.New(cfg.FetchInterval, service, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	renderer, err := render.New(cfg.ChartLocale)
	if err != nil {
		log.Error("failed to prepare renderer", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		AppName:               httpapi.ServiceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          refreshWriteTimeout,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(etag.New())

	httpapi.RegisterHealth(app)
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:  service,
		Renderer: renderer,
		Layout:   heatmap.DefaultLayout().WithSize(float64(cfg.ChartWidth), float64(cfg.ChartHeight)),
	})

	go func() {
		log.Info("starting server", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}

// refreshWriteTimeout leaves room for a synchronous POST /api/v1/refresh.
const refreshWriteTimeout = 40 * time.Second
