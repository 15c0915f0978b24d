package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-analytics/internal/chart"
	"github.com/iliyamo/event-analytics/internal/config"
	"github.com/iliyamo/event-analytics/internal/database"
	"github.com/iliyamo/event-analytics/internal/handler"
	"github.com/iliyamo/event-analytics/internal/ingest"
	"github.com/iliyamo/event-analytics/internal/logging"
	"github.com/iliyamo/event-analytics/internal/middleware"
	"github.com/iliyamo/event-analytics/internal/queue"
	"github.com/iliyamo/event-analytics/internal/report"
	"github.com/iliyamo/event-analytics/internal/repository"
	"github.com/iliyamo/event-analytics/internal/router"
	"github.com/iliyamo/event-analytics/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logging.Error().Err(err).Msg("database connection failed")
		os.Exit(1)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logging.Error().Err(err).Msg("schema migration failed")
		os.Exit(1)
	}

	rdb := config.NewRedisClient() // nil disables cache and rate limiting
	cacheCfg := config.LoadCacheConfig()

	attendees := repository.NewAttendeeRepo(db)
	reports := repository.NewReportRepo(db)
	builder := report.NewBuilder(reports)

	renderer, err := chart.NewRenderer(chart.Options{OutputDir: cfg.ChartDir, DPI: cfg.ChartDPI, EventName: cfg.EventName})
	if err != nil {
		logging.Error().Err(err).Msg("chart renderer setup failed")
		os.Exit(1)
	}
	charts := &service.Charts{Builder: builder, Renderer: renderer}

	var notifier ingest.Notifier
	if cfg.QueueEnabled {
		notifier = queue.Notifier{URL: cfg.QueueURL}
	}
	importer := ingest.NewImporter(attendees, reports, notifier)

	// Cached reports are stale after any import.  Charts are redrawn here
	// unless the queue consumer does it.
	onImport := func(ctx context.Context, res *ingest.Result) error {
		n, err := middleware.InvalidateCache(ctx, rdb, cacheCfg.Prefix)
		if err != nil {
			return err
		}
		if n > 0 {
			logging.Info().Int("keys", n).Msg("report cache invalidated")
		}
		if cfg.QueueEnabled {
			return nil
		}
		_, err = charts.Render(ctx)
		return err
	}

	if cfg.QueueEnabled {
		go func() {
			err := queue.StartImportConsumer(ctx, cfg.QueueURL, func(ctx context.Context, ev queue.ImportCompletedEvent) error {
				logging.Info().Str("run_id", ev.RunID).Int("inserted", ev.Inserted).Msg("import event received")
				_, err := charts.Render(ctx)
				return err
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logging.Error().Err(err).Msg("import consumer stopped")
			}
		}()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.JSONSerializer = router.JSONSerializer{}
	router.RegisterRoutes(e)
	router.RegisterReports(e,
		handler.NewReportHandler(builder),
		&handler.ChartHandler{Dir: cfg.ChartDir},
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(cacheCfg, rdb),
	)
	router.RegisterImports(e, &handler.ImportHandler{
		Importer:    importer,
		DefaultPath: cfg.InputPath,
		OnSuccess:   onImport,
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port // Address string with port
	go func() {
		logging.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown failed")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
