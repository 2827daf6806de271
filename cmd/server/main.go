package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ledger/internal/config"
	"github.com/mamadbah2/ledger/internal/feed"
	"github.com/mamadbah2/ledger/internal/repository/mongodb"
	"github.com/mamadbah2/ledger/internal/repository/sheets"
	"github.com/mamadbah2/ledger/internal/scheduler"
	"github.com/mamadbah2/ledger/internal/server/handlers"
	"github.com/mamadbah2/ledger/internal/server/router"
	recordssvc "github.com/mamadbah2/ledger/internal/service/records"
	reportssvc "github.com/mamadbah2/ledger/internal/service/reports"
	"github.com/mamadbah2/ledger/pkg/clients/notify"
	"github.com/mamadbah2/ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone configuration", zap.Error(err))
	}

	mongoRepo, err := mongodb.NewMongoRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, loc)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	normalizer := feed.NewNormalizer(loc)
	recordsSvc := recordssvc.NewService(mongoRepo, normalizer, baseLogger.Named("svc.records"))
	reportsSvc := reportssvc.NewService(mongoRepo, normalizer, baseLogger.Named("svc.reports"))

	// Optional summary deliveries
	var exporter sheets.Exporter
	if cfg.Sheets.CredentialsPath != "" {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("sheets summary export enabled")
	}

	var notifier notify.Client
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewClient(cfg.Notify)
		baseLogger.Info("summary webhook notifications enabled")
	}

	recordsHandler := handlers.NewRecordsHandler(recordsSvc, cfg.Feed.PageSize, baseLogger.Named("handlers.records"))
	productHandler := handlers.NewProductHandler(recordsSvc, baseLogger.Named("handlers.products"))
	reportHandler := handlers.NewReportHandler(reportsSvc, baseLogger.Named("handlers.reports"))
	engine := router.New(cfg.Server, recordsHandler, productHandler, reportHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Summary, reportsSvc, exporter, notifier, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
