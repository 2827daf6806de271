package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/ledger/internal/config"
	"github.com/mamadbah2/ledger/internal/repository/sheets"
	"github.com/mamadbah2/ledger/internal/service/reports"
	"github.com/mamadbah2/ledger/pkg/clients/notify"
)

// Scheduler runs the nightly daily-summary snapshot. The sheets exporter and
// webhook notifier are optional; a nil value disables that delivery.
type Scheduler struct {
	cron       *cron.Cron
	reportsSvc *reports.Service
	exporter   sheets.Exporter
	notifier   notify.Client
	cfg        config.SummaryConfig
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SummaryConfig, reportsSvc *reports.Service, exporter sheets.Exporter, notifier notify.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:       cron.New(),
		reportsSvc: reportsSvc,
		exporter:   exporter,
		notifier:   notifier,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the daily summary job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailySummary); err != nil {
		s.logger.Error("failed to schedule daily summary", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snapshot, err := s.reportsSvc.DailySnapshot(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to compute daily summary", zap.Error(err))
		return
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSummary(ctx, snapshot); err != nil {
			s.logger.Error("failed to export daily summary", zap.Error(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendSummary(ctx, snapshot); err != nil {
			s.logger.Error("failed to notify daily summary", zap.Error(err))
		}
	}
}
