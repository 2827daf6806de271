package reports

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ledger/internal/domain/models"
	"github.com/mamadbah2/ledger/internal/feed"
	"github.com/mamadbah2/ledger/internal/repository/mongodb"
)

const dateLayout = "2006-01-02"

// Service exposes streamed aggregate reporting over the record collections.
type Service struct {
	repo   mongodb.Repository
	agg    *feed.Aggregator
	norm   *feed.Normalizer
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a reports service instance.
func NewService(repo mongodb.Repository, norm *feed.Normalizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		agg:    feed.NewAggregator(repo, norm),
		norm:   norm,
		logger: logger,
		now:    time.Now,
	}
}

// Range resolves the raw report date parameters at day granularity: the
// start date opens at 00:00:00 and the end date closes at 23:59:59 local.
// Empty or unparseable values leave that side of the range open.
func (s *Service) Range(startRaw, endRaw string) (time.Time, time.Time) {
	loc := s.norm.Location()

	var start, end time.Time
	if startRaw != "" {
		if t, err := s.norm.ParseDate(startRaw); err == nil {
			local := t.In(loc)
			start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).UTC()
		} else {
			s.logger.Warn("unparseable report start date", zap.String("value", startRaw))
		}
	}
	if endRaw != "" {
		if t, err := s.norm.ParseDate(endRaw); err == nil {
			local := t.In(loc)
			end = time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 0, loc).UTC()
		} else {
			s.logger.Warn("unparseable report end date", zap.String("value", endRaw))
		}
	}
	return start, end
}

// Summary streams each collection once and accumulates the report metrics
// for the range. Zero bounds leave the range open on that side.
func (s *Service) Summary(ctx context.Context, start, end time.Time) (models.ReportSummary, error) {
	var summary models.ReportSummary

	invSums, invRows, err := s.agg.SumFields(ctx, models.KindInventory, start, end, "total", "quantity")
	if err != nil {
		return summary, fmt.Errorf("inventory summary: %w", err)
	}
	salesSums, salesRows, err := s.agg.SumFields(ctx, models.KindSales, start, end, "total")
	if err != nil {
		return summary, fmt.Errorf("sales summary: %w", err)
	}
	orderSums, orderRows, err := s.agg.SumFields(ctx, models.KindOrders, start, end, "quantity")
	if err != nil {
		return summary, fmt.Errorf("orders summary: %w", err)
	}

	summary.InventoryTotal = invSums["total"]
	summary.InventoryQty = invSums["quantity"]
	summary.SalesTotal = salesSums["total"]
	summary.OrdersQty = orderSums["quantity"]
	summary.InventoryRows = invRows
	summary.SalesRows = salesRows
	summary.OrderRows = orderRows
	return summary, nil
}

// DailySnapshot aggregates the given day's default window and persists the
// result as a daily summary document.
func (s *Service) DailySnapshot(ctx context.Context, day time.Time) (models.DailySummary, error) {
	start, end := feed.DefaultWindow(day.In(s.norm.Location()))

	summary, err := s.Summary(ctx, start.UTC(), end.UTC())
	if err != nil {
		return models.DailySummary{}, err
	}

	snapshot := models.DailySummary{
		Date:           start,
		InventoryTotal: summary.InventoryTotal,
		SalesTotal:     summary.SalesTotal,
		InventoryQty:   summary.InventoryQty,
		OrdersQty:      summary.OrdersQty,
		CreatedAt:      s.now(),
	}
	if err := s.repo.SaveDailySummary(ctx, snapshot); err != nil {
		return models.DailySummary{}, err
	}

	s.logger.Info("daily summary saved",
		zap.String("day", start.Format(dateLayout)),
		zap.Float64("sales_total", snapshot.SalesTotal))
	return snapshot, nil
}
