package records

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ledger/internal/domain/models"
	"github.com/mamadbah2/ledger/internal/feed"
	"github.com/mamadbah2/ledger/internal/repository/mongodb"
)

// WindowLayout is the datetime-local format echoed back to feed pages.
const WindowLayout = "2006-01-02T15:04"

// ListOptions carries the raw query parameters of one feed request.
type ListOptions struct {
	StartRaw string
	EndRaw   string
	Cursor   string
	Product  string
	Party    string
	Status   string
	PageSize int
}

// Window is the resolved date bound of a feed request: UTC instants for the
// predicate plus the echo strings rendered in the local zone.
type Window struct {
	Start    time.Time
	End      time.Time
	StartRaw string
	EndRaw   string
}

// Service drives the record feeds: paging, adds, and the order patch.
type Service struct {
	repo   mongodb.Repository
	norm   *feed.Normalizer
	pager  *feed.Paginator
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a records service over the repository.
func NewService(repo mongodb.Repository, norm *feed.Normalizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		norm:   norm,
		pager:  feed.NewPaginator(repo, norm, logger.Named("paginator")),
		logger: logger,
		now:    time.Now,
	}
}

// Today renders the current local time in the window echo format.
func (s *Service) Today() string {
	return s.now().In(s.norm.Location()).Format(WindowLayout)
}

// Window resolves raw start/end datetime parameters. Missing or unparseable
// bounds fall back to the current day's default window.
func (s *Service) Window(startRaw, endRaw string) Window {
	now := s.now().In(s.norm.Location())
	defStart, defEnd := feed.DefaultWindow(now)

	start := defStart
	if startRaw != "" {
		if t, err := s.norm.ParseDate(startRaw); err == nil {
			start = t
		} else {
			s.logger.Warn("unparseable start bound, using default", zap.String("value", startRaw))
		}
	}
	end := defEnd
	if endRaw != "" {
		if t, err := s.norm.ParseDate(endRaw); err == nil {
			end = t
		} else {
			s.logger.Warn("unparseable end bound, using default", zap.String("value", endRaw))
		}
	}

	return Window{
		Start:    start.UTC(),
		End:      end.UTC(),
		StartRaw: start.In(s.norm.Location()).Format(WindowLayout),
		EndRaw:   end.In(s.norm.Location()).Format(WindowLayout),
	}
}

// ListPage returns one filtered page of the kind's feed along with the
// resolved window, for echoing back to the caller.
func (s *Service) ListPage(ctx context.Context, k models.Kind, opts ListOptions) (feed.Page, Window, error) {
	window := s.Window(opts.StartRaw, opts.EndRaw)

	filter := feed.Filter{
		Start:   window.Start,
		End:     window.End,
		Product: opts.Product,
	}
	if k.HasParty {
		filter.Party = opts.Party
	}
	if k.HasStatus {
		filter.Status = opts.Status
	}

	page, err := s.pager.FetchPage(ctx, k, feed.Query{
		Filter:   filter,
		After:    opts.Cursor,
		PageSize: opts.PageSize,
	})
	if err != nil {
		return feed.Page{}, window, err
	}
	return page, window, nil
}

// Add appends one record to the kind's collection and returns the store id.
// An unparseable date defaults to now rather than failing the write.
func (s *Service) Add(ctx context.Context, k models.Kind, req models.AddRecordRequest) (string, error) {
	when, err := s.norm.ParseDate(req.Date)
	if err != nil {
		s.logger.Warn("unparseable record date, defaulting to now",
			zap.String("kind", k.Name), zap.String("value", req.Date))
		when = s.now()
	}

	total := req.Quantity * req.Price
	fields := map[string]interface{}{
		"date":     when.In(s.norm.Location()).Format(feed.CursorLayout),
		"product":  req.Product,
		"unit":     req.Unit,
		"quantity": req.Quantity,
		"price":    req.Price,
		"total":    total,
	}
	if k.HasParty {
		fields["party"] = req.Party
	}
	if k.HasPayments {
		fields["advance"] = req.Advance
		fields["paid_amount"] = 0.0
		fields["remain_amount"] = total - req.Advance
	}
	if k.HasStatus {
		fields["status"] = "Pending"
	}

	id, err := s.repo.AddRecord(ctx, k.Collection, fields)
	if err != nil {
		return "", fmt.Errorf("add %s record: %w", k.Name, err)
	}
	s.logger.Info("record added", zap.String("kind", k.Name), zap.String("id", id))
	return id, nil
}

// PatchOrder merges a partial update into an order. Recognized keys are
// status, paid_amount, and advance; unknown keys are ignored. The remaining
// balance is recomputed here from the stored total and the effective advance
// and paid amounts, so a client-supplied remain_amount never lands.
// Returns mongodb.ErrNotFound when the order does not exist.
func (s *Service) PatchOrder(ctx context.Context, id string, patch map[string]interface{}) (models.Record, error) {
	raw, err := s.repo.GetRecord(ctx, models.KindOrders.Collection, id)
	if err != nil {
		return models.Record{}, err
	}
	current := s.norm.Normalize(models.KindOrders, raw.ID, raw.Fields)

	update := map[string]interface{}{}
	if v, ok := patch["status"]; ok {
		update["status"] = fmt.Sprint(v)
	}
	advance := current.Advance
	if v, ok := patch["advance"]; ok {
		advance = feed.Float(v)
		update["advance"] = advance
	}
	paid := current.PaidAmount
	if v, ok := patch["paid_amount"]; ok {
		paid = feed.Float(v)
		update["paid_amount"] = paid
	}
	update["remain_amount"] = current.Total - advance - paid

	if err := s.repo.UpdateRecord(ctx, models.KindOrders.Collection, id, update); err != nil {
		return models.Record{}, err
	}

	updated, err := s.repo.GetRecord(ctx, models.KindOrders.Collection, id)
	if err != nil {
		return models.Record{}, err
	}
	return s.norm.Normalize(models.KindOrders, updated.ID, updated.Fields), nil
}
