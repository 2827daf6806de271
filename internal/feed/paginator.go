package feed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ledger/internal/domain/models"
)

// DefaultPageSize bounds a page when the caller does not pick a size.
const DefaultPageSize = 50

// RawRecord is one store document before normalization.
type RawRecord struct {
	ID     string
	Fields map[string]interface{}
}

// Query describes one page request against a record collection. After is the
// exclusive date_iso cursor of the previous page; empty means first page.
type Query struct {
	Filter   Filter
	After    string
	PageSize int
}

// Store is the slice of the document store the feed engine needs: pages in
// descending date order with the query filters pushed down, and a range
// stream for aggregation.
type Store interface {
	FetchPage(ctx context.Context, collection string, q Query) ([]RawRecord, error)
	StreamRange(ctx context.Context, collection string, start, end time.Time, fn func(RawRecord) error) error
}

// Page is one bounded slice of a record feed. HasMore is a boundary
// heuristic: it is true when the store returned a full page, which can
// overstate by one page when the feed ends exactly on a page boundary.
type Page struct {
	Items      []models.Record
	NextCursor string
	HasMore    bool
}

// Paginator fetches bounded, date-descending pages from a record collection.
type Paginator struct {
	store  Store
	norm   *Normalizer
	logger *zap.Logger
}

// NewPaginator wires a paginator over the given store.
func NewPaginator(store Store, norm *Normalizer, logger *zap.Logger) *Paginator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Paginator{store: store, norm: norm, logger: logger}
}

// FetchPage returns the next page of records matching the query. A cursor
// that cannot be resumed degrades to the first page instead of failing; only
// store errors on a cursorless fetch surface to the caller.
func (p *Paginator) FetchPage(ctx context.Context, k models.Kind, q Query) (Page, error) {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}

	if q.After != "" {
		if _, err := time.ParseInLocation(CursorLayout, q.After, p.norm.Location()); err != nil {
			p.logger.Warn("unusable cursor, restarting from first page",
				zap.String("kind", k.Name), zap.String("cursor", q.After))
			q.After = ""
		}
	}

	raws, err := p.store.FetchPage(ctx, k.Collection, q)
	if err != nil && q.After != "" {
		p.logger.Warn("cursor resume failed, restarting from first page",
			zap.String("kind", k.Name), zap.Error(err))
		q.After = ""
		raws, err = p.store.FetchPage(ctx, k.Collection, q)
	}
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s page: %w", k.Name, err)
	}

	items := make([]models.Record, 0, len(raws))
	for _, raw := range raws {
		rec := p.norm.Normalize(k, raw.ID, raw.Fields)
		// The store query already narrows the page; the predicate stays
		// authoritative so sentinel dates and range stragglers never leak.
		if !q.Filter.Matches(rec) {
			continue
		}
		items = append(items, rec)
	}

	page := Page{Items: items, HasMore: len(raws) >= q.PageSize}
	if len(items) > 0 {
		page.NextCursor = items[len(items)-1].DateISO
	}
	return page, nil
}
