package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/mamadbah2/ledger/internal/domain/models"
)

// FieldValue reads the named numeric field off a normalized record. Unknown
// fields read as 0 so a summation never fails.
func FieldValue(r models.Record, field string) float64 {
	switch field {
	case "total":
		return r.Total
	case "quantity":
		return r.Quantity
	case "price":
		return r.Price
	case "advance":
		return r.Advance
	case "paid_amount":
		return r.PaidAmount
	case "remain_amount":
		return r.RemainAmount
	default:
		return 0
	}
}

// SumField adds the named field across an already-filtered collection.
// Plain float64 accumulation, no rounding policy.
func SumField(records []models.Record, field string) float64 {
	var sum float64
	for _, r := range records {
		sum += FieldValue(r, field)
	}
	return sum
}

// Aggregator accumulates report metrics by streaming a date range from the
// store instead of materializing whole collections.
type Aggregator struct {
	store Store
	norm  *Normalizer
}

// NewAggregator wires an aggregator over the given store.
func NewAggregator(store Store, norm *Normalizer) *Aggregator {
	return &Aggregator{store: store, norm: norm}
}

// SumRange streams the collection for [start, end] and accumulates the
// named field. Zero bounds leave that side of the range open. Returns the
// sum and the number of records that contributed.
func (a *Aggregator) SumRange(ctx context.Context, k models.Kind, start, end time.Time, field string) (float64, int, error) {
	sums, count, err := a.SumFields(ctx, k, start, end, field)
	if err != nil {
		return 0, 0, err
	}
	return sums[field], count, nil
}

// SumFields accumulates several fields in a single pass over the range.
func (a *Aggregator) SumFields(ctx context.Context, k models.Kind, start, end time.Time, fields ...string) (map[string]float64, int, error) {
	sums := make(map[string]float64, len(fields))
	var count int
	err := a.store.StreamRange(ctx, k.Collection, start, end, func(raw RawRecord) error {
		rec := a.norm.Normalize(k, raw.ID, raw.Fields)
		if rec.Instant.IsZero() {
			return nil
		}
		if !start.IsZero() && rec.Instant.Before(start) {
			return nil
		}
		if !end.IsZero() && rec.Instant.After(end) {
			return nil
		}
		for _, field := range fields {
			sums[field] += FieldValue(rec, field)
		}
		count++
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate %s: %w", k.Name, err)
	}
	return sums, count, nil
}
