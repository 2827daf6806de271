package feed

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/mamadbah2/ledger/internal/domain/models"
)

const (
	// DisplayLayout is the human-readable date rendering handed to clients.
	DisplayLayout = "2006-01-02 15:04"
	// CursorLayout is the machine date form stored in documents and used as
	// the pagination cursor. It is local-naive: no offset suffix.
	CursorLayout = "2006-01-02T15:04:05"
)

// Normalizer converts raw store documents into typed records. Instants are
// carried in UTC internally; the display and cursor strings are rendered in
// the configured local zone without offset.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer builds a normalizer rendering dates in the given zone. A nil
// location falls back to the process-local zone.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc}
}

// Location returns the zone used for display and cursor rendering.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize produces a typed record from one raw document and its store id.
// Data-shape problems never fail: non-numeric values coerce to zero and an
// unparseable date yields the zero-instant sentinel, which is excluded from
// every date-filtered view.
func (n *Normalizer) Normalize(k models.Kind, id string, raw map[string]interface{}) models.Record {
	r := models.Record{ID: id}

	r.Quantity = Float(raw["quantity"])
	r.Price = Float(raw["price"])
	if v, ok := raw["total"]; ok {
		// A stored total is trusted verbatim, stale or not.
		r.Total = Float(v)
	} else {
		r.Total = r.Quantity * r.Price
	}

	r.Product = String(raw["product"])
	r.Unit = String(raw["unit"])
	if k.HasParty {
		r.Party = String(raw["party"])
	}
	if k.HasPayments {
		r.Advance = Float(raw["advance"])
		r.PaidAmount = Float(raw["paid_amount"])
		if v, ok := raw["remain_amount"]; ok {
			r.RemainAmount = Float(v)
		} else {
			r.RemainAmount = r.Total - r.Advance - r.PaidAmount
		}
	}
	if k.HasStatus {
		r.Status = String(raw["status"])
		if r.Status == "" {
			r.Status = "Pending"
		}
	}

	if t, err := n.ParseDate(raw["date"]); err == nil {
		r.Instant = t.UTC()
		r.Date = t.In(n.loc).Format(DisplayLayout)
		r.DateISO = t.In(n.loc).Format(CursorLayout)
	}
	return r
}

// ParseDate accepts either a structured timestamp or a free-form date string.
// Strings without an offset are read as wall time in the local zone; strings
// with an offset keep their absolute instant.
func (n *Normalizer) ParseDate(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("date missing")
	case time.Time:
		return t, nil
	case string:
		return dateparse.ParseIn(t, n.loc)
	default:
		return dateparse.ParseIn(fmt.Sprint(v), n.loc)
	}
}

// Float coerces a raw document value to float64, defaulting to 0 for
// anything non-numeric.
func Float(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// String coerces a raw document value to a string, defaulting to empty.
func String(v interface{}) string {
	s, _ := v.(string)
	return s
}
