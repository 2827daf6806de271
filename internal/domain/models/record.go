package models

import "time"

// Record is the normalized in-memory form of one inventory, sales, or order
// document. Date carries the human-readable rendering, DateISO the machine
// form used as a pagination cursor, and Instant the parsed point in time; all
// three derive from the same parse. A record with an unparseable stored date
// has a zero Instant and empty date strings.
type Record struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	DateISO      string    `json:"date_iso"`
	Instant      time.Time `json:"-"`
	Product      string    `json:"product"`
	Unit         string    `json:"unit"`
	Party        string    `json:"party"`
	Quantity     float64   `json:"quantity"`
	Price        float64   `json:"price"`
	Total        float64   `json:"total"`
	Advance      float64   `json:"advance"`
	PaidAmount   float64   `json:"paid_amount"`
	RemainAmount float64   `json:"remain_amount"`
	Status       string    `json:"status"`
}

// Payload renders the record as the wire shape for its kind, so sales rows do
// not carry order-only payment fields.
func (r Record) Payload(k Kind) map[string]interface{} {
	out := map[string]interface{}{
		"id":       r.ID,
		"date":     r.Date,
		"date_iso": r.DateISO,
		"product":  r.Product,
		"quantity": r.Quantity,
		"unit":     r.Unit,
		"price":    r.Price,
		"total":    r.Total,
	}
	if k.HasParty {
		out["party"] = r.Party
	}
	if k.HasPayments {
		out["advance"] = r.Advance
		out["paid_amount"] = r.PaidAmount
		out["remain_amount"] = r.RemainAmount
	}
	if k.HasStatus {
		out["status"] = r.Status
	}
	return out
}
