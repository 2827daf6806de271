package models

import "time"

// ReportSummary holds the aggregate metrics rendered on the reports page.
type ReportSummary struct {
	InventoryTotal float64 `json:"inv_total"`
	SalesTotal     float64 `json:"sales_total"`
	InventoryQty   float64 `json:"inv_qty"`
	OrdersQty      float64 `json:"orders_qty"`
	InventoryRows  int     `json:"inventory_rows"`
	SalesRows      int     `json:"sales_rows"`
	OrderRows      int     `json:"order_rows"`
}

// DailySummary is one scheduled snapshot of the report aggregates, persisted
// for trend history and optionally exported.
type DailySummary struct {
	Date           time.Time `bson:"date" json:"date"`
	InventoryTotal float64   `bson:"inventory_total" json:"inventory_total"`
	SalesTotal     float64   `bson:"sales_total" json:"sales_total"`
	InventoryQty   float64   `bson:"inventory_qty" json:"inventory_qty"`
	OrdersQty      float64   `bson:"orders_qty" json:"orders_qty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
