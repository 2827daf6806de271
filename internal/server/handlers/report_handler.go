package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ledger/internal/service/reports"
)

// ReportHandler serves the aggregate report endpoint.
type ReportHandler struct {
	svc    *reports.Service
	logger *zap.Logger
}

// NewReportHandler constructs the report handler adapter.
func NewReportHandler(svc *reports.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// Summary aggregates the record collections over an optional date range.
func (h *ReportHandler) Summary(c *gin.Context) {
	startRaw := c.Query("start_date")
	endRaw := c.Query("end_date")

	start, end := h.svc.Range(startRaw, endRaw)
	summary, err := h.svc.Summary(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to build report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inv_total":      summary.InventoryTotal,
		"sales_total":    summary.SalesTotal,
		"inv_qty":        summary.InventoryQty,
		"orders_qty":     summary.OrdersQty,
		"inventory_rows": summary.InventoryRows,
		"sales_rows":     summary.SalesRows,
		"order_rows":     summary.OrderRows,
		"start_date":     startRaw,
		"end_date":       endRaw,
	})
}
