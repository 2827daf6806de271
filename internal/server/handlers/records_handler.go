package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ledger/internal/domain/models"
	"github.com/mamadbah2/ledger/internal/repository/mongodb"
	"github.com/mamadbah2/ledger/internal/service/records"
)

// RecordsHandler serves the three record feeds: the initial page with its
// render context, the incremental data endpoint, the add endpoint, and the
// order patch endpoint.
type RecordsHandler struct {
	svc      *records.Service
	pageSize int
	logger   *zap.Logger
}

// NewRecordsHandler constructs the HTTP handler adapter.
func NewRecordsHandler(svc *records.Service, pageSize int, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, pageSize: pageSize, logger: logger}
}

func (h *RecordsHandler) listOptions(c *gin.Context, cursorParam string) records.ListOptions {
	opts := records.ListOptions{
		StartRaw: c.Query("start_datetime"),
		EndRaw:   c.Query("end_datetime"),
		Cursor:   c.Query(cursorParam),
		Product:  c.Query("product"),
		Party:    c.Query("party"),
		Status:   c.Query("status"),
		PageSize: h.pageSize,
	}
	if raw := c.Query("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			opts.PageSize = n
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			opts.PageSize = n
		}
	}
	return opts
}

// ListPage renders the initial filtered page plus the context the feed page
// needs: product options, echoed filters, and the has_more hint.
func (h *RecordsHandler) ListPage(k models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := h.listOptions(c, "last_date_iso")
		opts.Cursor = ""

		page, window, err := h.svc.ListPage(c.Request.Context(), k, opts)
		if err != nil {
			h.logger.Error("failed to list records", zap.String("kind", k.Name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load " + k.Name})
			return
		}

		products, _, err := h.svc.Catalog(c.Request.Context())
		if err != nil {
			h.logger.Error("failed to load catalog", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
			return
		}

		payload := gin.H{
			k.Name:             recordPayloads(k, page.Items),
			"products":         products,
			"start_datetime":   window.StartRaw,
			"end_datetime":     window.EndRaw,
			"product_filter":   orDefault(opts.Product, "All"),
			"today":            h.svc.Today(),
			"active_tab":       c.DefaultQuery("tab", k.Name),
			"page_size":        opts.PageSize,
			"has_more_initial": page.HasMore,
		}
		if k.HasParty {
			payload["party_filter"] = opts.Party
		}
		if k.HasStatus {
			payload["status_filter"] = orDefault(opts.Status, "All")
		}

		c.JSON(http.StatusOK, payload)
	}
}

// PageData returns one feed slice for incremental loading: the items, the
// cursor for the next page, and the approximate has_more flag.
func (h *RecordsHandler) PageData(k models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := h.listOptions(c, "last_date_iso")

		page, _, err := h.svc.ListPage(c.Request.Context(), k, opts)
		if err != nil {
			h.logger.Error("failed to page records", zap.String("kind", k.Name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load " + k.Name})
			return
		}

		var nextCursor interface{}
		if page.NextCursor != "" {
			nextCursor = page.NextCursor
		}
		c.JSON(http.StatusOK, gin.H{
			"items":       recordPayloads(k, page.Items),
			"next_cursor": nextCursor,
			"has_more":    page.HasMore,
		})
	}
}

// Add appends one record from a flat form field set.
func (h *RecordsHandler) Add(k models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AddRecordRequest
		if err := c.ShouldBind(&req); err != nil {
			h.logger.Warn("invalid add payload", zap.String("kind", k.Name), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
			return
		}

		if _, err := h.svc.Add(c.Request.Context(), k, req); err != nil {
			h.logger.Error("failed to add record", zap.String("kind", k.Name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save " + k.Name})
			return
		}

		target := "/" + k.Name
		if k.Name == models.KindOrders.Name {
			// The orders page opens on its "new" tab after an add.
			target += "?tab=new"
		}
		c.Redirect(http.StatusSeeOther, target)
	}
}

// UpdateOrder merges a partial JSON patch into one order.
func (h *RecordsHandler) UpdateOrder(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("invalid order patch", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	updated, err := h.svc.PatchOrder(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		h.logger.Error("failed to patch order", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": updated.Payload(models.KindOrders)})
}

func recordPayloads(k models.Kind, items []models.Record) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, item.Payload(k))
	}
	return out
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
