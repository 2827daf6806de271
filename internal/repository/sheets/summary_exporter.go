package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/ledger/internal/config"
	"github.com/mamadbah2/ledger/internal/domain/models"
)

const summaryWriteRange = "Summaries!A:F"

// Exporter appends daily summary rows to an external spreadsheet.
type Exporter interface {
	AppendSummary(ctx context.Context, summary models.DailySummary) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSummary appends one summary row: date, the four aggregate metrics,
// and the snapshot creation time.
func (e *GoogleSheetExporter) AppendSummary(ctx context.Context, summary models.DailySummary) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{{
		summary.Date.Format("2006-01-02"),
		summary.InventoryTotal,
		summary.SalesTotal,
		summary.InventoryQty,
		summary.OrdersQty,
		summary.CreatedAt.Format("2006-01-02 15:04:05"),
	}}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, summaryWriteRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary row: %w", err)
	}

	e.logger.Debug("summary exported to sheet", zap.String("date", summary.Date.Format("2006-01-02")))
	return nil
}
