package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/ledger/internal/config"
	"github.com/mamadbah2/ledger/internal/domain/models"
)

// Client posts daily summary notifications to a configured webhook.
type Client interface {
	SendSummary(ctx context.Context, summary models.DailySummary) error
}

// WebhookClient is a resty-backed implementation of Client.
type WebhookClient struct {
	httpClient *resty.Client
	webhookURL string
}

// NewClient builds a webhook client using the provided configuration values.
func NewClient(cfg config.NotifyConfig) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	if cfg.AuthToken != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AuthToken))
	}

	return &WebhookClient{
		httpClient: restyClient,
		webhookURL: cfg.WebhookURL,
	}
}

// SendSummary delivers the summary payload and fails on any non-2xx reply.
func (c *WebhookClient) SendSummary(ctx context.Context, summary models.DailySummary) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(summary).
		Post(c.webhookURL)
	if err != nil {
		return fmt.Errorf("send summary webhook: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("summary webhook error: status=%d body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
