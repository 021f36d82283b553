// Package notify posts catalog and order events to an external webhook.
// Entirely optional: with no URL configured every call is a no-op, and
// delivery failures are logged rather than propagated.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/podsync/podsync/internal/logging"
	"github.com/podsync/podsync/pkg/models"
)

// Client delivers webhook notifications
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds configuration for the webhook client
type Config struct {
	URL     string // empty disables notifications
	Timeout time.Duration
}

// productPayload is the wire format for new-product notifications
type productPayload struct {
	Event    string           `json:"event"` // "products.added"
	Provider string           `json:"provider"`
	Products []productSummary `json:"products"`
	SentAt   time.Time        `json:"sent_at"`
}

type productSummary struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Variants   int    `json:"variants"`
}

// orderPayload is the wire format for order status notifications
type orderPayload struct {
	Event      string    `json:"event"` // "order.status_changed"
	Provider   string    `json:"provider"`
	ExternalID string    `json:"external_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	SentAt     time.Time `json:"sent_at"`
}

// NewClient creates a webhook client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logging.L().Named("notify"),
	}
}

// IsEnabled returns whether webhook delivery is configured
func (c *Client) IsEnabled() bool {
	return c.url != ""
}

// NotifyNewProducts posts a summary of newly synced products
func (c *Client) NotifyNewProducts(ctx context.Context, provider models.ProviderType, products []models.Product) error {
	if !c.IsEnabled() || len(products) == 0 {
		return nil
	}

	payload := productPayload{
		Event:    "products.added",
		Provider: string(provider),
		Products: make([]productSummary, len(products)),
		SentAt:   time.Now(),
	}
	for i, p := range products {
		payload.Products[i] = productSummary{
			ExternalID: p.ExternalID,
			Title:      p.Title,
			Variants:   len(p.Variants),
		}
	}

	if err := c.post(ctx, payload); err != nil {
		return err
	}

	c.logger.Info("notified new products",
		zap.String("provider", string(provider)),
		zap.Int("count", len(products)))
	return nil
}

// NotifyOrderStatus posts one order status transition
func (c *Client) NotifyOrderStatus(ctx context.Context, provider models.ProviderType, externalID string, oldStatus, newStatus models.OrderStatus) error {
	if !c.IsEnabled() {
		return nil
	}

	payload := orderPayload{
		Event:      "order.status_changed",
		Provider:   string(provider),
		ExternalID: externalID,
		OldStatus:  string(oldStatus),
		NewStatus:  string(newStatus),
		SentAt:     time.Now(),
	}

	return c.post(ctx, payload)
}

func (c *Client) post(ctx context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
