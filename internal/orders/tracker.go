// Package orders polls vendors for the status of open orders and
// records every transition. An order leaves the poll set once it
// reaches a terminal status.
package orders

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/podsync/podsync/internal/logging"
	"github.com/podsync/podsync/internal/metrics"
	"github.com/podsync/podsync/internal/registry"
	"github.com/podsync/podsync/pkg/models"
)

const streamKeyFormat = "podsync.orders.%s" // podsync.orders.printful

// Notifier receives order status transitions. Satisfied by the webhook
// client; a nil notifier disables delivery.
type Notifier interface {
	IsEnabled() bool
	NotifyOrderStatus(ctx context.Context, provider models.ProviderType, externalID string, oldStatus, newStatus models.OrderStatus) error
}

// Tracker polls open orders across all registered providers
type Tracker struct {
	db           *sql.DB
	redis        *redis.Client
	registry     *registry.ProviderRegistry
	notifier     Notifier
	pollInterval time.Duration
	logger       *zap.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// openOrder is one row from the poll set
type openOrder struct {
	provider   models.ProviderType
	externalID string
	status     models.OrderStatus
}

// NewTracker creates an order tracker
func NewTracker(db *sql.DB, redisClient *redis.Client, reg *registry.ProviderRegistry, pollInterval time.Duration) *Tracker {
	return &Tracker{
		db:           db,
		redis:        redisClient,
		registry:     reg,
		pollInterval: pollInterval,
		logger:       logging.L().Named("orders"),
		stopChan:     make(chan struct{}),
	}
}

// SetNotifier attaches the webhook notifier for status transitions
func (t *Tracker) SetNotifier(n Notifier) {
	t.notifier = n
}

// Track registers an order for status polling
func (t *Tracker) Track(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (provider, external_id, status, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (provider, external_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`

	if _, err := t.db.ExecContext(ctx, query, string(order.Provider), order.ExternalID, string(order.Status)); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	metrics.OrdersTrackedTotal.WithLabelValues(string(order.Provider)).Inc()
	return nil
}

// Start begins the polling loop. Runs until Stop or context cancel.
func (t *Tracker) Start(ctx context.Context) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ticker := time.NewTicker(t.pollInterval)
		defer ticker.Stop()

		t.logger.Info("order tracker started", zap.Duration("poll_interval", t.pollInterval))

		// Initial poll immediately
		t.pollOnce(ctx)

		for {
			select {
			case <-ticker.C:
				t.pollOnce(ctx)
			case <-t.stopChan:
				t.logger.Info("order tracker stopped")
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop gracefully stops the tracker
func (t *Tracker) Stop() {
	close(t.stopChan)
	t.wg.Wait()
}

// pollOnce refreshes the status of every open order. Per-order failures
// are logged and never stop the pass.
func (t *Tracker) pollOnce(ctx context.Context) {
	open, err := t.loadOpenOrders(ctx)
	if err != nil {
		t.logger.Error("load open orders failed", zap.Error(err))
		return
	}
	if len(open) == 0 {
		return
	}

	for _, order := range open {
		if ctx.Err() != nil {
			return
		}
		if err := t.refreshOrder(ctx, order); err != nil {
			t.logger.Warn("order refresh failed",
				zap.String("provider", string(order.provider)),
				zap.String("order", order.externalID),
				zap.Error(err))
		}
	}
}

// loadOpenOrders selects every order that has not reached a terminal
// status. Terminal rows stay in the table but are never polled again.
func (t *Tracker) loadOpenOrders(ctx context.Context) ([]openOrder, error) {
	query := `
		SELECT provider, external_id, status
		FROM orders
		WHERE status NOT IN ('delivered', 'cancelled', 'failed')
		ORDER BY provider, external_id
	`

	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query open orders: %w", err)
	}
	defer rows.Close()

	var open []openOrder
	for rows.Next() {
		var o openOrder
		var provider, status string
		if err := rows.Scan(&provider, &o.externalID, &status); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.provider = models.ProviderType(provider)
		o.status = models.OrderStatus(status)
		open = append(open, o)
	}

	return open, rows.Err()
}

// refreshOrder fetches the vendor's view of one order and records the
// transition if the status moved.
func (t *Tracker) refreshOrder(ctx context.Context, order openOrder) error {
	adapter, ok := t.registry.Get(order.provider)
	if !ok {
		return fmt.Errorf("no adapter registered for %s", order.provider)
	}

	remote, err := adapter.GetOrder(ctx, order.externalID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}

	if remote.Status == order.status {
		return nil
	}

	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE provider = $2 AND external_id = $3
	`
	if _, err := t.db.ExecContext(ctx, query, string(remote.Status), string(order.provider), order.externalID); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	metrics.OrderTransitionsTotal.WithLabelValues(string(order.provider), string(remote.Status)).Inc()

	t.logger.Info("order status changed",
		zap.String("provider", string(order.provider)),
		zap.String("order", order.externalID),
		zap.String("from", string(order.status)),
		zap.String("to", string(remote.Status)))

	if err := t.publishTransition(ctx, order, remote.Status); err != nil {
		t.logger.Warn("transition publish failed",
			zap.String("order", order.externalID),
			zap.Error(err))
	}

	if t.notifier != nil && t.notifier.IsEnabled() {
		if err := t.notifier.NotifyOrderStatus(ctx, order.provider, order.externalID, order.status, remote.Status); err != nil {
			t.logger.Warn("webhook notify failed",
				zap.String("order", order.externalID),
				zap.Error(err))
		}
	}

	return nil
}

// publishTransition publishes one status change to the provider's stream
func (t *Tracker) publishTransition(ctx context.Context, order openOrder, newStatus models.OrderStatus) error {
	streamKey := fmt.Sprintf(streamKeyFormat, order.provider)

	_, err := t.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"external_id": order.externalID,
			"old_status":  string(order.status),
			"new_status":  string(newStatus),
			"changed_at":  time.Now().UTC().Format(time.RFC3339),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd to stream: %w", err)
	}

	return nil
}
