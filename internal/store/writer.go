// Package store persists sync results to Postgres and publishes change
// events to Redis Streams. Postgres is the source of truth; the stream
// is best-effort fan-out for downstream consumers.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/podsync/podsync/internal/logging"
	"github.com/podsync/podsync/internal/metrics"
	"github.com/podsync/podsync/pkg/models"
)

const streamKeyFormat = "podsync.sync.%s" // podsync.sync.printful

// Notifier receives new-product notifications after a successful write.
// Satisfied by the webhook client; nil or disabled notifiers are skipped.
type Notifier interface {
	IsEnabled() bool
	NotifyNewProducts(ctx context.Context, provider models.ProviderType, products []models.Product) error
}

// Writer applies sync results to the database in one transaction and
// publishes to Redis Streams after commit.
type Writer struct {
	db       *sql.DB
	redis    *redis.Client
	notifier Notifier
	logger   *zap.Logger
}

// StreamMessage is one catalog change published to a provider's stream
type StreamMessage struct {
	Provider   string    `json:"provider"`
	ExternalID string    `json:"external_id"`
	Change     string    `json:"change"` // "added", "updated" or "removed"
	Title      string    `json:"title,omitempty"`
	Variants   int       `json:"variants,omitempty"`
	SyncedAt   time.Time `json:"synced_at"`
}

// NewWriter creates a store writer
func NewWriter(db *sql.DB, redisClient *redis.Client) *Writer {
	return &Writer{
		db:     db,
		redis:  redisClient,
		logger: logging.L().Named("store"),
	}
}

// SetNotifier attaches the webhook notifier for new products
func (w *Writer) SetNotifier(n Notifier) {
	w.notifier = n
}

// ApplySyncResult writes one reconciliation outcome: upserts added and
// updated products with their variants, deactivates removed ones and
// records the run itself, all in a single transaction. Stream publish
// and webhook notification happen after commit and never fail the write.
func (w *Writer) ApplySyncResult(ctx context.Context, result *models.SyncResult) error {
	start := time.Now()
	provider := string(result.Provider)

	changed := make([]models.Product, 0, len(result.Added)+len(result.Updated))
	changed = append(changed, result.Added...)
	changed = append(changed, result.Updated...)

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := w.upsertProducts(ctx, tx, changed, result.LastSyncedAt); err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}
	if err := w.upsertVariants(ctx, tx, changed); err != nil {
		return fmt.Errorf("upsert variants: %w", err)
	}
	if err := w.deactivateRemoved(ctx, tx, result.Provider, result.Removed); err != nil {
		return fmt.Errorf("deactivate removed: %w", err)
	}
	if err := w.insertSyncRun(ctx, tx, result); err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	metrics.StoreWriteDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	if err := w.publishToStream(ctx, result); err != nil {
		w.logger.Warn("stream publish failed",
			zap.String("provider", provider),
			zap.Error(err))
	}

	w.notifyNewProducts(result.Provider, result.Added)

	return nil
}

// upsertProducts batch-upserts products via UNNEST, one statement for
// the whole page regardless of size.
func (w *Writer) upsertProducts(ctx context.Context, tx *sql.Tx, products []models.Product, syncedAt time.Time) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO products (
			provider, external_id, title, description, images, metadata, active, last_synced_at
		)
		SELECT UNNEST($1::text[]), UNNEST($2::text[]), UNNEST($3::text[]),
		       UNNEST($4::text[]), UNNEST($5::text[])::text[], UNNEST($6::jsonb[]), true, $7
		ON CONFLICT (provider, external_id)
		DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			images = EXCLUDED.images,
			metadata = EXCLUDED.metadata,
			active = true,
			last_synced_at = EXCLUDED.last_synced_at
	`

	providers := make([]string, len(products))
	externalIDs := make([]string, len(products))
	titles := make([]string, len(products))
	descriptions := make([]string, len(products))
	images := make([]string, len(products))
	metadatas := make([]string, len(products))

	for i, p := range products {
		providers[i] = string(p.Provider)
		externalIDs[i] = p.ExternalID
		titles[i] = p.Title
		descriptions[i] = p.Description

		imgs, err := encodeTextArray(p.Images)
		if err != nil {
			return fmt.Errorf("encode images for %s: %w", p.ExternalID, err)
		}
		images[i] = imgs

		meta, err := json.Marshal(p.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", p.ExternalID, err)
		}
		metadatas[i] = string(meta)
	}

	_, err := tx.ExecContext(ctx, query,
		pq.Array(providers), pq.Array(externalIDs), pq.Array(titles),
		pq.Array(descriptions), pq.Array(images), pq.Array(metadatas), syncedAt,
	)
	return err
}

// upsertVariants flattens all variants of the changed products into one
// UNNEST upsert.
func (w *Writer) upsertVariants(ctx context.Context, tx *sql.Tx, products []models.Product) error {
	total := 0
	for _, p := range products {
		total += len(p.Variants)
	}
	if total == 0 {
		return nil
	}

	query := `
		INSERT INTO variants (
			provider, product_external_id, variant_id, sku, title, price, quantity
		)
		SELECT UNNEST($1::text[]), UNNEST($2::text[]), UNNEST($3::text[]),
		       UNNEST($4::text[]), UNNEST($5::text[]), UNNEST($6::decimal[]), UNNEST($7::int[])
		ON CONFLICT (provider, product_external_id, variant_id)
		DO UPDATE SET
			sku = EXCLUDED.sku,
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			quantity = EXCLUDED.quantity
	`

	providers := make([]string, 0, total)
	productIDs := make([]string, 0, total)
	variantIDs := make([]string, 0, total)
	skus := make([]string, 0, total)
	titles := make([]string, 0, total)
	prices := make([]string, 0, total)
	quantities := make([]int, 0, total)

	for _, p := range products {
		for _, v := range p.Variants {
			providers = append(providers, string(p.Provider))
			productIDs = append(productIDs, p.ExternalID)
			variantIDs = append(variantIDs, v.ID)
			skus = append(skus, v.SKU)
			titles = append(titles, v.Title)
			prices = append(prices, v.Price.String())
			quantities = append(quantities, v.Quantity)
		}
	}

	_, err := tx.ExecContext(ctx, query,
		pq.Array(providers), pq.Array(productIDs), pq.Array(variantIDs),
		pq.Array(skus), pq.Array(titles), pq.Array(prices), pq.Array(quantities),
	)
	return err
}

// deactivateRemoved marks vendor-archived products inactive instead of
// deleting them, so order history keeps its references.
func (w *Writer) deactivateRemoved(ctx context.Context, tx *sql.Tx, provider models.ProviderType, removed []string) error {
	if len(removed) == 0 {
		return nil
	}

	query := `
		UPDATE products
		SET active = false
		WHERE provider = $1 AND external_id = ANY($2::text[]) AND active = true
	`

	_, err := tx.ExecContext(ctx, query, string(provider), pq.Array(removed))
	return err
}

// insertSyncRun records the run outcome for auditing
func (w *Writer) insertSyncRun(ctx context.Context, tx *sql.Tx, result *models.SyncResult) error {
	query := `
		INSERT INTO sync_runs (
			id, provider, added, updated, removed, errors, total_processed, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.ExecContext(ctx, query,
		uuid.NewString(), string(result.Provider),
		len(result.Added), len(result.Updated), len(result.Removed), len(result.Errors),
		result.TotalProcessed, result.LastSyncedAt,
	)
	return err
}

// publishToStream pushes one message per catalog change onto the
// provider's stream via a single pipeline.
func (w *Writer) publishToStream(ctx context.Context, result *models.SyncResult) error {
	changes := len(result.Added) + len(result.Updated) + len(result.Removed)
	if changes == 0 {
		return nil
	}

	streamKey := fmt.Sprintf(streamKeyFormat, result.Provider)
	pipe := w.redis.Pipeline()

	add := func(msg StreamMessage) error {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal stream message: %w", err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: streamKey,
			Values: map[string]interface{}{"data": data},
		})
		return nil
	}

	for _, p := range result.Added {
		if err := add(w.productMessage(p, "added", result.LastSyncedAt)); err != nil {
			return err
		}
	}
	for _, p := range result.Updated {
		if err := add(w.productMessage(p, "updated", result.LastSyncedAt)); err != nil {
			return err
		}
	}
	for _, id := range result.Removed {
		msg := StreamMessage{
			Provider:   string(result.Provider),
			ExternalID: id,
			Change:     "removed",
			SyncedAt:   result.LastSyncedAt,
		}
		if err := add(msg); err != nil {
			return err
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline exec for stream: %w", err)
	}

	return nil
}

func (w *Writer) productMessage(p models.Product, change string, syncedAt time.Time) StreamMessage {
	return StreamMessage{
		Provider:   string(p.Provider),
		ExternalID: p.ExternalID,
		Change:     change,
		Title:      p.Title,
		Variants:   len(p.Variants),
		SyncedAt:   syncedAt,
	}
}

// notifyNewProducts fans newly added products out to the webhook.
// Runs detached so a slow webhook never blocks the sync loop.
func (w *Writer) notifyNewProducts(provider models.ProviderType, added []models.Product) {
	if w.notifier == nil || !w.notifier.IsEnabled() || len(added) == 0 {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := w.notifier.NotifyNewProducts(ctx, provider, added); err != nil {
			w.logger.Warn("webhook notify failed",
				zap.String("provider", string(provider)),
				zap.Int("products", len(added)),
				zap.Error(err))
		}
	}()
}

// encodeTextArray renders a Go string slice as a Postgres text[]
// literal so it can ride inside an UNNEST batch.
func encodeTextArray(values []string) (string, error) {
	arr, err := pq.Array(values).Value()
	if err != nil {
		return "", err
	}
	if arr == nil {
		return "{}", nil
	}
	s, ok := arr.(string)
	if !ok {
		return "", fmt.Errorf("unexpected array encoding %T", arr)
	}
	return s, nil
}
