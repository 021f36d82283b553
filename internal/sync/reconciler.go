// Package sync drives the full-catalog reconciliation walk: page through
// one adapter's listing, classify every remote item as added, updated,
// removed or errored, and return one SyncResult snapshot.
package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/podsync/podsync/internal/logging"
	"github.com/podsync/podsync/internal/metrics"
	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

// KnownSet reports which external ids the caller already holds, keyed to
// a content hash of the last stored version. It is the persisted-state
// input that lets the reconciler tell a genuinely new item from an
// update; with no KnownSet every mapped item is classified as added.
type KnownSet interface {
	KnownHashes(ctx context.Context, provider models.ProviderType, externalIDs []string) (map[string]string, error)
}

// Reconciler walks a vendor catalog through an adapter. The adapter's
// transport enforces the vendor rate limit between page requests; the
// reconciler checks the context between pages so a multi-thousand-item
// sync can be aborted mid-flight.
type Reconciler struct {
	known    KnownSet
	pageSize int
	logger   *zap.Logger
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithKnownSet injects the caller's persisted external-id set for
// added/updated partitioning
func WithKnownSet(known KnownSet) Option {
	return func(r *Reconciler) { r.known = known }
}

// WithPageSize overrides the page-size hint sent to the adapter
func WithPageSize(size int) Option {
	return func(r *Reconciler) { r.pageSize = size }
}

// NewReconciler creates a reconciler
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		pageSize: models.DefaultPageSize,
		logger:   logging.L().Named("sync"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SyncProducts performs one full catalog walk. A failure on any single
// item never prevents processing of subsequent items or pages; only a
// page-level provider error aborts the walk, and then the partial
// result accumulated so far is returned alongside the error.
func (r *Reconciler) SyncProducts(ctx context.Context, adapter contracts.ProviderAdapter) (*models.SyncResult, error) {
	provider := adapter.Provider()
	start := time.Now()

	result := &models.SyncResult{Provider: provider}
	page := models.Pagination{PageSize: r.pageSize}
	pages := 0

	for {
		if err := ctx.Err(); err != nil {
			metrics.SyncRunsTotal.WithLabelValues(string(provider), "cancelled").Inc()
			return result, err
		}

		pageResult, err := adapter.GetProducts(ctx, page)
		if err != nil {
			metrics.SyncRunsTotal.WithLabelValues(string(provider), "error").Inc()
			return result, err
		}
		pages++

		result.Removed = append(result.Removed, pageResult.Removed...)
		result.Errors = append(result.Errors, pageResult.Failed...)
		r.classify(ctx, provider, pageResult.Items, result)
		result.TotalProcessed += len(pageResult.Items)

		if !pageResult.HasMore {
			break
		}
		page.Cursor = pageResult.NextCursor
	}

	result.LastSyncedAt = time.Now()

	metrics.SyncRunsTotal.WithLabelValues(string(provider), "ok").Inc()
	metrics.SyncDuration.WithLabelValues(string(provider)).Observe(time.Since(start).Seconds())
	metrics.SyncItemsTotal.WithLabelValues(string(provider), "added").Add(float64(len(result.Added)))
	metrics.SyncItemsTotal.WithLabelValues(string(provider), "updated").Add(float64(len(result.Updated)))
	metrics.SyncItemsTotal.WithLabelValues(string(provider), "removed").Add(float64(len(result.Removed)))
	metrics.SyncItemsTotal.WithLabelValues(string(provider), "errored").Add(float64(len(result.Errors)))

	r.logger.Info("sync complete",
		zap.String("provider", string(provider)),
		zap.Int("pages", pages),
		zap.Int("added", len(result.Added)),
		zap.Int("updated", len(result.Updated)),
		zap.Int("removed", len(result.Removed)),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("took", time.Since(start)))

	return result, nil
}

// classify partitions mapped items into added and updated. Items the
// KnownSet already holds are updates; everything else is an add. A
// KnownSet lookup failure degrades the page to all-added rather than
// failing the sync.
func (r *Reconciler) classify(ctx context.Context, provider models.ProviderType, items []models.Product, result *models.SyncResult) {
	if len(items) == 0 {
		return
	}
	if r.known == nil {
		result.Added = append(result.Added, items...)
		return
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ExternalID
	}

	hashes, err := r.known.KnownHashes(ctx, provider, ids)
	if err != nil {
		r.logger.Warn("known-set lookup failed, classifying page as added",
			zap.String("provider", string(provider)),
			zap.Error(err))
		result.Added = append(result.Added, items...)
		return
	}

	for _, item := range items {
		if _, known := hashes[item.ExternalID]; known {
			result.Updated = append(result.Updated, item)
		} else {
			result.Added = append(result.Added, item)
		}
	}
}
