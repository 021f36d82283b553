// Package scheduler runs the periodic full-catalog sync for every
// registered provider. Each provider gets its own goroutine so one
// slow vendor never delays the others.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/podsync/podsync/internal/catalog"
	"github.com/podsync/podsync/internal/logging"
	"github.com/podsync/podsync/internal/registry"
	"github.com/podsync/podsync/internal/store"
	psync "github.com/podsync/podsync/internal/sync"
	"github.com/podsync/podsync/pkg/contracts"
)

// Scheduler orchestrates sync loops for all registered providers
type Scheduler struct {
	registry   *registry.ProviderRegistry
	reconciler *psync.Reconciler
	index      *catalog.Index
	writer     *store.Writer

	interval      time.Duration
	jitterSeconds int
	logger        *zap.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a sync scheduler. The catalog index doubles as
// the reconciler's known set and as the post-write cache.
func NewScheduler(
	db *sql.DB,
	redisClient *redis.Client,
	reg *registry.ProviderRegistry,
	interval time.Duration,
	jitterSeconds int,
	cacheTTL time.Duration,
) *Scheduler {
	index := catalog.NewIndex(redisClient, cacheTTL)

	return &Scheduler{
		registry:      reg,
		reconciler:    psync.NewReconciler(psync.WithKnownSet(index)),
		index:         index,
		writer:        store.NewWriter(db, redisClient),
		interval:      interval,
		jitterSeconds: jitterSeconds,
		logger:        logging.L().Named("scheduler"),
		stopChan:      make(chan struct{}),
	}
}

// Writer exposes the store writer so callers can attach a notifier
func (s *Scheduler) Writer() *store.Writer {
	return s.writer
}

// Start launches one sync loop per registered provider
func (s *Scheduler) Start(ctx context.Context) error {
	adapters := s.registry.GetAll()
	if len(adapters) == 0 {
		return fmt.Errorf("no providers registered")
	}

	for _, adapter := range adapters {
		s.wg.Add(1)
		go func(adapter contracts.ProviderAdapter) {
			defer s.wg.Done()
			s.runLoop(ctx, adapter)
		}(adapter)

		s.logger.Info("started sync loop", zap.String("provider", string(adapter.Provider())))
	}

	return nil
}

// Stop gracefully shuts down all sync loops
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

// runLoop syncs one provider immediately and then on every tick. The
// jittered interval keeps the providers from all hitting their vendors
// at the same instant after a restart.
func (s *Scheduler) runLoop(ctx context.Context, adapter contracts.ProviderAdapter) {
	provider := string(adapter.Provider())

	if err := s.syncOnce(ctx, adapter); err != nil {
		s.logger.Error("initial sync failed",
			zap.String("provider", provider),
			zap.Error(err))
	}

	ticker := time.NewTicker(addJitter(s.interval, s.jitterSeconds))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.syncOnce(ctx, adapter); err != nil {
				s.logger.Error("sync failed",
					zap.String("provider", provider),
					zap.Error(err))
			}
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// syncOnce runs the full pipeline for one provider: walk the catalog,
// apply the result to the store, then update the index so the next walk
// classifies correctly.
func (s *Scheduler) syncOnce(ctx context.Context, adapter contracts.ProviderAdapter) error {
	provider := adapter.Provider()

	result, err := s.reconciler.SyncProducts(ctx, adapter)
	if err != nil {
		return fmt.Errorf("sync products: %w", err)
	}

	if result.TotalProcessed == 0 && len(result.Removed) == 0 && len(result.Errors) == 0 {
		return nil
	}

	if err := s.writer.ApplySyncResult(ctx, result); err != nil {
		return fmt.Errorf("apply sync result: %w", err)
	}

	// Write-through after the store commit
	if err := s.index.Record(ctx, append(result.Added, result.Updated...)); err != nil {
		s.logger.Warn("index update failed",
			zap.String("provider", string(provider)),
			zap.Error(err))
	}
	if err := s.index.Forget(ctx, provider, result.Removed); err != nil {
		s.logger.Warn("index forget failed",
			zap.String("provider", string(provider)),
			zap.Error(err))
	}

	return nil
}

// addJitter adds random jitter to prevent synchronized vendor hits
func addJitter(duration time.Duration, jitterSeconds int) time.Duration {
	if jitterSeconds == 0 {
		return duration
	}

	jitter := time.Duration(rand.Intn(jitterSeconds)) * time.Second
	return duration + jitter
}
