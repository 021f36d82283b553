// Package catalog maintains the Redis-backed index of products already
// synced from each vendor. The index is what turns a raw catalog walk
// into an added/updated partition without re-reading Postgres.
package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/podsync/podsync/pkg/models"
)

// Index stores one entry per synced product, keyed by provider and
// external id, holding a content hash of the last stored version.
type Index struct {
	redis *redis.Client
	ttl   time.Duration
}

// entry is the minimal data cached in Redis for comparison
type entry struct {
	Hash     string    `json:"hash"`
	SyncedAt time.Time `json:"synced_at"`
}

// NewIndex creates a catalog index
func NewIndex(redisClient *redis.Client, cacheTTL time.Duration) *Index {
	return &Index{
		redis: redisClient,
		ttl:   cacheTTL,
	}
}

// KnownHashes batch-resolves which of the external ids already have an
// index entry. The returned map holds only the known ids, mapped to
// their stored content hash; corrupt entries are treated as unknown.
func (ix *Index) KnownHashes(ctx context.Context, provider models.ProviderType, externalIDs []string) (map[string]string, error) {
	if len(externalIDs) == 0 {
		return map[string]string{}, nil
	}

	keys := make([]string, len(externalIDs))
	for i, id := range externalIDs {
		keys[i] = ix.buildKey(provider, id)
	}

	// Batch GET so a full page costs one round trip
	values, err := ix.redis.MGet(ctx, keys...).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	known := make(map[string]string, len(externalIDs))
	for i, value := range values {
		if value == nil {
			continue
		}
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var e entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		known[externalIDs[i]] = e.Hash
	}

	return known, nil
}

// Record updates the index after products were successfully written to
// the store (write-through pattern).
func (ix *Index) Record(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	now := time.Now()
	pipe := ix.redis.Pipeline()

	for _, product := range products {
		key := ix.buildKey(product.Provider, product.ExternalID)
		e := entry{
			Hash:     HashProduct(product),
			SyncedAt: now,
		}

		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal index entry: %w", err)
		}

		pipe.Set(ctx, key, data, ix.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline exec: %w", err)
	}

	return nil
}

// Forget drops index entries for products the vendor no longer lists,
// so a re-listed product comes back as an add.
func (ix *Index) Forget(ctx context.Context, provider models.ProviderType, externalIDs []string) error {
	if len(externalIDs) == 0 {
		return nil
	}

	keys := make([]string, len(externalIDs))
	for i, id := range externalIDs {
		keys[i] = ix.buildKey(provider, id)
	}

	if err := ix.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// buildKey creates the Redis key for one product
// Format: catalog:known:{provider}:{external_id}
func (ix *Index) buildKey(provider models.ProviderType, externalID string) string {
	return fmt.Sprintf("catalog:known:%s:%s", provider, externalID)
}

// HashProduct computes a stable content hash over the canonical fields
// of a product. Identical catalog content always hashes the same, so a
// hash mismatch means the vendor changed something we store.
func HashProduct(product models.Product) string {
	payload, err := json.Marshal(product)
	if err != nil {
		// Marshal on a plain struct cannot fail at runtime; fall back
		// to the id so the entry is still usable.
		payload = []byte(product.ExternalID)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
