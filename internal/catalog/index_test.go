//go:build integration
// +build integration

package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/podsync/podsync/internal/catalog"
	"github.com/podsync/podsync/pkg/models"
)

// Requires Redis running on localhost:6379

func testIndex(t *testing.T) (*catalog.Index, *redis.Client) {
	t.Helper()
	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // test DB
	})
	t.Cleanup(func() { redisClient.Close() })

	ctx := context.Background()
	if err := redisClient.FlushDB(ctx).Err(); err != nil {
		t.Skipf("skipping integration test: %v", err)
	}

	return catalog.NewIndex(redisClient, 30*time.Second), redisClient
}

func testProduct(id string) models.Product {
	return models.Product{
		ExternalID: id,
		Provider:   models.ProviderPrintful,
		Title:      "Classic Tee",
		Variants: []models.Variant{
			{ID: id + "-v1", SKU: "TEE-" + id, Price: decimal.NewFromInt(21)},
		},
	}
}

func TestKnownHashes_UnknownProduct(t *testing.T) {
	ix, _ := testIndex(t)
	ctx := context.Background()

	known, err := ix.KnownHashes(ctx, models.ProviderPrintful, []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("KnownHashes failed: %v", err)
	}

	if len(known) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(known))
	}
}

func TestRecordThenKnown(t *testing.T) {
	ix, _ := testIndex(t)
	ctx := context.Background()

	product := testProduct("p1")
	if err := ix.Record(ctx, []models.Product{product}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	known, err := ix.KnownHashes(ctx, models.ProviderPrintful, []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("KnownHashes failed: %v", err)
	}

	hash, ok := known["p1"]
	if !ok {
		t.Fatal("expected p1 to be known after Record")
	}
	if hash != catalog.HashProduct(product) {
		t.Errorf("stored hash does not match recomputed hash")
	}
	if _, ok := known["p2"]; ok {
		t.Error("p2 was never recorded, must not be known")
	}
}

func TestForget(t *testing.T) {
	ix, _ := testIndex(t)
	ctx := context.Background()

	if err := ix.Record(ctx, []models.Product{testProduct("p1")}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := ix.Forget(ctx, models.ProviderPrintful, []string{"p1"}); err != nil {
		t.Fatalf("Forget failed: %v", err)
	}

	known, err := ix.KnownHashes(ctx, models.ProviderPrintful, []string{"p1"})
	if err != nil {
		t.Fatalf("KnownHashes failed: %v", err)
	}
	if len(known) != 0 {
		t.Error("expected p1 to be forgotten")
	}
}

func TestProvidersDoNotCollide(t *testing.T) {
	ix, _ := testIndex(t)
	ctx := context.Background()

	product := testProduct("p1")
	if err := ix.Record(ctx, []models.Product{product}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	known, err := ix.KnownHashes(ctx, models.ProviderGelato, []string{"p1"})
	if err != nil {
		t.Fatalf("KnownHashes failed: %v", err)
	}
	if len(known) != 0 {
		t.Error("same external id under a different provider must be unknown")
	}
}
