package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

// fakeAdapter serves a scripted sequence of pages and records how many
// listing requests it received.
type fakeAdapter struct {
	provider models.ProviderType
	pages    []*models.ProductPage
	pageErr  error
	calls    int
}

var _ contracts.ProviderAdapter = (*fakeAdapter)(nil)

func (f *fakeAdapter) Provider() models.ProviderType        { return f.provider }
func (f *fakeAdapter) Initialize(ctx context.Context) error { return nil }

func (f *fakeAdapter) GetProducts(ctx context.Context, page models.Pagination) (*models.ProductPage, error) {
	idx := f.calls
	f.calls++
	if f.pageErr != nil && idx >= len(f.pages) {
		return nil, f.pageErr
	}
	return f.pages[idx], nil
}

func (f *fakeAdapter) CreateProduct(ctx context.Context, product *models.Product) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeAdapter) SyncInventory(ctx context.Context, productID string) (*models.InventoryData, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAdapter) CreateOrder(ctx context.Context, order *models.Order) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeAdapter) GetOrder(ctx context.Context, externalID string) (*models.Order, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAdapter) GetShippingRates(ctx context.Context, address models.Address, items []models.OrderItem) ([]models.ShippingRate, error) {
	return nil, errors.New("not implemented")
}

type fakeKnownSet struct {
	hashes map[string]string
	err    error
}

func (f *fakeKnownSet) KnownHashes(ctx context.Context, provider models.ProviderType, externalIDs []string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string)
	for _, id := range externalIDs {
		if h, ok := f.hashes[id]; ok {
			out[id] = h
		}
	}
	return out, nil
}

func product(id string) models.Product {
	return models.Product{
		ExternalID: id,
		Provider:   models.ProviderPrintful,
		Title:      "Tee " + id,
		Variants: []models.Variant{
			{ID: id + "-v1", SKU: "TEE-" + id, Price: decimal.NewFromInt(19)},
		},
	}
}

func TestSyncProductsTwoPageWalk(t *testing.T) {
	adapter := &fakeAdapter{
		provider: models.ProviderPrintful,
		pages: []*models.ProductPage{
			{Items: []models.Product{product("1"), product("2")}, HasMore: true, NextCursor: "2", TotalCount: 3},
			{Items: []models.Product{product("3")}, HasMore: false, TotalCount: 3},
		},
	}

	result, err := NewReconciler().SyncProducts(context.Background(), adapter)
	require.NoError(t, err)

	assert.Equal(t, 2, adapter.calls, "one request per page, no more")
	assert.Len(t, result.Added, 3)
	assert.Empty(t, result.Updated)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.False(t, result.LastSyncedAt.IsZero())
}

func TestSyncProductsIsolatesItemFailures(t *testing.T) {
	// three items on the remote, the second one failed mapping
	adapter := &fakeAdapter{
		provider: models.ProviderPrintful,
		pages: []*models.ProductPage{
			{
				Items: []models.Product{product("1"), product("3")},
				Failed: []models.SyncError{
					{ProductID: "2", Message: "parse price: bad"},
				},
				HasMore: false,
			},
		},
	}

	result, err := NewReconciler().SyncProducts(context.Background(), adapter)
	require.NoError(t, err)

	assert.Len(t, result.Added, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "2", result.Errors[0].ProductID)
	assert.Equal(t, 2, result.TotalProcessed, "failed items do not count as processed")
}

func TestSyncProductsCollectsRemoved(t *testing.T) {
	adapter := &fakeAdapter{
		provider: models.ProviderPrintify,
		pages: []*models.ProductPage{
			{Items: []models.Product{product("1")}, Removed: []string{"9"}, HasMore: true, NextCursor: "2"},
			{Removed: []string{"10", "11"}, HasMore: false},
		},
	}

	result, err := NewReconciler().SyncProducts(context.Background(), adapter)
	require.NoError(t, err)

	assert.Equal(t, []string{"9", "10", "11"}, result.Removed)
	assert.Equal(t, 1, result.TotalProcessed)
}

func TestSyncProductsKnownSetPartition(t *testing.T) {
	adapter := &fakeAdapter{
		provider: models.ProviderPrintful,
		pages: []*models.ProductPage{
			{Items: []models.Product{product("1"), product("2"), product("3")}, HasMore: false},
		},
	}
	known := &fakeKnownSet{hashes: map[string]string{"2": "abc"}}

	result, err := NewReconciler(WithKnownSet(known)).SyncProducts(context.Background(), adapter)
	require.NoError(t, err)

	require.Len(t, result.Added, 2)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, "2", result.Updated[0].ExternalID)
}

func TestSyncProductsKnownSetFailureDegradesToAdded(t *testing.T) {
	adapter := &fakeAdapter{
		provider: models.ProviderPrintful,
		pages: []*models.ProductPage{
			{Items: []models.Product{product("1"), product("2")}, HasMore: false},
		},
	}
	known := &fakeKnownSet{err: errors.New("redis down")}

	result, err := NewReconciler(WithKnownSet(known)).SyncProducts(context.Background(), adapter)
	require.NoError(t, err)

	assert.Len(t, result.Added, 2)
	assert.Empty(t, result.Updated)
}

func TestSyncProductsPageErrorReturnsPartialResult(t *testing.T) {
	adapter := &fakeAdapter{
		provider: models.ProviderGooten,
		pages: []*models.ProductPage{
			{Items: []models.Product{product("1")}, HasMore: true, NextCursor: "2"},
		},
		pageErr: &contracts.ProviderError{Provider: models.ProviderGooten, Op: "list products", StatusCode: 500},
	}

	result, err := NewReconciler().SyncProducts(context.Background(), adapter)
	require.Error(t, err)

	var pe *contracts.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Len(t, result.Added, 1, "items from completed pages survive")
	assert.True(t, result.LastSyncedAt.IsZero(), "aborted sync carries no completion timestamp")
}

func TestSyncProductsHonorsContextBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapter := &fakeAdapter{
		provider: models.ProviderGelato,
		pages: []*models.ProductPage{
			{Items: []models.Product{product("1")}, HasMore: true, NextCursor: "tok"},
		},
	}

	result, err := NewReconciler().SyncProducts(ctx, adapter)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, adapter.calls)
	assert.NotNil(t, result)
}
