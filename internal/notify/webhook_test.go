package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podsync/podsync/pkg/models"
)

func TestNotifyNewProductsPayload(t *testing.T) {
	var got productPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	products := []models.Product{
		{ExternalID: "p1", Title: "Classic Tee", Variants: make([]models.Variant, 3)},
	}

	err := client.NotifyNewProducts(context.Background(), models.ProviderPrintful, products)
	require.NoError(t, err)

	assert.Equal(t, "products.added", got.Event)
	assert.Equal(t, "printful", got.Provider)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "p1", got.Products[0].ExternalID)
	assert.Equal(t, 3, got.Products[0].Variants)
}

func TestNotifyOrderStatus(t *testing.T) {
	var got orderPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	err := client.NotifyOrderStatus(context.Background(), models.ProviderGelato, "ord-1",
		models.StatusProcessing, models.StatusShipped)
	require.NoError(t, err)

	assert.Equal(t, "order.status_changed", got.Event)
	assert.Equal(t, "processing", got.OldStatus)
	assert.Equal(t, "shipped", got.NewStatus)
}

func TestDisabledClientIsNoOp(t *testing.T) {
	client := NewClient(Config{})
	assert.False(t, client.IsEnabled())

	err := client.NotifyNewProducts(context.Background(), models.ProviderPrintful,
		[]models.Product{{ExternalID: "p1"}})
	assert.NoError(t, err)
}

func TestErrorStatusSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	err := client.NotifyNewProducts(context.Background(), models.ProviderPrintful,
		[]models.Product{{ExternalID: "p1"}})
	assert.ErrorContains(t, err, "502")
}
