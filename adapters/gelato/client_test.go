package gelato

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(
		models.Credentials{APIKey: "gel-key"},
		WithBaseURL(srv.URL),
		WithMinDelay(time.Millisecond),
	)
}

func TestAPIKeyHeader(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gel-key", r.Header.Get("X-API-KEY"))
		assert.Empty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id":"acct-7","name":"Studio"}`)
	}))
	require.NoError(t, client.Initialize(context.Background()))
}

func TestInitializeEmptyPayload(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	err := client.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, contracts.IsAuthentication(err))
}

func TestGetProductsTokenPagination(t *testing.T) {
	var requests int
	var gotTokens []string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		token := r.URL.Query().Get("pageToken")
		gotTokens = append(gotTokens, token)

		resp := productListResponse{}
		resp.Pagination.Total = 3
		switch token {
		case "":
			resp.Items = []wireProduct{
				{ID: "p1", Title: "One", Status: "active"},
				{ID: "p2", Title: "Two", Status: "active"},
			}
			resp.Pagination.NextPageToken = "tok-2"
		case "tok-2":
			resp.Items = []wireProduct{{ID: "p3", Title: "Three", Status: "active"}}
			// no next token: walk ends
		default:
			t.Fatalf("unexpected page token %q", token)
		}
		json.NewEncoder(w).Encode(resp)
	}))

	var collected int
	page := models.Pagination{PageSize: 2}
	for {
		result, err := client.GetProducts(context.Background(), page)
		require.NoError(t, err)
		assert.Equal(t, 3, result.TotalCount)
		collected += len(result.Items)
		if !result.HasMore {
			break
		}
		page.Cursor = result.NextCursor
	}

	assert.Equal(t, 3, collected, "cumulative items must equal reported total")
	assert.Equal(t, 2, requests)
	assert.Equal(t, []string{"", "tok-2"}, gotTokens, "vendor token must pass through unchanged")
}

func TestGetProductsArchivedAndMalformed(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := productListResponse{}
		resp.Pagination.Total = 3
		resp.Items = []wireProduct{
			{ID: "ok", Title: "Fine", Status: "active",
				Variants: []wireVariant{{ID: "v1", SKU: "S1", Price: wirePrice{Amount: "10.00", Currency: "EUR"}}}},
			{ID: "bad", Title: "Broken", Status: "active",
				Variants: []wireVariant{{ID: "v2", SKU: "S2", Price: wirePrice{Amount: "ten"}}}},
			{ID: "old", Title: "Retired", Status: "archived"},
		}
		json.NewEncoder(w).Encode(resp)
	}))

	result, err := client.GetProducts(context.Background(), models.Pagination{})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, []string{"old"}, result.Removed)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "bad", result.Failed[0].ProductID)
}

func TestMapProductDimensionDefaults(t *testing.T) {
	product, err := mapProduct(wireProduct{
		ID:    "p1",
		Title: "Framed Print",
		Variants: []wireVariant{
			{ID: "v1", SKU: "FP-30", Price: wirePrice{Amount: "29.90", Currency: "EUR"}},
		},
	})
	require.NoError(t, err)
	v := product.Variants[0]
	assert.Equal(t, "0", v.Metadata["width_mm"], "unknown dimensions default to 0")
	assert.Equal(t, "0", v.Metadata["height_mm"])
	assert.Equal(t, "true", v.Metadata["available"])
	assert.True(t, v.Price.Equal(decimal.RequireFromString("29.90")))
}

func TestStatusFallback(t *testing.T) {
	assert.Equal(t, models.StatusProcessing, mapStatus("in_production"))
	assert.Equal(t, models.StatusPending, mapStatus("mystery"))
}

func TestOrderRoundTrip(t *testing.T) {
	order := &models.Order{
		ExternalID: "ref-12",
		Items: []models.OrderItem{
			{ProductID: "p1", VariantSKU: "FP-30", Quantity: 2},
			{ProductID: "p2", VariantSKU: "FP-50", Quantity: 1},
		},
		ShippingAddress: models.Address{
			Name: "Margaret Hamilton", Address1: "1 Apollo Dr",
			City: "Cambridge", State: "MA", Country: "US", Zip: "02139",
		},
		ShippingMethod: "dhl_global",
	}

	req := toWireOrder(order)
	fetched := mapOrder(wireOrder{
		ID:                "gel-33",
		FulfillmentStatus: "passed",
		ShipmentMethod:    req.ShipmentMethod,
		Items:             req.Items,
		ShippingAddress:   req.ShippingAddress,
	})

	assert.Equal(t, "gel-33", fetched.ExternalID)
	require.Len(t, fetched.Items, 2)
	assert.Equal(t, 2, fetched.Items[0].Quantity)
	assert.Equal(t, 1, fetched.Items[1].Quantity)
	assert.Equal(t, models.StatusProcessing, fetched.Status)
	assert.Equal(t, order.ShippingAddress, fetched.ShippingAddress)
}
