package printful

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

func TestStatusTableTotality(t *testing.T) {
	expected := map[string]models.OrderStatus{
		"draft":     models.StatusDraft,
		"pending":   models.StatusPending,
		"failed":    models.StatusFailed,
		"canceled":  models.StatusCancelled,
		"onhold":    models.StatusPending,
		"inprocess": models.StatusProcessing,
		"partial":   models.StatusProcessing,
		"fulfilled": models.StatusFulfilled,
		"shipped":   models.StatusShipped,
		"delivered": models.StatusDelivered,
	}
	for vendorStatus, want := range expected {
		assert.Equal(t, want, mapStatus(vendorStatus), "status %q", vendorStatus)
	}
}

func TestStatusUnknownFallsBackToPending(t *testing.T) {
	assert.Equal(t, models.StatusPending, mapStatus("some-future-status"))
	assert.Equal(t, models.StatusPending, mapStatus(""))
	assert.Equal(t, models.StatusPending, mapStatus("INPROCESS "))
}

func TestStatusCaseInsensitive(t *testing.T) {
	assert.Equal(t, models.StatusProcessing, mapStatus("InProcess"))
}

func TestMapProductDefaults(t *testing.T) {
	wp := wireProduct{
		ID:     42,
		Name:   "Classic Tee",
		Synced: 2,
		SyncVariants: []wireVariant{
			{ID: 1, SKU: "TEE-S", Name: "Small"}, // no price, no availability
		},
	}

	product, err := mapProduct(wp)
	require.NoError(t, err)

	assert.Equal(t, "42", product.ExternalID)
	assert.Equal(t, models.ProviderPrintful, product.Provider)
	require.Len(t, product.Variants, 1)

	v := product.Variants[0]
	assert.True(t, v.Price.Equal(decimal.Zero), "missing price defaults to 0")
	assert.Equal(t, 0, v.Quantity)
	assert.Equal(t, "true", v.Metadata["available"], "availability defaults to true")
}

func TestMapProductPreservesExtras(t *testing.T) {
	wp := wireProduct{
		ID:           7,
		ExternalID:   "shop-7",
		Name:         "Mug",
		ThumbnailURL: "https://cdn.example.com/mug.png",
		Synced:       1,
		SyncVariants: []wireVariant{
			{ID: 70, SKU: "MUG-11", RetailPrice: "12.95", Currency: "EUR", Quantity: 3, AvailabilityStatus: "active"},
		},
	}

	product, err := mapProduct(wp)
	require.NoError(t, err)

	assert.Equal(t, "shop-7", product.Metadata["printful_external_id"])
	assert.Equal(t, []string{"https://cdn.example.com/mug.png"}, product.Images)

	v := product.Variants[0]
	assert.True(t, v.Price.Equal(decimal.RequireFromString("12.95")))
	assert.Equal(t, "EUR", v.Metadata["currency"])
	assert.Equal(t, "active", v.Metadata["availability_status"])
}

func TestMapProductMalformedPrice(t *testing.T) {
	wp := wireProduct{
		ID:     9,
		Name:   "Poster",
		Synced: 1,
		SyncVariants: []wireVariant{
			{ID: 90, SKU: "POS-A3", RetailPrice: "not-a-number"},
		},
	}

	_, err := mapProduct(wp)
	require.Error(t, err)
	assert.True(t, contracts.IsMapping(err))
}

func TestMapProductNegativePrice(t *testing.T) {
	wp := wireProduct{
		ID:     10,
		Name:   "Hat",
		Synced: 1,
		SyncVariants: []wireVariant{
			{ID: 100, SKU: "HAT-1", RetailPrice: "-4.00"},
		},
	}

	_, err := mapProduct(wp)
	require.Error(t, err)
	assert.True(t, contracts.IsMapping(err))
}

func TestOrderRoundTrip(t *testing.T) {
	order := &models.Order{
		ExternalID: "merchant-55",
		Items: []models.OrderItem{
			{ProductID: "42", VariantSKU: "TEE-S", Quantity: 2},
			{ProductID: "42", VariantSKU: "TEE-M", Quantity: 5},
		},
		ShippingAddress: models.Address{
			Name:     "Ada Lovelace",
			Address1: "12 Analytical Way",
			City:     "London",
			State:    "LND",
			Country:  "GB",
			Zip:      "EC1A",
		},
		ShippingMethod: "STANDARD",
	}

	// To the vendor and back through the order-fetch mapper
	req := toWireOrder(order)
	fetched := mapOrder(wireOrder{
		ID:        5501,
		Status:    "inprocess",
		Shipping:  req.Shipping,
		Recipient: req.Recipient,
		Items:     req.Items,
	})

	assert.Equal(t, "5501", fetched.ExternalID)
	require.Len(t, fetched.Items, 2)
	assert.Equal(t, 2, fetched.Items[0].Quantity)
	assert.Equal(t, 5, fetched.Items[1].Quantity)
	assert.Equal(t, "TEE-M", fetched.Items[1].VariantSKU)
	assert.Equal(t, models.StatusProcessing, fetched.Status)
	assert.Equal(t, order.ShippingAddress, fetched.ShippingAddress)
}

func TestMapShippingRate(t *testing.T) {
	rate, err := mapShippingRate(wireShippingRate{
		ID: "STANDARD", Name: "Flat Rate", Rate: "5.99", Currency: "USD", MaxDeliveryDays: 7,
	})
	require.NoError(t, err)
	assert.True(t, rate.Price.Equal(decimal.RequireFromString("5.99")))
	assert.Equal(t, 7, rate.EstimatedDays)

	_, err = mapShippingRate(wireShippingRate{ID: "X", Rate: "free"})
	assert.Error(t, err)
}
