package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/podsync/podsync/pkg/models"
)

// NewTestProduct creates a canonical product with one variant
func NewTestProduct(provider models.ProviderType, externalID, title string) models.Product {
	return models.Product{
		ExternalID: externalID,
		Provider:   provider,
		Title:      title,
		Variants: []models.Variant{
			NewTestVariant(externalID+"-v1", "SKU-"+externalID, "19.99"),
		},
	}
}

// NewTestVariant creates a variant with the given decimal price string
func NewTestVariant(id, sku, price string) models.Variant {
	return models.Variant{
		ID:       id,
		SKU:      sku,
		Title:    "Default",
		Price:    decimal.RequireFromString(price),
		Quantity: 1,
	}
}

// NewTestOrder creates an order with one item and a US shipping address
func NewTestOrder(provider models.ProviderType, externalID string, status models.OrderStatus) models.Order {
	return models.Order{
		ExternalID: externalID,
		Provider:   provider,
		Items: []models.OrderItem{
			{ProductID: "p1", VariantSKU: "SKU-p1", Quantity: 1},
		},
		ShippingAddress: NewTestAddress(),
		ShippingMethod:  "standard",
		Status:          status,
	}
}

// NewTestAddress returns a valid US shipping address
func NewTestAddress() models.Address {
	return models.Address{
		Name:     "Ada Lovelace",
		Address1: "1 Infinite Loop",
		City:     "Cupertino",
		State:    "CA",
		Country:  "US",
		Zip:      "95014",
	}
}

// NewTestSyncResult creates a completed sync result with the given
// counts of added and removed products
func NewTestSyncResult(provider models.ProviderType, added, removed int) *models.SyncResult {
	result := &models.SyncResult{
		Provider:     provider,
		LastSyncedAt: time.Now(),
	}
	for i := 0; i < added; i++ {
		id := string(rune('a' + i))
		result.Added = append(result.Added, NewTestProduct(provider, id, "Product "+id))
	}
	for i := 0; i < removed; i++ {
		result.Removed = append(result.Removed, string(rune('r'+i)))
	}
	result.TotalProcessed = added
	return result
}
