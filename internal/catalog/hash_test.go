package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/podsync/podsync/pkg/models"
)

func TestHashProductStable(t *testing.T) {
	product := models.Product{
		ExternalID: "p1",
		Provider:   models.ProviderPrintify,
		Title:      "Mug",
		Variants: []models.Variant{
			{ID: "v1", SKU: "MUG-1", Price: decimal.New(1550, -2)},
		},
	}

	assert.Equal(t, HashProduct(product), HashProduct(product))
}

func TestHashProductDetectsChange(t *testing.T) {
	base := models.Product{ExternalID: "p1", Provider: models.ProviderPrintify, Title: "Mug"}
	renamed := base
	renamed.Title = "Enamel Mug"

	assert.NotEqual(t, HashProduct(base), HashProduct(renamed))
}
