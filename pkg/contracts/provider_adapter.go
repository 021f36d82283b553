package contracts

import (
	"context"

	"github.com/podsync/podsync/pkg/models"
)

// ProviderAdapter is the fixed capability contract every vendor
// implementation satisfies. One instance per vendor per credential set;
// independent instances share no state.
type ProviderAdapter interface {
	// Provider returns the vendor identifier for this adapter
	Provider() models.ProviderType

	// Initialize probes a lightweight account endpoint to validate the
	// credentials. Returns *AuthenticationError when the probe does not
	// come back with a recognizable account/shop payload.
	Initialize(ctx context.Context) error

	// GetProducts returns one page of the vendor catalog, normalized to
	// the canonical model. The cursor in Pagination is opaque to callers;
	// adapters decode it into their native offset/page/token.
	GetProducts(ctx context.Context, page models.Pagination) (*models.ProductPage, error)

	// CreateProduct maps canonical input to the vendor schema, issues a
	// create call and returns the vendor-assigned id.
	CreateProduct(ctx context.Context, product *models.Product) (string, error)

	// SyncInventory fetches current per-variant stock for one product
	SyncInventory(ctx context.Context, productID string) (*models.InventoryData, error)

	// CreateOrder maps a canonical order to the vendor schema and returns
	// the vendor order id.
	CreateOrder(ctx context.Context, order *models.Order) (string, error)

	// GetOrder fetches a previously created order, mapping vendor status
	// through the canonical status table.
	GetOrder(ctx context.Context, externalID string) (*models.Order, error)

	// GetShippingRates quotes shipping options for an address and item set
	GetShippingRates(ctx context.Context, address models.Address, items []models.OrderItem) ([]models.ShippingRate, error)
}
