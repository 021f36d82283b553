// Package printful implements the ProviderAdapter contract against the
// Printful REST API. Bearer authentication, offset/limit pagination,
// response envelope under "result" with paging metadata under "paging".
package printful

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/podsync/podsync/internal/paging"
	"github.com/podsync/podsync/internal/transport"
	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

const (
	defaultBaseURL = "https://api.printful.com"
	minDelay       = 500 * time.Millisecond
)

// Client implements the ProviderAdapter interface for Printful
type Client struct {
	creds models.Credentials
	http  *transport.Client
}

// Ensure Client implements ProviderAdapter
var _ contracts.ProviderAdapter = (*Client)(nil)

// Option overrides client defaults, mainly for tests
type Option func(*transport.Config)

// WithBaseURL points the client at an alternate API host
func WithBaseURL(u string) Option {
	return func(cfg *transport.Config) { cfg.BaseURL = u }
}

// WithMinDelay overrides the vendor rate-limit spacing
func WithMinDelay(d time.Duration) Option {
	return func(cfg *transport.Config) { cfg.MinDelay = d }
}

// NewClient creates a Printful adapter bound to one credential set
func NewClient(creds models.Credentials, opts ...Option) *Client {
	cfg := transport.Config{
		Provider:  models.ProviderPrintful,
		BaseURL:   defaultBaseURL,
		MinDelay:  minDelay,
		Authorize: transport.BearerAuth(creds.APIKey),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{creds: creds, http: transport.NewClient(cfg)}
}

// Provider returns the vendor identifier
func (c *Client) Provider() models.ProviderType { return models.ProviderPrintful }

// Initialize probes the store endpoint to validate credentials
func (c *Client) Initialize(ctx context.Context) error {
	var resp storeResponse
	if err := c.http.GetJSON(ctx, "/store", nil, &resp); err != nil {
		return &contracts.AuthenticationError{
			Provider: models.ProviderPrintful,
			Reason:   err.Error(),
		}
	}
	if resp.Result.ID == 0 {
		return &contracts.AuthenticationError{
			Provider: models.ProviderPrintful,
			Reason:   "probe returned no store payload",
		}
	}
	return nil
}

// GetProducts returns one page of the store catalog. The cursor encodes
// the next offset.
func (c *Client) GetProducts(ctx context.Context, page models.Pagination) (*models.ProductPage, error) {
	offset, err := paging.Offset(page.Cursor)
	if err != nil {
		return nil, fmt.Errorf("printful: %w", err)
	}
	limit := page.Limit()

	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	var resp productListResponse
	if err := c.http.GetJSON(ctx, "/store/products", query, &resp); err != nil {
		return nil, err
	}

	out := &models.ProductPage{TotalCount: resp.Paging.Total}
	for _, wp := range resp.Result {
		if wp.IsIgnored || wp.Synced == 0 {
			out.Removed = append(out.Removed, strconv.FormatInt(wp.ID, 10))
			continue
		}
		product, err := mapProduct(wp)
		if err != nil {
			out.Failed = append(out.Failed, models.SyncError{
				ProductID: strconv.FormatInt(wp.ID, 10),
				Message:   err.Error(),
			})
			continue
		}
		out.Items = append(out.Items, *product)
	}

	out.NextCursor, out.HasMore = paging.NextOffset(offset, limit, resp.Paging.Total)
	return out, nil
}

// CreateProduct maps a canonical product to the Printful sync-product
// schema and returns the vendor-assigned id
func (c *Client) CreateProduct(ctx context.Context, product *models.Product) (string, error) {
	payload := toWireProduct(product)

	var resp createProductResponse
	if err := c.http.PostJSON(ctx, "/store/products", payload, &resp); err != nil {
		return "", err
	}
	return strconv.FormatInt(resp.Result.ID, 10), nil
}

// SyncInventory fetches per-variant stock for one product
func (c *Client) SyncInventory(ctx context.Context, productID string) (*models.InventoryData, error) {
	var resp productDetailResponse
	if err := c.http.GetJSON(ctx, "/store/products/"+productID, nil, &resp); err != nil {
		return nil, err
	}

	data := &models.InventoryData{ProductID: productID}
	for _, v := range resp.Result.SyncVariants {
		data.Variants = append(data.Variants, models.VariantStock{
			SKU:      v.SKU,
			Quantity: v.Quantity,
		})
	}
	return data, nil
}

// CreateOrder submits a canonical order and returns the vendor order id
func (c *Client) CreateOrder(ctx context.Context, order *models.Order) (string, error) {
	payload := toWireOrder(order)

	var resp orderResponse
	if err := c.http.PostJSON(ctx, "/orders", payload, &resp); err != nil {
		return "", err
	}
	return strconv.FormatInt(resp.Result.ID, 10), nil
}

// GetOrder fetches an order, mapping vendor status through the canonical table
func (c *Client) GetOrder(ctx context.Context, externalID string) (*models.Order, error) {
	var resp orderResponse
	if err := c.http.GetJSON(ctx, "/orders/"+externalID, nil, &resp); err != nil {
		return nil, err
	}
	return mapOrder(resp.Result), nil
}

// GetShippingRates quotes shipping for an address and item set
func (c *Client) GetShippingRates(ctx context.Context, address models.Address, items []models.OrderItem) ([]models.ShippingRate, error) {
	payload := shippingRequest{
		Recipient: toWireAddress(address),
		Items:     toWireItems(items),
	}

	var resp shippingResponse
	if err := c.http.PostJSON(ctx, "/shipping/rates", payload, &resp); err != nil {
		return nil, err
	}

	rates := make([]models.ShippingRate, 0, len(resp.Result))
	for _, r := range resp.Result {
		rate, err := mapShippingRate(r)
		if err != nil {
			// A single malformed quote does not void the others
			continue
		}
		rates = append(rates, rate)
	}
	return rates, nil
}
