// Package gelato implements the ProviderAdapter contract against the
// Gelato REST API. Custom X-API-KEY authentication, token-based
// pagination with items under "items" and metadata under "pagination".
package gelato

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/podsync/podsync/internal/paging"
	"github.com/podsync/podsync/internal/transport"
	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

const (
	defaultBaseURL = "https://api.gelato.com/v3"
	minDelay       = 1000 * time.Millisecond
)

type Client struct {
	creds models.Credentials
	http  *transport.Client
}

var _ contracts.ProviderAdapter = (*Client)(nil)

type Option func(*transport.Config)

func WithBaseURL(u string) Option {
	return func(cfg *transport.Config) { cfg.BaseURL = u }
}

func WithMinDelay(d time.Duration) Option {
	return func(cfg *transport.Config) { cfg.MinDelay = d }
}

func NewClient(creds models.Credentials, opts ...Option) *Client {
	cfg := transport.Config{
		Provider:  models.ProviderGelato,
		BaseURL:   defaultBaseURL,
		MinDelay:  minDelay,
		Authorize: transport.HeaderAuth("X-API-KEY", creds.APIKey),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{creds: creds, http: transport.NewClient(cfg)}
}

func (c *Client) Provider() models.ProviderType { return models.ProviderGelato }

func (c *Client) Initialize(ctx context.Context) error {
	var resp accountResponse
	if err := c.http.GetJSON(ctx, "/account", nil, &resp); err != nil {
		return &contracts.AuthenticationError{Provider: models.ProviderGelato, Reason: err.Error()}
	}
	if resp.ID == "" {
		return &contracts.AuthenticationError{
			Provider: models.ProviderGelato,
			Reason:   "probe returned no account payload",
		}
	}
	return nil
}

// GetProducts returns one catalog page. The cursor is the vendor page
// token, passed through unchanged.
func (c *Client) GetProducts(ctx context.Context, page models.Pagination) (*models.ProductPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(page.Limit()))
	if page.Cursor != "" {
		query.Set("pageToken", page.Cursor)
	}

	var resp productListResponse
	if err := c.http.GetJSON(ctx, "/products", query, &resp); err != nil {
		return nil, err
	}

	out := &models.ProductPage{TotalCount: resp.Pagination.Total}
	for _, wp := range resp.Items {
		if wp.Status == "archived" || wp.Status == "discontinued" {
			out.Removed = append(out.Removed, wp.ID)
			continue
		}
		product, err := mapProduct(wp)
		if err != nil {
			out.Failed = append(out.Failed, models.SyncError{ProductID: wp.ID, Message: err.Error()})
			continue
		}
		out.Items = append(out.Items, *product)
	}

	out.NextCursor, out.HasMore = paging.Token(resp.Pagination.NextPageToken)
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, product *models.Product) (string, error) {
	var resp wireProduct
	if err := c.http.PostJSON(ctx, "/products", toWireProduct(product), &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) SyncInventory(ctx context.Context, productID string) (*models.InventoryData, error) {
	var resp wireProduct
	if err := c.http.GetJSON(ctx, "/products/"+productID, nil, &resp); err != nil {
		return nil, err
	}

	data := &models.InventoryData{ProductID: productID}
	for _, v := range resp.Variants {
		data.Variants = append(data.Variants, models.VariantStock{
			SKU:      v.SKU,
			Quantity: v.Stock.Quantity,
		})
	}
	return data, nil
}

func (c *Client) CreateOrder(ctx context.Context, order *models.Order) (string, error) {
	var resp wireOrder
	if err := c.http.PostJSON(ctx, "/orders", toWireOrder(order), &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) GetOrder(ctx context.Context, externalID string) (*models.Order, error) {
	var resp wireOrder
	if err := c.http.GetJSON(ctx, "/orders/"+externalID, nil, &resp); err != nil {
		return nil, err
	}
	return mapOrder(resp), nil
}

func (c *Client) GetShippingRates(ctx context.Context, address models.Address, items []models.OrderItem) ([]models.ShippingRate, error) {
	payload := shippingRequest{
		ShippingAddress: toWireAddress(address),
		Items:           toWireItems(items),
	}

	var resp shippingResponse
	if err := c.http.PostJSON(ctx, "/shipping-rates", payload, &resp); err != nil {
		return nil, err
	}

	rates := make([]models.ShippingRate, 0, len(resp.ShipmentMethods))
	for _, method := range resp.ShipmentMethods {
		rate, err := mapShipmentMethod(method)
		if err != nil {
			continue
		}
		rates = append(rates, rate)
	}
	return rates, nil
}
