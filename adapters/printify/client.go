// Package printify implements the ProviderAdapter contract against the
// Printify REST API. Bearer authentication, shop-scoped endpoints,
// page-number pagination with items under "data".
package printify

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
	defaultBaseURL = "https://api.printify.com/v1"
	minDelay       = 600 * time.Millisecond
)

// Client implements the ProviderAdapter interface for Printify
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

// NewClient creates a Printify adapter. The shop id in the credentials
// scopes every catalog and order endpoint.
func NewClient(creds models.Credentials, opts ...Option) *Client {
	cfg := transport.Config{
		Provider:  models.ProviderPrintify,
		BaseURL:   defaultBaseURL,
		MinDelay:  minDelay,
		Authorize: transport.BearerAuth(creds.APIKey),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{creds: creds, http: transport.NewClient(cfg)}
}

func (c *Client) Provider() models.ProviderType { return models.ProviderPrintify }

func (c *Client) shopPath(suffix string) string {
	return "/shops/" + c.creds.ShopID + suffix
}

// Initialize lists shops and checks the configured shop id is among them
func (c *Client) Initialize(ctx context.Context) error {
	var shops []wireShop
	if err := c.http.GetJSON(ctx, "/shops.json", nil, &shops); err != nil {
		return &contracts.AuthenticationError{
			Provider: models.ProviderPrintify,
			Reason:   err.Error(),
		}
	}
	if len(shops) == 0 {
		return &contracts.AuthenticationError{
			Provider: models.ProviderPrintify,
			Reason:   "probe returned no shops",
		}
	}
	if c.creds.ShopID == "" {
		// Default to the first shop when none was configured
		c.creds.ShopID = strconv.FormatInt(shops[0].ID, 10)
		return nil
	}
	for _, shop := range shops {
		if strconv.FormatInt(shop.ID, 10) == c.creds.ShopID {
			return nil
		}
	}
	return &contracts.AuthenticationError{
		Provider: models.ProviderPrintify,
		Reason:   fmt.Sprintf("shop %s not accessible with these credentials", c.creds.ShopID),
	}
}

// GetProducts returns one catalog page. The cursor encodes the next
// page number.
func (c *Client) GetProducts(ctx context.Context, page models.Pagination) (*models.ProductPage, error) {
	pageNum, err := paging.Page(page.Cursor)
	if err != nil {
		return nil, fmt.Errorf("printify: %w", err)
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(pageNum))
	query.Set("limit", strconv.Itoa(page.Limit()))

	var resp productListResponse
	if err := c.http.GetJSON(ctx, c.shopPath("/products.json"), query, &resp); err != nil {
		return nil, err
	}

	out := &models.ProductPage{TotalCount: resp.Total}
	for _, wp := range resp.Data {
		if wp.IsDeleted {
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

	out.NextCursor, out.HasMore = paging.NextPage(resp.CurrentPage, resp.LastPage)
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, product *models.Product) (string, error) {
	var resp wireProduct
	if err := c.http.PostJSON(ctx, c.shopPath("/products.json"), toWireProduct(product), &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) SyncInventory(ctx context.Context, productID string) (*models.InventoryData, error) {
	var resp wireProduct
	if err := c.http.GetJSON(ctx, c.shopPath("/products/"+productID+".json"), nil, &resp); err != nil {
		return nil, err
	}

	data := &models.InventoryData{ProductID: productID}
	for _, v := range resp.Variants {
		data.Variants = append(data.Variants, models.VariantStock{
			SKU:      v.SKU,
			Quantity: v.Quantity,
		})
	}
	return data, nil
}

func (c *Client) CreateOrder(ctx context.Context, order *models.Order) (string, error) {
	var resp wireOrder
	if err := c.http.PostJSON(ctx, c.shopPath("/orders.json"), toWireOrder(order), &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) GetOrder(ctx context.Context, externalID string) (*models.Order, error) {
	var resp wireOrder
	if err := c.http.GetJSON(ctx, c.shopPath("/orders/"+externalID+".json"), nil, &resp); err != nil {
		return nil, err
	}
	return mapOrder(resp), nil
}

// GetShippingRates quotes shipping. Printify returns a flat map of
// method name to price in cents.
func (c *Client) GetShippingRates(ctx context.Context, address models.Address, items []models.OrderItem) ([]models.ShippingRate, error) {
	payload := shippingRequest{
		AddressTo: toWireAddress(address),
		LineItems: toWireItems(items),
	}

	var resp map[string]int64
	if err := c.http.PostJSON(ctx, c.shopPath("/orders/shipping.json"), payload, &resp); err != nil {
		return nil, err
	}
	return mapShippingRates(resp), nil
}
