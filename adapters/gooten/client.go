// Package gooten implements the ProviderAdapter contract against the
// Gooten REST API. Authentication is a recipe id query parameter; the
// product listing is a bare JSON array with no reported total, so
// hasMore is inferred from a full page.
package gooten

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
	defaultBaseURL = "https://api.print.io/api/v/5/source/api"
	minDelay       = 750 * time.Millisecond
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
	recipeID := creds.ShopID
	if recipeID == "" {
		recipeID = creds.APIKey
	}
	cfg := transport.Config{
		Provider:  models.ProviderGooten,
		BaseURL:   defaultBaseURL,
		MinDelay:  minDelay,
		Authorize: transport.QueryAuth("recipeid", recipeID),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{creds: creds, http: transport.NewClient(cfg)}
}

func (c *Client) Provider() models.ProviderType { return models.ProviderGooten }

func (c *Client) Initialize(ctx context.Context) error {
	var resp accountResponse
	if err := c.http.GetJSON(ctx, "/account", nil, &resp); err != nil {
		return &contracts.AuthenticationError{Provider: models.ProviderGooten, Reason: err.Error()}
	}
	if resp.HadError || resp.ID == "" {
		return &contracts.AuthenticationError{
			Provider: models.ProviderGooten,
			Reason:   "probe returned no account payload",
		}
	}
	return nil
}

func (c *Client) GetProducts(ctx context.Context, page models.Pagination) (*models.ProductPage, error) {
	pageNum, err := paging.Page(page.Cursor)
	if err != nil {
		return nil, fmt.Errorf("gooten: %w", err)
	}
	limit := page.Limit()

	query := url.Values{}
	query.Set("page", strconv.Itoa(pageNum))
	query.Set("pagesize", strconv.Itoa(limit))

	var items []wireProduct
	if err := c.http.GetJSON(ctx, "/products", query, &items); err != nil {
		return nil, err
	}

	// No total in the response; a full page means there may be more
	out := &models.ProductPage{TotalCount: -1}
	for _, wp := range items {
		if wp.IsArchived || wp.IsComingSoon {
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

	if len(items) == limit {
		out.NextCursor, out.HasMore = paging.NextPage(pageNum, pageNum+1)
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, product *models.Product) (string, error) {
	var resp createResponse
	if err := c.http.PostJSON(ctx, "/products", toWireProduct(product), &resp); err != nil {
		return "", err
	}
	return strconv.FormatInt(resp.ID, 10), nil
}

func (c *Client) SyncInventory(ctx context.Context, productID string) (*models.InventoryData, error) {
	var resp wireProduct
	if err := c.http.GetJSON(ctx, "/products/"+productID, nil, &resp); err != nil {
		return nil, err
	}

	data := &models.InventoryData{ProductID: productID}
	for _, v := range resp.Variants {
		data.Variants = append(data.Variants, models.VariantStock{SKU: v.SKU, Quantity: v.Quantity})
	}
	return data, nil
}

func (c *Client) CreateOrder(ctx context.Context, order *models.Order) (string, error) {
	var resp createResponse
	if err := c.http.PostJSON(ctx, "/orders", toWireOrder(order), &resp); err != nil {
		return "", err
	}
	return strconv.FormatInt(resp.ID, 10), nil
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
		ShipToAddress: toWireAddress(address),
		Items:         toWireItems(items),
	}

	var resp shippingResponse
	if err := c.http.PostJSON(ctx, "/shippingoptions", payload, &resp); err != nil {
		return nil, err
	}

	rates := make([]models.ShippingRate, 0, len(resp.Options))
	for _, opt := range resp.Options {
		rates = append(rates, mapShippingOption(opt))
	}
	return rates, nil
}
