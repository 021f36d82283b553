package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProviderType identifies one of the supported print-on-demand vendors
type ProviderType string

const (
	ProviderPrintful ProviderType = "printful"
	ProviderPrintify ProviderType = "printify"
	ProviderGooten   ProviderType = "gooten"
	ProviderGelato   ProviderType = "gelato"
)

// KnownProviders lists every supported vendor identifier
func KnownProviders() []ProviderType {
	return []ProviderType{ProviderPrintful, ProviderPrintify, ProviderGooten, ProviderGelato}
}

// Credentials holds per-vendor secrets, supplied at adapter construction
// and never mutated afterwards
type Credentials struct {
	APIKey string
	// ShopID is the vendor account/shop identifier, required by Printify
	// (shop-scoped endpoints) and Gooten (recipe id), unused elsewhere
	ShopID string
}

// OrderStatus is the canonical status vocabulary every vendor status maps into
type OrderStatus string

const (
	StatusDraft      OrderStatus = "draft"
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusFulfilled  OrderStatus = "fulfilled"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusFailed     OrderStatus = "failed"
)

// Terminal reports whether an order in this status will not transition again
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusFailed
}

// Product is the vendor-neutral product representation.
// ExternalID + Provider uniquely identify a remote item across syncs.
type Product struct {
	ID          string
	ExternalID  string
	Provider    ProviderType
	Title       string
	Description string
	Variants    []Variant
	Images      []string
	Metadata    map[string]string
}

// Variant is one purchasable variation of a product
type Variant struct {
	ID       string
	SKU      string
	Title    string
	Price    decimal.Decimal
	Quantity int
	Metadata map[string]string
}

// Order is a canonical order, immutable once accepted by the vendor
// except for status transitions
type Order struct {
	ExternalID      string
	Provider        ProviderType
	Items           []OrderItem
	ShippingAddress Address
	ShippingMethod  string
	Status          OrderStatus
}

// OrderItem references a product variant with a positive quantity
type OrderItem struct {
	ProductID  string
	VariantSKU string
	Quantity   int
}

// Address carries recipient fields; vendors apply their own validation remotely
type Address struct {
	Name     string
	Address1 string
	Address2 string
	City     string
	State    string
	Country  string
	Zip      string
	Phone    string
	Email    string
}

// ShippingRate is one shipping option quoted by a vendor
type ShippingRate struct {
	ID            string
	Name          string
	Price         decimal.Decimal
	Currency      string
	EstimatedDays int
}

// Pagination carries an opaque cursor and page-size hint into GetProducts.
// A zero Cursor means the first page.
type Pagination struct {
	Cursor   string
	PageSize int
}

// DefaultPageSize is applied when Pagination.PageSize is zero
const DefaultPageSize = 20

// Limit returns the effective page size
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	return p.PageSize
}

// ProductPage is one page of a vendor catalog walk. Items carries the
// successfully mapped products; Removed lists external ids the vendor
// marks archived/discontinued (never mapped); Failed records items whose
// mapping failed, so a bad item never hides the rest of its page.
// TotalCount is -1 when the vendor does not report a total.
type ProductPage struct {
	Items      []Product
	Removed    []string
	Failed     []SyncError
	TotalCount int
	HasMore    bool
	NextCursor string
}

// VariantStock is the per-SKU stock level returned by SyncInventory
type VariantStock struct {
	SKU      string
	Quantity int
}

// InventoryData is the result of an inventory fetch for one product
type InventoryData struct {
	ProductID string
	Variants  []VariantStock
}

// SyncError records a single item that failed mapping during reconciliation
type SyncError struct {
	ProductID string
	Message   string
}

// SyncResult is the outcome of one full-catalog reconciliation pass.
// Every processed item lands in exactly one of Added, Updated, Removed
// or Errors. Built fresh per sync invocation.
type SyncResult struct {
	Provider       ProviderType
	Added          []Product
	Updated        []Product
	Removed        []string
	Errors         []SyncError
	TotalProcessed int
	LastSyncedAt   time.Time
}
