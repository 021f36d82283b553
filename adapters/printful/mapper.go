package printful

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

// statusTable maps every known Printful order status to the canonical
// vocabulary. Strings absent from the table fall back to pending.
var statusTable = map[string]models.OrderStatus{
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

func mapStatus(vendorStatus string) models.OrderStatus {
	if status, ok := statusTable[strings.ToLower(vendorStatus)]; ok {
		return status
	}
	return models.StatusPending
}

// mapProduct converts a Printful sync product to the canonical model.
// Missing prices default to 0; vendor extras land in Metadata.
func mapProduct(wp wireProduct) (*models.Product, error) {
	externalID := strconv.FormatInt(wp.ID, 10)

	product := &models.Product{
		ID:          externalID,
		ExternalID:  externalID,
		Provider:    models.ProviderPrintful,
		Title:       wp.Name,
		Description: wp.Description,
		Metadata:    map[string]string{},
	}
	if wp.ExternalID != "" {
		product.Metadata["printful_external_id"] = wp.ExternalID
	}
	if wp.ThumbnailURL != "" {
		product.Images = append(product.Images, wp.ThumbnailURL)
	}

	for _, wv := range wp.SyncVariants {
		variant, err := mapVariant(externalID, wv)
		if err != nil {
			return nil, err
		}
		product.Variants = append(product.Variants, variant)
	}

	return product, nil
}

func mapVariant(productID string, wv wireVariant) (models.Variant, error) {
	price := decimal.Zero
	if wv.RetailPrice != "" {
		parsed, err := decimal.NewFromString(wv.RetailPrice)
		if err != nil {
			return models.Variant{}, &contracts.MappingError{
				Provider: models.ProviderPrintful,
				ItemID:   productID,
				Reason:   "malformed retail_price " + strconv.Quote(wv.RetailPrice),
				Err:      err,
			}
		}
		price = parsed
	}
	if price.IsNegative() {
		return models.Variant{}, &contracts.MappingError{
			Provider: models.ProviderPrintful,
			ItemID:   productID,
			Reason:   "negative retail_price " + wv.RetailPrice,
		}
	}

	quantity := wv.Quantity
	if quantity < 0 {
		quantity = 0
	}

	metadata := map[string]string{}
	if wv.Currency != "" {
		metadata["currency"] = wv.Currency
	}
	// Availability defaults to true when the vendor omits the field
	available := true
	if wv.AvailabilityStatus != "" {
		available = wv.AvailabilityStatus == "active"
		metadata["availability_status"] = wv.AvailabilityStatus
	}
	metadata["available"] = strconv.FormatBool(available)

	return models.Variant{
		ID:       strconv.FormatInt(wv.ID, 10),
		SKU:      wv.SKU,
		Title:    wv.Name,
		Price:    price,
		Quantity: quantity,
		Metadata: metadata,
	}, nil
}

// toWireProduct maps a canonical product to the Printful create schema
func toWireProduct(p *models.Product) createProductRequest {
	req := createProductRequest{
		SyncProduct: wireSyncProduct{Name: p.Title},
	}
	if len(p.Images) > 0 {
		req.SyncProduct.Thumbnail = p.Images[0]
	}
	for _, v := range p.Variants {
		req.SyncVariants = append(req.SyncVariants, wireSyncVariant{
			SKU:         v.SKU,
			RetailPrice: v.Price.StringFixed(2),
		})
	}
	return req
}

func toWireOrder(o *models.Order) orderRequest {
	return orderRequest{
		ExternalID: o.ExternalID,
		Recipient:  toWireAddress(o.ShippingAddress),
		Items:      toWireItems(o.Items),
		Shipping:   o.ShippingMethod,
	}
}

func toWireItems(items []models.OrderItem) []wireOrderItem {
	out := make([]wireOrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, wireOrderItem{
			ExternalProductID: item.ProductID,
			SKU:               item.VariantSKU,
			Quantity:          item.Quantity,
		})
	}
	return out
}

// toWireAddress is a straight field rename; Printful takes the
// recipient name as a single field
func toWireAddress(a models.Address) wireAddress {
	return wireAddress{
		Name:        a.Name,
		Address1:    a.Address1,
		Address2:    a.Address2,
		City:        a.City,
		StateCode:   a.State,
		CountryCode: a.Country,
		Zip:         a.Zip,
		Phone:       a.Phone,
		Email:       a.Email,
	}
}

func mapAddress(w wireAddress) models.Address {
	return models.Address{
		Name:     w.Name,
		Address1: w.Address1,
		Address2: w.Address2,
		City:     w.City,
		State:    w.StateCode,
		Country:  w.CountryCode,
		Zip:      w.Zip,
		Phone:    w.Phone,
		Email:    w.Email,
	}
}

func mapOrder(w wireOrder) *models.Order {
	order := &models.Order{
		ExternalID:      strconv.FormatInt(w.ID, 10),
		Provider:        models.ProviderPrintful,
		ShippingAddress: mapAddress(w.Recipient),
		ShippingMethod:  w.Shipping,
		Status:          mapStatus(w.Status),
	}
	for _, item := range w.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  item.ExternalProductID,
			VariantSKU: item.SKU,
			Quantity:   item.Quantity,
		})
	}
	return order
}

func mapShippingRate(w wireShippingRate) (models.ShippingRate, error) {
	price, err := decimal.NewFromString(w.Rate)
	if err != nil {
		return models.ShippingRate{}, &contracts.MappingError{
			Provider: models.ProviderPrintful,
			ItemID:   w.ID,
			Reason:   "malformed shipping rate " + strconv.Quote(w.Rate),
			Err:      err,
		}
	}
	days := w.MaxDeliveryDays
	if days < 0 {
		days = 0
	}
	return models.ShippingRate{
		ID:            w.ID,
		Name:          w.Name,
		Price:         price,
		Currency:      w.Currency,
		EstimatedDays: days,
	}, nil
}
