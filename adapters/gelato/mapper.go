package gelato

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

var statusTable = map[string]models.OrderStatus{
	"draft":         models.StatusDraft,
	"created":       models.StatusPending,
	"uploading":     models.StatusPending,
	"on_hold":       models.StatusPending,
	"passed":        models.StatusProcessing,
	"in_production": models.StatusProcessing,
	"printed":       models.StatusFulfilled,
	"shipped":       models.StatusShipped,
	"in_transit":    models.StatusShipped,
	"delivered":     models.StatusDelivered,
	"canceled":      models.StatusCancelled,
	"failed":        models.StatusFailed,
	"returned":      models.StatusFailed,
}

func mapStatus(vendorStatus string) models.OrderStatus {
	if status, ok := statusTable[strings.ToLower(vendorStatus)]; ok {
		return status
	}
	return models.StatusPending
}

func mapProduct(wp wireProduct) (*models.Product, error) {
	product := &models.Product{
		ID:          wp.ID,
		ExternalID:  wp.ID,
		Provider:    models.ProviderGelato,
		Title:       wp.Title,
		Description: wp.Description,
		Metadata:    map[string]string{},
	}
	if wp.Status != "" {
		product.Metadata["gelato_status"] = wp.Status
	}
	if wp.PreviewURL != "" {
		product.Images = append(product.Images, wp.PreviewURL)
	}

	for _, wv := range wp.Variants {
		price := decimal.Zero
		if wv.Price.Amount != "" {
			parsed, err := decimal.NewFromString(wv.Price.Amount)
			if err != nil {
				return nil, &contracts.MappingError{
					Provider: models.ProviderGelato,
					ItemID:   wp.ID,
					Reason:   "malformed price amount " + strconv.Quote(wv.Price.Amount),
					Err:      err,
				}
			}
			price = parsed
		}
		if price.IsNegative() {
			return nil, &contracts.MappingError{
				Provider: models.ProviderGelato,
				ItemID:   wp.ID,
				Reason:   "negative price " + wv.Price.Amount,
			}
		}

		quantity := wv.Stock.Quantity
		if quantity < 0 {
			quantity = 0
		}
		metadata := map[string]string{}
		if wv.Price.Currency != "" {
			metadata["currency"] = wv.Price.Currency
		}
		available := true
		if wv.Stock.Available != nil {
			available = *wv.Stock.Available
		}
		metadata["available"] = strconv.FormatBool(available)
		// Unknown dimensions default to 0
		metadata["width_mm"] = strconv.Itoa(wv.Dimensions.WidthMM)
		metadata["height_mm"] = strconv.Itoa(wv.Dimensions.HeightMM)

		product.Variants = append(product.Variants, models.Variant{
			ID:       wv.ID,
			SKU:      wv.SKU,
			Title:    wv.Title,
			Price:    price,
			Quantity: quantity,
			Metadata: metadata,
		})
	}

	return product, nil
}

func toWireProduct(p *models.Product) createProductRequest {
	req := createProductRequest{
		Title:       p.Title,
		Description: p.Description,
	}
	if len(p.Images) > 0 {
		req.PreviewURL = p.Images[0]
	}
	for _, v := range p.Variants {
		req.Variants = append(req.Variants, createVariantRequest{
			SKU: v.SKU,
			Price: wirePrice{
				Amount:   v.Price.StringFixed(2),
				Currency: v.Metadata["currency"],
			},
		})
	}
	return req
}

func toWireAddress(a models.Address) wireAddress {
	return wireAddress{
		Name:         a.Name,
		AddressLine1: a.Address1,
		AddressLine2: a.Address2,
		City:         a.City,
		State:        a.State,
		Country:      a.Country,
		PostCode:     a.Zip,
		Phone:        a.Phone,
		Email:        a.Email,
	}
}

func mapAddress(w wireAddress) models.Address {
	return models.Address{
		Name:     w.Name,
		Address1: w.AddressLine1,
		Address2: w.AddressLine2,
		City:     w.City,
		State:    w.State,
		Country:  w.Country,
		Zip:      w.PostCode,
		Phone:    w.Phone,
		Email:    w.Email,
	}
}

func toWireItems(items []models.OrderItem) []wireOrderItem {
	out := make([]wireOrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, wireOrderItem{
			ProductID: item.ProductID,
			SKU:       item.VariantSKU,
			Quantity:  item.Quantity,
		})
	}
	return out
}

func toWireOrder(o *models.Order) orderRequest {
	return orderRequest{
		OrderReferenceID: o.ExternalID,
		Items:            toWireItems(o.Items),
		ShippingAddress:  toWireAddress(o.ShippingAddress),
		ShipmentMethod:   o.ShippingMethod,
	}
}

func mapOrder(w wireOrder) *models.Order {
	order := &models.Order{
		ExternalID:      w.ID,
		Provider:        models.ProviderGelato,
		ShippingAddress: mapAddress(w.ShippingAddress),
		ShippingMethod:  w.ShipmentMethod,
		Status:          mapStatus(w.FulfillmentStatus),
	}
	for _, item := range w.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  item.ProductID,
			VariantSKU: item.SKU,
			Quantity:   item.Quantity,
		})
	}
	return order
}

func mapShipmentMethod(w wireShipmentMethod) (models.ShippingRate, error) {
	price, err := decimal.NewFromString(w.Price.Amount)
	if err != nil {
		return models.ShippingRate{}, &contracts.MappingError{
			Provider: models.ProviderGelato,
			ItemID:   w.UID,
			Reason:   "malformed shipment price " + strconv.Quote(w.Price.Amount),
			Err:      err,
		}
	}
	days := w.EstimatedDeliveryDays
	if days < 0 {
		days = 0
	}
	return models.ShippingRate{
		ID:            w.UID,
		Name:          w.Name,
		Price:         price,
		Currency:      w.Price.Currency,
		EstimatedDays: days,
	}, nil
}
