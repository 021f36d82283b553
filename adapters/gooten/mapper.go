package gooten

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

var statusTable = map[string]models.OrderStatus{
	"new":          models.StatusPending,
	"pending":      models.StatusPending,
	"hold":         models.StatusPending,
	"accepted":     models.StatusProcessing,
	"inproduction": models.StatusProcessing,
	"printed":      models.StatusFulfilled,
	"shipped":      models.StatusShipped,
	"delivered":    models.StatusDelivered,
	"cancelled":    models.StatusCancelled,
	"billedrefused": models.StatusFailed,
	"outofstock":    models.StatusFailed,
}

func mapStatus(vendorStatus string) models.OrderStatus {
	if status, ok := statusTable[strings.ToLower(vendorStatus)]; ok {
		return status
	}
	return models.StatusPending
}

func mapProduct(wp wireProduct) (*models.Product, error) {
	externalID := strconv.FormatInt(wp.ID, 10)

	product := &models.Product{
		ID:          externalID,
		ExternalID:  externalID,
		Provider:    models.ProviderGooten,
		Title:       wp.Name,
		Description: wp.Description,
		Metadata:    map[string]string{},
	}
	for _, img := range wp.Images {
		product.Images = append(product.Images, img.URL)
	}

	for _, wv := range wp.Variants {
		if wv.PriceUSD < 0 {
			return nil, &contracts.MappingError{
				Provider: models.ProviderGooten,
				ItemID:   externalID,
				Reason:   "negative price",
			}
		}
		quantity := wv.Quantity
		if quantity < 0 {
			quantity = 0
		}
		metadata := map[string]string{}
		// Availability defaults to true unless the vendor says otherwise
		available := true
		if wv.IsAvailable != nil {
			available = *wv.IsAvailable
		}
		metadata["available"] = strconv.FormatBool(available)
		if wv.MaxImageWidth > 0 || wv.MaxImageHeight > 0 {
			metadata["max_image_width"] = strconv.Itoa(wv.MaxImageWidth)
			metadata["max_image_height"] = strconv.Itoa(wv.MaxImageHeight)
		}

		product.Variants = append(product.Variants, models.Variant{
			ID:       wv.SKU,
			SKU:      wv.SKU,
			Title:    wv.Name,
			Price:    decimal.NewFromFloat(wv.PriceUSD),
			Quantity: quantity,
			Metadata: metadata,
		})
	}

	return product, nil
}

func toWireProduct(p *models.Product) createProductRequest {
	req := createProductRequest{
		Name:        p.Title,
		Description: p.Description,
	}
	for _, v := range p.Variants {
		price, _ := v.Price.Float64()
		req.Variants = append(req.Variants, wireVariant{
			SKU:      v.SKU,
			Name:     v.Title,
			PriceUSD: price,
		})
	}
	return req
}

func toWireAddress(a models.Address) wireAddress {
	return wireAddress{
		Name:        a.Name,
		Line1:       a.Address1,
		Line2:       a.Address2,
		City:        a.City,
		State:       a.State,
		CountryCode: a.Country,
		PostalCode:  a.Zip,
		Phone:       a.Phone,
		Email:       a.Email,
	}
}

func mapAddress(w wireAddress) models.Address {
	return models.Address{
		Name:     w.Name,
		Address1: w.Line1,
		Address2: w.Line2,
		City:     w.City,
		State:    w.State,
		Country:  w.CountryCode,
		Zip:      w.PostalCode,
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
		SourceID:      o.ExternalID,
		ShipToAddress: toWireAddress(o.ShippingAddress),
		Items:         toWireItems(o.Items),
		ShipMethod:    o.ShippingMethod,
	}
}

func mapOrder(w wireOrder) *models.Order {
	order := &models.Order{
		ExternalID:      strconv.FormatInt(w.ID, 10),
		Provider:        models.ProviderGooten,
		ShippingAddress: mapAddress(w.ShipToAddress),
		ShippingMethod:  w.ShipMethod,
		Status:          mapStatus(w.Status),
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

func mapShippingOption(w wireShippingOption) models.ShippingRate {
	days := w.EstimatedDays
	if days < 0 {
		days = 0
	}
	return models.ShippingRate{
		ID:            strconv.FormatInt(w.ID, 10),
		Name:          w.Name,
		Price:         decimal.NewFromFloat(w.Price),
		Currency:      w.Currency,
		EstimatedDays: days,
	}
}
