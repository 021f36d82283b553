package printify

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

// Printify reports prices as integer cents
func centsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

var statusTable = map[string]models.OrderStatus{
	"draft":                 models.StatusDraft,
	"pending":               models.StatusPending,
	"payment-not-received":  models.StatusPending,
	"on-hold":               models.StatusPending,
	"sending-to-production": models.StatusProcessing,
	"in-production":         models.StatusProcessing,
	"fulfilled":             models.StatusFulfilled,
	"shipped":               models.StatusShipped,
	"delivered":             models.StatusDelivered,
	"canceled":              models.StatusCancelled,
	"has-issues":            models.StatusFailed,
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
		Provider:    models.ProviderPrintify,
		Title:       wp.Title,
		Description: wp.Description,
		Metadata: map[string]string{
			"visible": strconv.FormatBool(wp.Visible),
		},
	}
	if wp.BlueprintID != 0 {
		product.Metadata["blueprint_id"] = strconv.FormatInt(wp.BlueprintID, 10)
	}
	if wp.PrintProviderID != 0 {
		product.Metadata["print_provider_id"] = strconv.FormatInt(wp.PrintProviderID, 10)
	}
	for _, img := range wp.Images {
		product.Images = append(product.Images, img.Src)
	}

	for _, wv := range wp.Variants {
		if wv.Price < 0 {
			return nil, &contracts.MappingError{
				Provider: models.ProviderPrintify,
				ItemID:   wp.ID,
				Reason:   "negative price " + strconv.FormatInt(wv.Price, 10),
			}
		}
		quantity := wv.Quantity
		if quantity < 0 {
			quantity = 0
		}
		product.Variants = append(product.Variants, models.Variant{
			ID:       strconv.FormatInt(wv.ID, 10),
			SKU:      wv.SKU,
			Title:    wv.Title,
			Price:    centsToDecimal(wv.Price),
			Quantity: quantity,
			Metadata: map[string]string{
				"is_enabled":   strconv.FormatBool(wv.IsEnabled),
				"is_available": strconv.FormatBool(wv.IsAvailable),
			},
		})
	}

	return product, nil
}

func toWireProduct(p *models.Product) createProductRequest {
	req := createProductRequest{
		Title:       p.Title,
		Description: p.Description,
	}
	for _, v := range p.Variants {
		req.Variants = append(req.Variants, createVariantRequest{
			SKU:   v.SKU,
			Price: v.Price.Shift(2).IntPart(),
		})
	}
	return req
}

// splitName breaks a single recipient name into the first/last pair
// Printify requires. Everything after the first word lands in the last
// name; a single-word name leaves the last name empty.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func toWireAddress(a models.Address) wireAddress {
	first, last := splitName(a.Name)
	return wireAddress{
		FirstName: first,
		LastName:  last,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Region:    a.State,
		Country:   a.Country,
		Zip:       a.Zip,
		Phone:     a.Phone,
		Email:     a.Email,
	}
}

func mapAddress(w wireAddress) models.Address {
	name := strings.TrimSpace(w.FirstName + " " + w.LastName)
	return models.Address{
		Name:     name,
		Address1: w.Address1,
		Address2: w.Address2,
		City:     w.City,
		State:    w.Region,
		Country:  w.Country,
		Zip:      w.Zip,
		Phone:    w.Phone,
		Email:    w.Email,
	}
}

func toWireItems(items []models.OrderItem) []wireLineItem {
	out := make([]wireLineItem, 0, len(items))
	for _, item := range items {
		out = append(out, wireLineItem{
			ProductID: item.ProductID,
			SKU:       item.VariantSKU,
			Quantity:  item.Quantity,
		})
	}
	return out
}

func toWireOrder(o *models.Order) orderRequest {
	return orderRequest{
		ExternalID:     o.ExternalID,
		LineItems:      toWireItems(o.Items),
		AddressTo:      toWireAddress(o.ShippingAddress),
		ShippingMethod: o.ShippingMethod,
	}
}

func mapOrder(w wireOrder) *models.Order {
	order := &models.Order{
		ExternalID:      w.ID,
		Provider:        models.ProviderPrintify,
		ShippingAddress: mapAddress(w.AddressTo),
		ShippingMethod:  w.ShippingMethod,
		Status:          mapStatus(w.Status),
	}
	for _, item := range w.LineItems {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  item.ProductID,
			VariantSKU: item.SKU,
			Quantity:   item.Quantity,
		})
	}
	return order
}

// mapShippingRates converts the method-name-to-cents map into canonical
// rates, sorted by method name for a stable order
func mapShippingRates(resp map[string]int64) []models.ShippingRate {
	methods := make([]string, 0, len(resp))
	for method := range resp {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	rates := make([]models.ShippingRate, 0, len(methods))
	for _, method := range methods {
		rates = append(rates, models.ShippingRate{
			ID:            method,
			Name:          method,
			Price:         centsToDecimal(resp[method]),
			Currency:      "USD",
			EstimatedDays: estimatedDays(method),
		})
	}
	return rates
}

func estimatedDays(method string) int {
	switch method {
	case "express":
		return 3
	case "standard":
		return 7
	default:
		return 0
	}
}
