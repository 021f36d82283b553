package gelato

// API structures matching the Gelato JSON format. List payloads nest
// items under "items" and paging metadata under "pagination".

type accountResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type productListResponse struct {
	Items      []wireProduct `json:"items"`
	Pagination struct {
		Total         int    `json:"total"`
		NextPageToken string `json:"nextPageToken"`
	} `json:"pagination"`
}

type wireProduct struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	PreviewURL  string        `json:"previewUrl"`
	Status      string        `json:"status"`
	Variants    []wireVariant `json:"variants"`
}

type wireVariant struct {
	ID         string    `json:"id"`
	SKU        string    `json:"sku"`
	Title      string    `json:"title"`
	Price      wirePrice `json:"price"`
	Stock      wireStock `json:"stock"`
	Dimensions struct {
		WidthMM  int `json:"widthMm"`
		HeightMM int `json:"heightMm"`
	} `json:"dimensions"`
}

type wirePrice struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type wireStock struct {
	Available *bool `json:"available"`
	Quantity  int   `json:"quantity"`
}

type createProductRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	PreviewURL  string                 `json:"previewUrl,omitempty"`
	Variants    []createVariantRequest `json:"variants"`
}

type createVariantRequest struct {
	SKU   string    `json:"sku"`
	Price wirePrice `json:"price"`
}

type orderRequest struct {
	OrderReferenceID string          `json:"orderReferenceId,omitempty"`
	Items            []wireOrderItem `json:"items"`
	ShippingAddress  wireAddress     `json:"shippingAddress"`
	ShipmentMethod   string          `json:"shipmentMethodUid,omitempty"`
}

type wireOrder struct {
	ID                string          `json:"id"`
	FulfillmentStatus string          `json:"fulfillmentStatus"`
	ShipmentMethod    string          `json:"shipmentMethodUid"`
	Items             []wireOrderItem `json:"items"`
	ShippingAddress   wireAddress     `json:"shippingAddress"`
}

type wireOrderItem struct {
	ProductID string `json:"productUid"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
}

type wireAddress struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	PostCode     string `json:"postCode"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

type shippingRequest struct {
	ShippingAddress wireAddress     `json:"shippingAddress"`
	Items           []wireOrderItem `json:"items"`
}

type shippingResponse struct {
	ShipmentMethods []wireShipmentMethod `json:"shipmentMethods"`
}

type wireShipmentMethod struct {
	UID                   string    `json:"shipmentMethodUid"`
	Name                  string    `json:"name"`
	Price                 wirePrice `json:"price"`
	EstimatedDeliveryDays int       `json:"estimatedDeliveryDays"`
}
