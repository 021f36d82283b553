package gooten

// API structures matching the Gooten JSON format. The product listing
// is a bare array; most payloads carry a HadError flag.

type accountResponse struct {
	ID       string `json:"Id"`
	Name     string `json:"Name"`
	HadError bool   `json:"HadError"`
}

type wireProduct struct {
	ID           int64         `json:"Id"`
	Name         string        `json:"Name"`
	Description  string        `json:"Description"`
	IsArchived   bool          `json:"IsArchived"`
	IsComingSoon bool          `json:"IsComingSoon"`
	Images       []wireImage   `json:"Images"`
	Variants     []wireVariant `json:"Variants"`
}

type wireImage struct {
	URL string `json:"Url"`
}

type wireVariant struct {
	SKU            string  `json:"Sku"`
	Name           string  `json:"Name"`
	PriceUSD       float64 `json:"PriceUSD"`
	Quantity       int     `json:"Quantity"`
	IsAvailable    *bool   `json:"IsAvailable"`
	MaxImageWidth  int     `json:"MaxImageWidth"`
	MaxImageHeight int     `json:"MaxImageHeight"`
}

type createProductRequest struct {
	Name        string        `json:"Name"`
	Description string        `json:"Description,omitempty"`
	Variants    []wireVariant `json:"Variants"`
}

type createResponse struct {
	ID       int64 `json:"Id"`
	HadError bool  `json:"HadError"`
}

type orderRequest struct {
	SourceID      string          `json:"SourceId,omitempty"`
	ShipToAddress wireAddress     `json:"ShipToAddress"`
	Items         []wireOrderItem `json:"Items"`
	ShipMethod    string          `json:"ShipMethod,omitempty"`
}

type wireOrder struct {
	ID            int64           `json:"Id"`
	Status        string          `json:"Status"`
	ShipMethod    string          `json:"ShipMethod"`
	ShipToAddress wireAddress     `json:"ShipToAddress"`
	Items         []wireOrderItem `json:"Items"`
}

type wireOrderItem struct {
	ProductID string `json:"ProductId"`
	SKU       string `json:"Sku"`
	Quantity  int    `json:"Quantity"`
}

type wireAddress struct {
	Name        string `json:"Name"`
	Line1       string `json:"Line1"`
	Line2       string `json:"Line2,omitempty"`
	City        string `json:"City"`
	State       string `json:"State"`
	CountryCode string `json:"CountryCode"`
	PostalCode  string `json:"PostalCode"`
	Phone       string `json:"Phone,omitempty"`
	Email       string `json:"Email,omitempty"`
}

type shippingRequest struct {
	ShipToAddress wireAddress     `json:"ShipToAddress"`
	Items         []wireOrderItem `json:"Items"`
}

type shippingResponse struct {
	Options  []wireShippingOption `json:"Options"`
	HadError bool                 `json:"HadError"`
}

type wireShippingOption struct {
	ID            int64   `json:"Id"`
	Name          string  `json:"Name"`
	Price         float64 `json:"Price"`
	Currency      string  `json:"Currency"`
	EstimatedDays int     `json:"EstimatedDays"`
}
