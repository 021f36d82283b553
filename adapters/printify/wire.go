package printify

// API response structures matching the Printify JSON format.
// List endpoints wrap items in "data" with top-level page fields.

type wireShop struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type productListResponse struct {
	CurrentPage int           `json:"current_page"`
	LastPage    int           `json:"last_page"`
	Total       int           `json:"total"`
	Data        []wireProduct `json:"data"`
}

type wireProduct struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	BlueprintID     int64         `json:"blueprint_id"`
	PrintProviderID int64         `json:"print_provider_id"`
	Visible         bool          `json:"visible"`
	IsDeleted       bool          `json:"is_deleted"`
	Images          []wireImage   `json:"images"`
	Variants        []wireVariant `json:"variants"`
}

type wireImage struct {
	Src string `json:"src"`
}

type wireVariant struct {
	ID          int64  `json:"id"`
	SKU         string `json:"sku"`
	Title       string `json:"title"`
	Price       int64  `json:"price"` // cents
	Quantity    int    `json:"quantity"`
	IsEnabled   bool   `json:"is_enabled"`
	IsAvailable bool   `json:"is_available"`
}

type createProductRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Variants    []createVariantRequest `json:"variants"`
}

type createVariantRequest struct {
	SKU   string `json:"sku"`
	Price int64  `json:"price"`
}

type orderRequest struct {
	ExternalID     string         `json:"external_id,omitempty"`
	LineItems      []wireLineItem `json:"line_items"`
	AddressTo      wireAddress    `json:"address_to"`
	ShippingMethod string         `json:"shipping_method,omitempty"`
}

type wireOrder struct {
	ID             string         `json:"id"`
	Status         string         `json:"status"`
	ShippingMethod string         `json:"shipping_method"`
	LineItems      []wireLineItem `json:"line_items"`
	AddressTo      wireAddress    `json:"address_to"`
}

type wireLineItem struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
}

type wireAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Region    string `json:"region"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

type shippingRequest struct {
	AddressTo wireAddress    `json:"address_to"`
	LineItems []wireLineItem `json:"line_items"`
}
