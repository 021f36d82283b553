package printful

// API response structures matching the Printful JSON format.
// Every response nests its payload under "result".

type storeResponse struct {
	Code   int `json:"code"`
	Result struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"result"`
}

type productListResponse struct {
	Code   int           `json:"code"`
	Result []wireProduct `json:"result"`
	Paging struct {
		Total  int `json:"total"`
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	} `json:"paging"`
}

type productDetailResponse struct {
	Code   int         `json:"code"`
	Result wireProduct `json:"result"`
}

type wireProduct struct {
	ID           int64         `json:"id"`
	ExternalID   string        `json:"external_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	ThumbnailURL string        `json:"thumbnail_url"`
	Synced       int           `json:"synced"`
	IsIgnored    bool          `json:"is_ignored"`
	SyncVariants []wireVariant `json:"sync_variants"`
}

type wireVariant struct {
	ID                 int64  `json:"id"`
	SKU                string `json:"sku"`
	Name               string `json:"name"`
	RetailPrice        string `json:"retail_price"`
	Currency           string `json:"currency"`
	Quantity           int    `json:"quantity"`
	AvailabilityStatus string `json:"availability_status"`
}

type createProductRequest struct {
	SyncProduct  wireSyncProduct   `json:"sync_product"`
	SyncVariants []wireSyncVariant `json:"sync_variants"`
}

type wireSyncProduct struct {
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type wireSyncVariant struct {
	SKU         string `json:"sku"`
	RetailPrice string `json:"retail_price"`
}

type createProductResponse struct {
	Code   int `json:"code"`
	Result struct {
		ID int64 `json:"id"`
	} `json:"result"`
}

type orderRequest struct {
	ExternalID string          `json:"external_id,omitempty"`
	Recipient  wireAddress     `json:"recipient"`
	Items      []wireOrderItem `json:"items"`
	Shipping   string          `json:"shipping,omitempty"`
}

type orderResponse struct {
	Code   int       `json:"code"`
	Result wireOrder `json:"result"`
}

type wireOrder struct {
	ID        int64           `json:"id"`
	Status    string          `json:"status"`
	Shipping  string          `json:"shipping"`
	Recipient wireAddress     `json:"recipient"`
	Items     []wireOrderItem `json:"items"`
}

type wireOrderItem struct {
	ExternalProductID string `json:"external_product_id,omitempty"`
	SKU               string `json:"sku"`
	Quantity          int    `json:"quantity"`
}

type wireAddress struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"state_code"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

type shippingRequest struct {
	Recipient wireAddress     `json:"recipient"`
	Items     []wireOrderItem `json:"items"`
}

type shippingResponse struct {
	Code   int                `json:"code"`
	Result []wireShippingRate `json:"result"`
}

type wireShippingRate struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Rate            string `json:"rate"`
	Currency        string `json:"currency"`
	MinDeliveryDays int    `json:"minDeliveryDays"`
	MaxDeliveryDays int    `json:"maxDeliveryDays"`
}
