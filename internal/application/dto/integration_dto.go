package dto

// IntegrationQuery rango y formato para las proyecciones de integraciones.
type IntegrationQuery struct {
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Format    string `query:"format" validate:"omitempty,oneof=json xml"`
}

// QBRef referencia por valor/nombre de QuickBooks Online.
type QBRef struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

// QBSalesItemLineDetail detalle de línea de SalesReceipt.
type QBSalesItemLineDetail struct {
	ItemRef   QBRef   `json:"ItemRef"`
	UnitPrice float64 `json:"UnitPrice"`
	Qty       int     `json:"Qty"`
	TaxCode   QBRef   `json:"TaxCodeRef"`
}

// QBLine línea de SalesReceipt.
type QBLine struct {
	LineNum             int                   `json:"LineNum"`
	Description         string                `json:"Description,omitempty"`
	Amount              float64               `json:"Amount"`
	DetailType          string                `json:"DetailType"`
	SalesItemLineDetail QBSalesItemLineDetail `json:"SalesItemLineDetail"`
}

// QBSalesReceipt forma de SalesReceipt de QuickBooks Online.
type QBSalesReceipt struct {
	DocNumber   string   `json:"DocNumber"`
	TxnDate     string   `json:"TxnDate"`
	CustomerRef *QBRef   `json:"CustomerRef,omitempty"`
	Line        []QBLine `json:"Line"`
	TotalAmt    float64  `json:"TotalAmt"`
	TxnTaxTotal float64  `json:"TxnTaxDetail_TotalTax"`
	PrivateNote string   `json:"PrivateNote,omitempty"`
}

// WooProduct forma de producto de la API REST de WooCommerce.
type WooProduct struct {
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	Description   string  `json:"description"`
	RegularPrice  string  `json:"regular_price"`
	ManageStock   bool    `json:"manage_stock"`
	StockQuantity int     `json:"stock_quantity"`
	StockStatus   string  `json:"stock_status"`
	Categories    []WooID `json:"categories,omitempty"`
}

// WooID referencia por nombre (la tienda resuelve el id).
type WooID struct {
	Name string `json:"name"`
}

// ShopifyVariant variante de producto Shopify.
type ShopifyVariant struct {
	SKU               string `json:"sku"`
	Barcode           string `json:"barcode,omitempty"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
	InventoryPolicy   string `json:"inventory_policy"`
	Taxable           bool   `json:"taxable"`
}

// ShopifyProduct producto Shopify con una variante por ítem.
type ShopifyProduct struct {
	Title       string           `json:"title"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor,omitempty"`
	ProductType string           `json:"product_type,omitempty"`
	Status      string           `json:"status"`
	Variants    []ShopifyVariant `json:"variants"`
}

// MailchimpMember miembro de lista de Mailchimp.
type MailchimpMember struct {
	EmailAddress string            `json:"email_address"`
	Status       string            `json:"status"`
	MergeFields  map[string]string `json:"merge_fields"`
	Tags         []string          `json:"tags,omitempty"`
}
