package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. UnitPrice nil = precio de lista del ítem.
type SaleLineRequest struct {
	ItemID    string           `json:"item_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal  `json:"discount" validate:"gte=0"`
}

// SalePaymentRequest pago inicial opcional registrado con la venta.
type SalePaymentRequest struct {
	PaymentMethodID string          `json:"payment_method_id" validate:"omitempty,uuid"`
	Method          string          `json:"method" validate:"required,oneof=cash card digital_wallet bank_transfer store_credit"`
	Amount          decimal.Decimal `json:"amount" validate:"dgt0"`
	Reference       string          `json:"reference" validate:"omitempty,max=100"`
}

// CreateSaleRequest entrada de POST /api/sales.
type CreateSaleRequest struct {
	CustomerID string              `json:"customer_id" validate:"omitempty,uuid"`
	LocationID string              `json:"location_id" validate:"omitempty,uuid"`
	Items      []SaleLineRequest   `json:"items" validate:"required,min=1,dive"`
	Discount   decimal.Decimal     `json:"discount" validate:"gte=0"`
	Notes      string              `json:"notes" validate:"omitempty,max=500"`
	Payment    *SalePaymentRequest `json:"payment"`
}

// SaleListQuery filtros de GET /api/sales. Fechas YYYY-MM-DD.
type SaleListQuery struct {
	StartDate     string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status        string `query:"status" validate:"omitempty,oneof=completed voided"`
	PaymentStatus string `query:"payment_status" validate:"omitempty,oneof=unpaid partial paid"`
	CustomerID    string `query:"customer_id"`
	LocationID    string `query:"location_id"`
	PageRequest
}

// VoidSaleRequest motivo de anulación.
type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SaleResponse venta con líneas y pagos.
type SaleResponse struct {
	ID             string             `json:"id"`
	InvoiceNumber  string             `json:"invoice_number"`
	CustomerID     *string            `json:"customer_id,omitempty"`
	LocationID     *string            `json:"location_id,omitempty"`
	UserID         string             `json:"user_id"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Total          decimal.Decimal    `json:"total"`
	PaidAmount     decimal.Decimal    `json:"paid_amount"`
	Balance        decimal.Decimal    `json:"balance"`
	PaymentStatus  string             `json:"payment_status"`
	Status         string             `json:"status"`
	Notes          string             `json:"notes,omitempty"`
	Items          []SaleItemResponse `json:"items,omitempty"`
	Payments       []PaymentResponse  `json:"payments,omitempty"`
	LoyaltyEarned  int                `json:"loyalty_points_earned,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
