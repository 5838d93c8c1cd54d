package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest registro de pago contra una venta.
// PaymentMethodToken (pm_...) activa el cobro con tarjeta vía pasarela cuando está configurada.
type CreatePaymentRequest struct {
	SaleID             string          `json:"sale_id" validate:"required,uuid"`
	Method             string          `json:"method" validate:"required,oneof=cash card digital_wallet bank_transfer store_credit"`
	Amount             decimal.Decimal `json:"amount" validate:"dgt0"`
	Reference          string          `json:"reference" validate:"omitempty,max=100"`
	PaymentMethodID    string          `json:"payment_method_id" validate:"omitempty,uuid"`
	PaymentMethodToken string          `json:"payment_method_token" validate:"omitempty,max=255"`
}

// PaymentListQuery filtros de GET /api/payments.
type PaymentListQuery struct {
	SaleID    string `query:"sale_id"`
	Method    string `query:"method"`
	Status    string `query:"status" validate:"omitempty,oneof=pending completed failed refunded partially_refunded"`
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	ID              string          `json:"id"`
	SaleID          string          `json:"sale_id"`
	PaymentMethodID *string         `json:"payment_method_id,omitempty"`
	Method          string          `json:"method"`
	Amount          decimal.Decimal `json:"amount"`
	RefundedAmount  decimal.Decimal `json:"refunded_amount"`
	Status          string          `json:"status"`
	Reference       string          `json:"reference,omitempty"`
	ExternalID      string          `json:"external_id,omitempty"`
	ProcessedBy     string          `json:"processed_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PaymentResult pago junto con el estado resultante de la venta.
type PaymentResult struct {
	Payment       PaymentResponse `json:"payment"`
	SalePaid      decimal.Decimal `json:"sale_paid_amount"`
	SaleBalance   decimal.Decimal `json:"sale_balance"`
	PaymentStatus string          `json:"sale_payment_status"`
}

// RefundRequest reembolso sobre un pago.
type RefundRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"dgt0"`
	Reason string          `json:"reason" validate:"required,max=255"`
}

// RefundListQuery filtros de GET /api/refunds.
type RefundListQuery struct {
	PaymentID string `query:"payment_id"`
	PageRequest
}

// RefundResponse salida de un reembolso.
type RefundResponse struct {
	ID          string          `json:"id"`
	PaymentID   string          `json:"payment_id"`
	SaleID      string          `json:"sale_id"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Status      string          `json:"status"`
	ExternalID  string          `json:"external_id,omitempty"`
	ProcessedBy string          `json:"processed_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RefundResult reembolso con el estado resultante del pago y la venta.
type RefundResult struct {
	Refund        RefundResponse  `json:"refund"`
	PaymentStatus string          `json:"payment_status"`
	SalePaid      decimal.Decimal `json:"sale_paid_amount"`
	SaleStatus    string          `json:"sale_payment_status"`
}
