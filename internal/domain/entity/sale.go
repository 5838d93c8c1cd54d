package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una venta (derivados de paid_amount vs total).
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Estados de la venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusVoided    = "voided"
)

// Sale cabecera de una venta/factura.
type Sale struct {
	ID             string
	InvoiceNumber  string
	CustomerID     *string
	LocationID     *string
	UserID         string
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	PaidAmount     decimal.Decimal
	PaymentStatus  string
	Status         string
	Notes          string
	// LoyaltyPointsEarned puntos acreditados al cliente por esta venta; la anulación revierte exactamente estos.
	LoyaltyPointsEarned int
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Items []SaleItem
}

// SaleItem línea de la venta. SKU, Name y UnitCost se copian del ítem al momento de vender.
type SaleItem struct {
	ID        string
	SaleID    string
	ItemID    string
	SKU       string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal // porcentaje, ej. 19.00
	TaxAmount decimal.Decimal
	LineTotal decimal.Decimal // (qty*precio - descuento) + impuesto
}

// DerivePaymentStatus compara lo pagado contra el total.
func DerivePaymentStatus(paid, total decimal.Decimal) string {
	switch {
	case !paid.IsPositive():
		return PaymentStatusUnpaid
	case paid.LessThan(total):
		return PaymentStatusPartial
	default:
		return PaymentStatusPaid
	}
}

// Balance saldo pendiente (nunca negativo).
func (s *Sale) Balance() decimal.Decimal {
	b := s.Total.Sub(s.PaidAmount)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// ApplyPayment suma (o resta, si amount es negativo) al monto pagado y recalcula el estado.
func (s *Sale) ApplyPayment(amount decimal.Decimal, now time.Time) {
	s.PaidAmount = s.PaidAmount.Add(amount)
	if s.PaidAmount.IsNegative() {
		s.PaidAmount = decimal.Zero
	}
	s.PaymentStatus = DerivePaymentStatus(s.PaidAmount, s.Total)
	s.UpdatedAt = now
}
