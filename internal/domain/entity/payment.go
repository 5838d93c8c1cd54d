package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago reconocidos por las reglas de negocio.
const (
	MethodCash          = "cash"
	MethodCard          = "card"
	MethodDigitalWallet = "digital_wallet"
	MethodBankTransfer  = "bank_transfer"
	MethodStoreCredit   = "store_credit"
)

// Estados de un pago.
const (
	PaymentPending           = "pending"
	PaymentCompleted         = "completed"
	PaymentFailed            = "failed"
	PaymentRefunded          = "refunded"
	PaymentPartiallyRefunded = "partially_refunded"
)

// Payment pago registrado contra una venta.
type Payment struct {
	ID              string
	SaleID          string
	PaymentMethodID *string
	Method          string
	Amount          decimal.Decimal
	RefundedAmount  decimal.Decimal
	Status          string
	Reference       string
	ExternalID      string // id del PaymentIntent en el procesador, si aplica
	ProcessedBy     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Refundable monto que aún se puede reembolsar.
func (p *Payment) Refundable() decimal.Decimal {
	return p.Amount.Sub(p.RefundedAmount)
}

// CanRefund indica si el estado admite reembolsos.
func (p *Payment) CanRefund() bool {
	return p.Status == PaymentCompleted || p.Status == PaymentPartiallyRefunded
}

// Counts indica si el pago suma al paid_amount de la venta.
func (p *Payment) Counts() bool {
	return p.Status == PaymentCompleted || p.Status == PaymentPartiallyRefunded || p.Status == PaymentRefunded
}

// InitialStatus estado con el que se registra un pago según su método (sin pasarela externa).
func InitialStatus(method string) string {
	if method == MethodBankTransfer {
		return PaymentPending
	}
	return PaymentCompleted
}

// Refund reverso parcial o total de un pago completado.
type Refund struct {
	ID          string
	PaymentID   string
	SaleID      string
	Amount      decimal.Decimal
	Reason      string
	Status      string
	ExternalID  string
	ProcessedBy string
	CreatedAt   time.Time
}

// PaymentMethod catálogo de medios de pago configurables.
type PaymentMethod struct {
	ID                string
	Code              string
	Name              string
	IsActive          bool
	RequiresReference bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TaxRate tarifa de impuesto (porcentaje).
type TaxRate struct {
	ID        string
	Name      string
	Rate      decimal.Decimal
	IsDefault bool
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
