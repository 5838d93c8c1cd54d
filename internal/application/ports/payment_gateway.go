package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Estados normalizados que devuelve la pasarela.
const (
	GatewaySucceeded = "succeeded"
	GatewayPending   = "pending"
	GatewayFailed    = "failed"
)

// ChargeRequest cobro con tarjeta.
type ChargeRequest struct {
	Amount             decimal.Decimal
	Currency           string
	PaymentMethodToken string
	Description        string
	Metadata           map[string]string
	IdempotencyKey     string
}

// ChargeResult resultado normalizado del cobro.
type ChargeResult struct {
	ExternalID string
	Status     string // succeeded | pending | failed
	Raw        string // estado crudo del proveedor
}

// RefundRequest reembolso sobre un cobro previo.
type RefundRequest struct {
	ExternalID     string
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
}

// GatewayEvent evento verificado recibido por webhook.
type GatewayEvent struct {
	ID         string
	Type       string
	ExternalID string
}

// Tipos de evento relevantes.
const (
	GatewayEventSucceeded = "payment_intent.succeeded"
	GatewayEventFailed    = "payment_intent.payment_failed"
)

// PaymentGateway puerto del procesador de tarjetas.
type PaymentGateway interface {
	Enabled() bool
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, req RefundRequest) (string, error)
	// ParseWebhook verifica la firma y decodifica el evento.
	ParseWebhook(payload []byte, signatureHeader string) (*GatewayEvent, error)
}
