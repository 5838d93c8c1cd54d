package ports

import "context"

// Claves de enrutamiento de eventos de dominio.
const (
	EventSaleCreated          = "sale.created"
	EventSaleVoided           = "sale.voided"
	EventPaymentRecorded      = "payment.recorded"
	EventRefundCreated        = "refund.created"
	EventInventoryTransferred = "inventory.transferred"
)

// EventPublisher puerto de salida para eventos de dominio. Se publica después del commit;
// un fallo de publicación no revierte la operación.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}
