package dto

import "time"

// SendNotificationRequest envío de una plantilla a un cliente.
type SendNotificationRequest struct {
	CustomerID string            `json:"customer_id" validate:"required,uuid"`
	Template   string            `json:"template" validate:"required,oneof=receipt order_ready payment_reminder loyalty_update promotion"`
	Channel    string            `json:"channel" validate:"required,oneof=sms whatsapp"`
	Variables  map[string]string `json:"variables"`
}

// SendReceiptRequest canal para el recibo de una venta.
type SendReceiptRequest struct {
	Channel string `json:"channel" validate:"omitempty,oneof=sms whatsapp"`
}

// MessageLogQuery filtros de GET /api/notifications/logs.
type MessageLogQuery struct {
	CustomerID string `query:"customer_id"`
	Channel    string `query:"channel" validate:"omitempty,oneof=sms whatsapp"`
	Status     string `query:"status" validate:"omitempty,oneof=sent failed"`
	PageRequest
}

// MessageLogResponse salida de un mensaje registrado.
type MessageLogResponse struct {
	ID         string    `json:"id"`
	CustomerID *string   `json:"customer_id,omitempty"`
	Phone      string    `json:"phone"`
	Channel    string    `json:"channel"`
	Template   string    `json:"template"`
	Body       string    `json:"body"`
	Status     string    `json:"status"`
	ProviderID string    `json:"provider_id,omitempty"`
	Error      string    `json:"error,omitempty"`
	SentBy     string    `json:"sent_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// TemplateResponse plantilla disponible.
type TemplateResponse struct {
	Name         string   `json:"name"`
	Body         string   `json:"body"`
	Placeholders []string `json:"placeholders"`
}
