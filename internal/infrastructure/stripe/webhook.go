package stripe

import (
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/jhoicas/pos-api/internal/application/ports"
)

// WebhookTolerance antigüedad máxima aceptada del timestamp firmado.
const WebhookTolerance = 5 * time.Minute

// ParseWebhook verifica la cabecera Stripe-Signature y decodifica el evento.
// La versión de API del evento no se exige: solo se lee data.object.id.
func (c *Client) ParseWebhook(payload []byte, header string) (*ports.GatewayEvent, error) {
	if c.webhookSecret == "" {
		return nil, fmt.Errorf("stripe: STRIPE_WEBHOOK_SECRET no configurado")
	}
	ev, err := webhook.ConstructEventWithOptions(payload, header, c.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                WebhookTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe: webhook: %w", err)
	}

	out := &ports.GatewayEvent{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data != nil {
		if id, ok := ev.Data.Object["id"].(string); ok {
			out.ExternalID = id
		}
	}
	return out, nil
}
