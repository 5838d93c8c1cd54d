package ports

import "context"

// Messenger puerto para SMS/WhatsApp. Devuelve el id del mensaje en el proveedor.
type Messenger interface {
	Send(ctx context.Context, channel, to, body string) (string, error)
}
