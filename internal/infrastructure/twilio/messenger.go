package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	twiliogo "github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/pkg/config"
)

var _ ports.Messenger = (*Messenger)(nil)

// Messenger envía SMS y WhatsApp por la API de Messages de Twilio.
type Messenger struct {
	rest         *twiliogo.RestClient
	accountSID   string
	from         string
	whatsAppFrom string
}

// NewMessenger devuelve nil si no hay AccountSID: el caso de uso registra el envío como fallido.
func NewMessenger(cfg config.TwilioConfig) *Messenger {
	if cfg.AccountSID == "" {
		return nil
	}
	return newMessenger(cfg, &http.Client{Timeout: 20 * time.Second})
}

func newMessenger(cfg config.TwilioConfig, hc *http.Client) *Messenger {
	base := &twclient.Client{
		Credentials: twclient.NewCredentials(cfg.AccountSID, cfg.AuthToken),
		HTTPClient:  hc,
	}
	base.SetAccountSid(cfg.AccountSID)
	return &Messenger{
		rest:         twiliogo.NewRestClientWithParams(twiliogo.ClientParams{Client: base}),
		accountSID:   cfg.AccountSID,
		from:         cfg.FromNumber,
		whatsAppFrom: cfg.WhatsAppFrom,
	}
}

// Send devuelve el SID del mensaje. WhatsApp usa el prefijo "whatsapp:" en ambos extremos.
func (m *Messenger) Send(ctx context.Context, channel, to, body string) (string, error) {
	from := m.from
	if channel == entity.ChannelWhatsApp {
		from = "whatsapp:" + nonEmpty(m.whatsAppFrom, m.from)
		to = "whatsapp:" + to
	}
	if from == "" || from == "whatsapp:" {
		return "", fmt.Errorf("twilio: número de origen no configurado para %s", channel)
	}
	// El SDK no recibe contexto: al menos no se envía si la petición ya fue cancelada.
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("twilio: %w", err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetPathAccountSid(m.accountSID)
	params.SetFrom(from)
	params.SetTo(to)
	params.SetBody(body)

	msg, err := m.rest.Api.CreateMessage(params)
	if err != nil {
		var re *twclient.TwilioRestError
		if errors.As(err, &re) {
			return "", fmt.Errorf("twilio: error %d: %s", re.Code, re.Message)
		}
		return "", fmt.Errorf("twilio: %w", err)
	}
	sid := deref(msg.Sid)
	if msg.ErrorCode != nil {
		return sid, fmt.Errorf("twilio: error %d: %s", *msg.ErrorCode, deref(msg.ErrorMessage))
	}
	return sid, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
