package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

var _ ports.PaymentGateway = (*Client)(nil)

// Client adaptador de PaymentIntents y Refunds sobre stripe-go.
// SecretKey vacío deja la pasarela deshabilitada.
type Client struct {
	api           *client.API
	enabled       bool
	webhookSecret string
}

// NewClient construye el adaptador con un backend propio (no toca stripe.Key global).
func NewClient(cfg config.StripeConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	bcfg := &stripego.BackendConfig{LeveledLogger: leveledLogger{log: log.Component("stripe")}}
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" {
		bcfg.URL = stripego.String(base)
	}
	return newClient(cfg, stripego.GetBackendWithConfig(stripego.APIBackend, bcfg))
}

func newClient(cfg config.StripeConfig, backend stripego.Backend) *Client {
	return &Client{
		api:           client.New(cfg.SecretKey, &stripego.Backends{API: backend, Connect: backend, Uploads: backend}),
		enabled:       cfg.SecretKey != "",
		webhookSecret: cfg.WebhookSecret,
	}
}

func (c *Client) Enabled() bool { return c.enabled }

// Charge crea y confirma un PaymentIntent en una sola llamada.
func (c *Client) Charge(ctx context.Context, req ports.ChargeRequest) (*ports.ChargeResult, error) {
	if !c.enabled {
		return nil, fmt.Errorf("stripe: STRIPE_SECRET_KEY no configurado")
	}
	currency := strings.ToLower(req.Currency)
	params := &stripego.PaymentIntentParams{
		Amount:        stripego.Int64(minorUnits(req.Amount, currency)),
		Currency:      stripego.String(currency),
		PaymentMethod: stripego.String(req.PaymentMethodToken),
		Confirm:       stripego.Bool(true),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripego.Bool(true),
			AllowRedirects: stripego.String("never"),
		},
	}
	if req.Description != "" {
		params.Description = stripego.String(req.Description)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, describe(err)
	}
	res := &ports.ChargeResult{ExternalID: pi.ID, Status: normalizeStatus(pi.Status), Raw: string(pi.Status)}
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		res.Raw = string(pi.Status) + ": " + pi.LastPaymentError.Msg
	}
	return res, nil
}

// Refund reembolso parcial o total de un PaymentIntent. Devuelve el id del reembolso.
func (c *Client) Refund(ctx context.Context, req ports.RefundRequest) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("stripe: STRIPE_SECRET_KEY no configurado")
	}
	params := &stripego.RefundParams{
		PaymentIntent: stripego.String(req.ExternalID),
		Amount:        stripego.Int64(minorUnits(req.Amount, req.Currency)),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	rf, err := c.api.Refunds.New(params)
	if err != nil {
		return "", describe(err)
	}
	if rf.Status == stripego.RefundStatusFailed || rf.Status == stripego.RefundStatusCanceled {
		return "", fmt.Errorf("stripe: reembolso %s en estado %s", rf.ID, rf.Status)
	}
	return rf.ID, nil
}

// normalizeStatus traduce el estado de un PaymentIntent al estado de la pasarela.
func normalizeStatus(s stripego.PaymentIntentStatus) string {
	switch s {
	case stripego.PaymentIntentStatusSucceeded:
		return ports.GatewaySucceeded
	case stripego.PaymentIntentStatusProcessing,
		stripego.PaymentIntentStatusRequiresAction,
		stripego.PaymentIntentStatusRequiresConfirmation,
		stripego.PaymentIntentStatusRequiresCapture:
		return ports.GatewayPending
	}
	return ports.GatewayFailed
}

// describe resume el error de la API (tipo, código, mensaje).
func describe(err error) error {
	var se *stripego.Error
	if errors.As(err, &se) {
		return fmt.Errorf("stripe: %s (%s): %s", se.Type, se.Code, se.Msg)
	}
	return fmt.Errorf("stripe: %w", err)
}

// Monedas sin decimales y con tres decimales según Stripe; el resto usa dos.
var (
	zeroDecimal = map[string]bool{
		"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true, "krw": true, "mga": true,
		"pyg": true, "rwf": true, "ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true, "xpf": true,
	}
	threeDecimal = map[string]bool{"bhd": true, "jod": true, "kwd": true, "omr": true, "tnd": true}
)

func currencyExponent(currency string) int32 {
	c := strings.ToLower(currency)
	switch {
	case zeroDecimal[c]:
		return 0
	case threeDecimal[c]:
		return 3
	}
	return 2
}

// minorUnits importe en la unidad mínima de la moneda, redondeado.
func minorUnits(amount decimal.Decimal, currency string) int64 {
	return amount.Shift(currencyExponent(currency)).Round(0).IntPart()
}

// leveledLogger redirige los logs de stripe-go a zerolog.
type leveledLogger struct {
	log *logger.Logger
}

func (l leveledLogger) Debugf(format string, v ...interface{}) { l.log.Debug().Msgf(format, v...) }
func (l leveledLogger) Infof(format string, v ...interface{})  { l.log.Debug().Msgf(format, v...) }
func (l leveledLogger) Warnf(format string, v ...interface{})  { l.log.Warn().Msgf(format, v...) }
func (l leveledLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
