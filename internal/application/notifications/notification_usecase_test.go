package notifications_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/notifications"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type fakeMessenger struct {
	err  error
	sent []string
}

func (m *fakeMessenger) Send(_ context.Context, channel, to, body string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, channel+"|"+to+"|"+body)
	return "SM123", nil
}

var _ ports.Messenger = (*fakeMessenger)(nil)

func newFixture(t *testing.T, messenger ports.Messenger, phone string) (*notifications.NotificationUseCase, *memory.Store, *entity.Customer) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	now := time.Now()
	c := &entity.Customer{
		ID: uuid.NewString(), CustomerCode: "CUST-N0000001", FirstName: "Ana", LastName: "Gómez",
		Phone: phone, LoyaltyPoints: 42, TotalSpent: decimal.Zero, Status: entity.StatusActive, CreatedAt: now,
	}
	require.NoError(t, store.Customers().Create(ctx, c))
	require.NoError(t, store.Settings().Upsert(ctx, &entity.Setting{Key: entity.SettingStoreName, Value: json.RawMessage(`"Tienda Centro"`), UpdatedAt: now}))

	uc := notifications.NewNotificationUseCase(store.Customers(), store.Sales(), store.MessageLogs(), messenger,
		usecase.NewSettingsUseCase(store.Settings()), nil)
	return uc, store, c
}

// ── Send ─────────────────────────────────────────────────────────────────────

func TestSend_RenderizaYRegistra(t *testing.T) {
	m := &fakeMessenger{}
	uc, _, c := newFixture(t, m, "+573001112233")
	ctx := context.Background()

	out, err := uc.Send(ctx, "cajero-1", dto.SendNotificationRequest{
		CustomerID: c.ID, Template: notifications.TemplateLoyaltyUpdate, Channel: entity.ChannelWhatsApp,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MessageSent, out.Status)
	assert.Equal(t, "SM123", out.ProviderID)
	assert.Equal(t, "Hola Ana Gómez, ahora tienes 42 puntos de lealtad en Tienda Centro.", out.Body)
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0], "whatsapp|+573001112233|")

	logs, err := uc.Logs(ctx, dto.MessageLogQuery{CustomerID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Page.Total)
}

func TestSend_VariablesDeLaPeticionTienenPrioridad(t *testing.T) {
	uc, _, c := newFixture(t, &fakeMessenger{}, "+573001112233")
	out, err := uc.Send(context.Background(), "cajero-1", dto.SendNotificationRequest{
		CustomerID: c.ID, Template: notifications.TemplatePromotion, Channel: entity.ChannelSMS,
		Variables: map[string]string{"message": "2x1 en café", "customer_name": "Anita"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hola Anita, 2x1 en café - Tienda Centro", out.Body)
}

func TestSend_ClienteSinTelefono(t *testing.T) {
	m := &fakeMessenger{}
	uc, _, c := newFixture(t, m, "")
	_, err := uc.Send(context.Background(), "cajero-1", dto.SendNotificationRequest{
		CustomerID: c.ID, Template: notifications.TemplatePromotion, Channel: entity.ChannelSMS,
	})
	assert.ErrorIs(t, err, domain.ErrMissingPhone)
	assert.Empty(t, m.sent)
}

func TestSend_PlantillaDesconocida(t *testing.T) {
	uc, _, c := newFixture(t, &fakeMessenger{}, "+573001112233")
	_, err := uc.Send(context.Background(), "cajero-1", dto.SendNotificationRequest{CustomerID: c.ID, Template: "otra", Channel: entity.ChannelSMS})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSend_FalloDelProveedorQuedaRegistrado(t *testing.T) {
	uc, _, c := newFixture(t, &fakeMessenger{err: errors.New("21211 invalid 'To' number")}, "+573001112233")
	ctx := context.Background()

	_, err := uc.Send(ctx, "cajero-1", dto.SendNotificationRequest{
		CustomerID: c.ID, Template: notifications.TemplateLoyaltyUpdate, Channel: entity.ChannelSMS,
	})
	assert.ErrorIs(t, err, domain.ErrGateway)

	logs, err := uc.Logs(ctx, dto.MessageLogQuery{Status: entity.MessageFailed})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Page.Total)
	assert.Contains(t, logs.Items[0].Error, "21211")
}

func TestSend_SinProveedorConfigurado(t *testing.T) {
	uc, _, c := newFixture(t, nil, "+573001112233")
	ctx := context.Background()
	_, err := uc.Send(ctx, "cajero-1", dto.SendNotificationRequest{
		CustomerID: c.ID, Template: notifications.TemplateLoyaltyUpdate, Channel: entity.ChannelSMS,
	})
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)

	logs, err := uc.Logs(ctx, dto.MessageLogQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Page.Total)
}

// ── SendReceipt ──────────────────────────────────────────────────────────────

func TestSendReceipt_UsaDatosDeLaVenta(t *testing.T) {
	uc, store, c := newFixture(t, &fakeMessenger{}, "+573001112233")
	ctx := context.Background()
	now := time.Now()
	sale := &entity.Sale{
		ID: uuid.NewString(), InvoiceNumber: "INV-20261017-ABC234", CustomerID: &c.ID, UserID: "cajero-1",
		Subtotal: decimal.NewFromInt(100), TaxAmount: decimal.Zero, DiscountAmount: decimal.Zero,
		Total: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(40),
		PaymentStatus: entity.PaymentStatusPartial, Status: entity.SaleStatusCompleted, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Sales().Create(ctx, sale))

	out, err := uc.SendReceipt(ctx, "cajero-1", sale.ID, dto.SendReceiptRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.ChannelSMS, out.Channel)
	assert.Equal(t, notifications.TemplateReceipt, out.Template)
	assert.Contains(t, out.Body, "INV-20261017-ABC234")
	assert.Contains(t, out.Body, "por 100.00")
	assert.Contains(t, out.Body, "Saldo pendiente: 60.00")
}

func TestSendReceipt_VentaSinCliente(t *testing.T) {
	uc, store, _ := newFixture(t, &fakeMessenger{}, "+573001112233")
	ctx := context.Background()
	now := time.Now()
	sale := &entity.Sale{
		ID: uuid.NewString(), InvoiceNumber: "INV-20261017-XYZ234", UserID: "cajero-1",
		Subtotal: decimal.Zero, TaxAmount: decimal.Zero, DiscountAmount: decimal.Zero, Total: decimal.Zero, PaidAmount: decimal.Zero,
		PaymentStatus: entity.PaymentStatusPaid, Status: entity.SaleStatusCompleted, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Sales().Create(ctx, sale))

	_, err := uc.SendReceipt(ctx, "cajero-1", sale.ID, dto.SendReceiptRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.SendReceipt(ctx, "cajero-1", uuid.NewString(), dto.SendReceiptRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
