package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

// newSale crea una venta sin pagar de 110 (2 × 50 + 10 % de impuesto).
func newSale(t *testing.T, e *env) *dto.SaleResponse {
	t.Helper()
	sale, err := e.sales.Create(context.Background(), "cajero-1", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.True(t, sale.Total.Equal(d("110")))
	return sale
}

func pay(t *testing.T, e *env, saleID, method, amount string) *dto.PaymentResult {
	t.Helper()
	res, err := e.payments.Create(context.Background(), "cajero-1", dto.CreatePaymentRequest{
		SaleID: saleID, Method: method, Amount: d(amount), Reference: "REF-1",
	})
	require.NoError(t, err)
	return res
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestCreatePayment_ParcialYTotal(t *testing.T) {
	e := newEnv(t, false)
	sale := newSale(t, e)

	res := pay(t, e, sale.ID, entity.MethodCash, "60")
	assert.Equal(t, entity.PaymentCompleted, res.Payment.Status)
	assert.Equal(t, entity.PaymentStatusPartial, res.PaymentStatus)
	assert.True(t, res.SaleBalance.Equal(d("50")))

	res = pay(t, e, sale.ID, entity.MethodCard, "50")
	assert.Equal(t, entity.PaymentStatusPaid, res.PaymentStatus)
	assert.True(t, res.SaleBalance.IsZero())
}

func TestCreatePayment_ExcedeSaldo(t *testing.T) {
	e := newEnv(t, false)
	sale := newSale(t, e)
	pay(t, e, sale.ID, entity.MethodCash, "100")

	_, err := e.payments.Create(context.Background(), "cajero-1", dto.CreatePaymentRequest{
		SaleID: sale.ID, Method: entity.MethodCash, Amount: d("10.01"),
	})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsBalance)

	got, err := e.sales.GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(d("100")))
}

func TestCreatePayment_VentaInexistente(t *testing.T) {
	e := newEnv(t, false)
	_, err := e.payments.Create(context.Background(), "cajero-1", dto.CreatePaymentRequest{
		SaleID: uuid.NewString(), Method: entity.MethodCash, Amount: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePayment_VentaAnulada(t *testing.T) {
	e := newEnv(t, false)
	sale := newSale(t, e)
	_, err := e.sales.Void(context.Background(), sale.ID, "gerente-1", dto.VoidSaleRequest{Reason: "prueba"})
	require.NoError(t, err)

	_, err = e.payments.Create(context.Background(), "cajero-1", dto.CreatePaymentRequest{
		SaleID: sale.ID, Method: entity.MethodCash, Amount: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrSaleNotPayable)
}

func TestCreatePayment_MetodoQueRequiereReferencia(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	require.NoError(t, e.store.PaymentMethods().Create(ctx, &entity.PaymentMethod{
		ID: uuid.NewString(), Code: entity.MethodBankTransfer, Name: "Transferencia", IsActive: true, RequiresReference: true, CreatedAt: time.Now(),
	}))
	sale := newSale(t, e)

	_, err := e.payments.Create(ctx, "cajero-1", dto.CreatePaymentRequest{
		SaleID: sale.ID, Method: entity.MethodBankTransfer, Amount: d("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreatePayment_TransferenciaQuedaPendienteHastaConfirmar(t *testing.T) {
	e := newEnv(t, false)
	sale := newSale(t, e)

	res := pay(t, e, sale.ID, entity.MethodBankTransfer, "110")
	assert.Equal(t, entity.PaymentPending, res.Payment.Status)
	assert.Equal(t, entity.PaymentStatusUnpaid, res.PaymentStatus)
	assert.True(t, res.SalePaid.IsZero())

	confirmed, err := e.payments.Confirm(context.Background(), res.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, confirmed.Payment.Status)
	assert.Equal(t, entity.PaymentStatusPaid, confirmed.PaymentStatus)

	_, err = e.payments.Confirm(context.Background(), res.Payment.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ── Refund ───────────────────────────────────────────────────────────────────

func TestRefund_ParcialLuegoExcesoLuegoTotal(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	sale := newSale(t, e)
	p := pay(t, e, sale.ID, entity.MethodCash, "100")

	r, err := e.payments.Refund(ctx, "gerente-1", p.Payment.ID, dto.RefundRequest{Amount: d("40"), Reason: "producto defectuoso"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPartiallyRefunded, r.PaymentStatus)
	assert.True(t, r.SalePaid.Equal(d("60")), r.SalePaid.String())
	assert.Equal(t, entity.PaymentStatusPartial, r.SaleStatus)

	_, err = e.payments.Refund(ctx, "gerente-1", p.Payment.ID, dto.RefundRequest{Amount: d("70"), Reason: "exceso"})
	assert.ErrorIs(t, err, domain.ErrRefundExceedsPayment)

	r, err = e.payments.Refund(ctx, "gerente-1", p.Payment.ID, dto.RefundRequest{Amount: d("60"), Reason: "resto"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentRefunded, r.PaymentStatus)
	assert.True(t, r.SalePaid.IsZero())
	assert.Equal(t, entity.PaymentStatusUnpaid, r.SaleStatus)

	_, err = e.payments.Refund(ctx, "gerente-1", p.Payment.ID, dto.RefundRequest{Amount: d("1"), Reason: "otra vez"})
	assert.ErrorIs(t, err, domain.ErrPaymentNotRefundable)

	refunds, err := e.payments.ListRefunds(ctx, dto.RefundListQuery{PaymentID: p.Payment.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, refunds.Page.Total)
	assert.Contains(t, e.events.keys, ports.EventRefundCreated)
}

func TestRefund_PagoPendienteNoEsReembolsable(t *testing.T) {
	e := newEnv(t, false)
	sale := newSale(t, e)
	p := pay(t, e, sale.ID, entity.MethodBankTransfer, "50")

	_, err := e.payments.Refund(context.Background(), "gerente-1", p.Payment.ID, dto.RefundRequest{Amount: d("10"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrPaymentNotRefundable)
}

// ── Pasarela ─────────────────────────────────────────────────────────────────

func TestCharge_SinPasarelaConfigurada(t *testing.T) {
	e := newEnv(t, false)
	sale := newSale(t, e)
	_, err := e.payments.Create(context.Background(), "cajero-1", dto.CreatePaymentRequest{
		SaleID: sale.ID, Method: entity.MethodCard, Amount: d("10"), PaymentMethodToken: "pm_card_visa",
	})
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestCharge_TokenSoloConTarjeta(t *testing.T) {
	e := newEnv(t, true)
	sale := newSale(t, e)
	_, err := e.payments.Create(context.Background(), "cajero-1", dto.CreatePaymentRequest{
		SaleID: sale.ID, Method: entity.MethodCash, Amount: d("10"), PaymentMethodToken: "pm_card_visa",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, e.gateway.charges)
}

func TestCharge_Exitoso(t *testing.T) {
	e := newEnv(t, true)
	sale := newSale(t, e)

	res, err := e.payments.Create(context.Background(), "cajero-1", dto.CreatePaymentRequest{
		SaleID: sale.ID, Method: entity.MethodCard, Amount: d("110"), PaymentMethodToken: "pm_card_visa",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, res.Payment.Status)
	assert.NotEmpty(t, res.Payment.ExternalID)
	assert.Equal(t, entity.PaymentStatusPaid, res.PaymentStatus)

	require.Len(t, e.gateway.charges, 1)
	assert.Equal(t, res.Payment.ID, e.gateway.charges[0].IdempotencyKey)
	assert.Equal(t, "USD", e.gateway.charges[0].Currency)
}

func TestCharge_RechazadoDejaPagoFallido(t *testing.T) {
	e := newEnv(t, true)
	e.gateway.chargeErr = errors.New("card_declined")
	sale := newSale(t, e)
	ctx := context.Background()

	_, err := e.payments.Create(ctx, "cajero-1", dto.CreatePaymentRequest{
		SaleID: sale.ID, Method: entity.MethodCard, Amount: d("110"), PaymentMethodToken: "pm_card_chargeDeclined",
	})
	assert.ErrorIs(t, err, domain.ErrGateway)

	list, err := e.payments.List(ctx, dto.PaymentListQuery{SaleID: sale.ID})
	require.NoError(t, err)
	require.Equal(t, 1, list.Page.Total)
	assert.Equal(t, entity.PaymentFailed, list.Items[0].Status)

	got, err := e.sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.IsZero())
}

func TestWebhook_CompletaPagoPendiente(t *testing.T) {
	e := newEnv(t, true)
	e.gateway.status = ports.GatewayPending
	sale := newSale(t, e)
	ctx := context.Background()

	res, err := e.payments.Create(ctx, "cajero-1", dto.CreatePaymentRequest{
		SaleID: sale.ID, Method: entity.MethodCard, Amount: d("110"), PaymentMethodToken: "pm_card_visa",
	})
	require.NoError(t, err)
	require.Equal(t, entity.PaymentPending, res.Payment.Status)

	e.gateway.event = &ports.GatewayEvent{ID: "evt_1", Type: ports.GatewayEventSucceeded, ExternalID: res.Payment.ExternalID}
	require.NoError(t, e.payments.HandleWebhook(ctx, []byte(`{}`), "ok"))

	p, err := e.payments.GetByID(ctx, res.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, p.Status)
	got, err := e.sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)

	// Reentrega del mismo evento: sin efecto.
	require.NoError(t, e.payments.HandleWebhook(ctx, []byte(`{}`), "ok"))
	got, err = e.sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(d("110")))
}

func TestWebhook_FirmaInvalida(t *testing.T) {
	e := newEnv(t, true)
	err := e.payments.HandleWebhook(context.Background(), []byte(`{}`), "mala")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRefund_PagoConPasarelaReembolsaAlla(t *testing.T) {
	e := newEnv(t, true)
	sale := newSale(t, e)
	ctx := context.Background()
	res, err := e.payments.Create(ctx, "cajero-1", dto.CreatePaymentRequest{
		SaleID: sale.ID, Method: entity.MethodCard, Amount: d("110"), PaymentMethodToken: "pm_card_visa",
	})
	require.NoError(t, err)

	r, err := e.payments.Refund(ctx, "gerente-1", res.Payment.ID, dto.RefundRequest{Amount: d("10"), Reason: "ajuste"})
	require.NoError(t, err)
	assert.Equal(t, []string{res.Payment.ExternalID}, e.gateway.refunds)
	assert.NotEmpty(t, r.Refund.ExternalID)
}
