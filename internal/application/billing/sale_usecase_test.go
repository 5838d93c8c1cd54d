package billing_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ── Create ───────────────────────────────────────────────────────────────────

func TestCreateSale_TotalesStockYLealtad(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	sale, err := e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		CustomerID: e.customer.ID,
		LocationID: e.location.ID,
		Items:      []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^INV-\d{8}-[A-Z0-9]{6}$`), sale.InvoiceNumber)
	assert.True(t, sale.Subtotal.Equal(d("100")), sale.Subtotal.String())
	assert.True(t, sale.TaxAmount.Equal(d("10")), sale.TaxAmount.String())
	assert.True(t, sale.Total.Equal(d("110")), sale.Total.String())
	assert.Equal(t, entity.PaymentStatusUnpaid, sale.PaymentStatus)
	assert.Equal(t, 110, sale.LoyaltyEarned)
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].TaxRate.Equal(d("10")))

	item, err := e.store.Items().GetByID(ctx, e.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, item.Quantity)
	row, err := e.store.Stock().Get(ctx, e.location.ID, e.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, row.Quantity)

	c, err := e.store.Customers().GetByID(ctx, e.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 110, c.LoyaltyPoints)
	assert.Equal(t, 1, c.VisitCount)
	assert.True(t, c.TotalSpent.Equal(d("110")))
	assert.NotNil(t, c.LastVisit)

	assert.Equal(t, []string{"sale.created"}, e.events.keys)
}

func TestCreateSale_StockAcotadoEnCero(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	_, err := e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 15}},
	})
	require.NoError(t, err)

	item, err := e.store.Items().GetByID(ctx, e.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
}

func TestCreateSale_PagoInicialParcial(t *testing.T) {
	e := newEnv(t, false)
	sale, err := e.sales.Create(context.Background(), "cajero-1", dto.CreateSaleRequest{
		Items:   []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 1}},
		Payment: &dto.SalePaymentRequest{Method: entity.MethodCash, Amount: d("20")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, sale.PaymentStatus)
	assert.True(t, sale.PaidAmount.Equal(d("20")))
	assert.True(t, sale.Balance.Equal(d("35")), sale.Balance.String())
	require.Len(t, sale.Payments, 1)
	assert.Equal(t, entity.PaymentCompleted, sale.Payments[0].Status)
	assert.Equal(t, []string{"sale.created", "payment.recorded"}, e.events.keys)
}

func TestCreateSale_PagoInicialMayorAlTotalNoPersisteNada(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	_, err := e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		CustomerID: e.customer.ID,
		Items:      []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 1}},
		Payment:    &dto.SalePaymentRequest{Method: entity.MethodCash, Amount: d("100")},
	})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsBalance)

	item, err := e.store.Items().GetByID(ctx, e.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
	c, err := e.store.Customers().GetByID(ctx, e.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, c.LoyaltyPoints)
	list, err := e.sales.List(ctx, dto.SaleListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)
}

func TestCreateSale_PagoInicialValidaCatalogoDeMetodos(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	require.NoError(t, e.store.PaymentMethods().Create(ctx, &entity.PaymentMethod{
		ID: uuid.NewString(), Code: entity.MethodBankTransfer, Name: "Transferencia", IsActive: true, RequiresReference: true, CreatedAt: time.Now(),
	}))
	require.NoError(t, e.store.PaymentMethods().Create(ctx, &entity.PaymentMethod{
		ID: uuid.NewString(), Code: entity.MethodDigitalWallet, Name: "Billetera", IsActive: false, CreatedAt: time.Now(),
	}))
	line := []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 1}}

	_, err := e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		Items: line, Payment: &dto.SalePaymentRequest{Method: entity.MethodBankTransfer, Amount: d("10")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		Items: line, Payment: &dto.SalePaymentRequest{Method: entity.MethodDigitalWallet, Amount: d("10")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		Items: line, Payment: &dto.SalePaymentRequest{PaymentMethodID: uuid.NewString(), Method: entity.MethodCash, Amount: d("10")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	item, err := e.store.Items().GetByID(ctx, e.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity, "una venta rechazada no descuenta stock")
	list, err := e.sales.List(ctx, dto.SaleListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)
}

func TestCreateSale_PagoInicialGuardaMetodoDelCatalogo(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	method := &entity.PaymentMethod{
		ID: uuid.NewString(), Code: entity.MethodBankTransfer, Name: "Transferencia", IsActive: true, RequiresReference: true, CreatedAt: time.Now(),
	}
	require.NoError(t, e.store.PaymentMethods().Create(ctx, method))

	sale, err := e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		Items:   []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 1}},
		Payment: &dto.SalePaymentRequest{Method: entity.MethodBankTransfer, Amount: d("10"), Reference: "TRX-991"},
	})
	require.NoError(t, err)
	require.Len(t, sale.Payments, 1)
	require.NotNil(t, sale.Payments[0].PaymentMethodID)
	assert.Equal(t, method.ID, *sale.Payments[0].PaymentMethodID)

	stored, err := e.store.Payments().GetByID(ctx, sale.Payments[0].ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PaymentMethodID)
	assert.Equal(t, method.ID, *stored.PaymentMethodID)
}

func TestCreateSale_ItemInexistente(t *testing.T) {
	e := newEnv(t, false)
	_, err := e.sales.Create(context.Background(), "cajero-1", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ItemID: "00000000-0000-0000-0000-000000000000", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSale_SinItems(t *testing.T) {
	e := newEnv(t, false)
	_, err := e.sales.Create(context.Background(), "cajero-1", dto.CreateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Consultas ────────────────────────────────────────────────────────────────

func TestGetSale_PorIDYFactura(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	sale, err := e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		Items:   []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 1}},
		Payment: &dto.SalePaymentRequest{Method: entity.MethodCash, Amount: d("10")},
	})
	require.NoError(t, err)

	byID, err := e.sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, byID.Items, 1)
	assert.Len(t, byID.Payments, 1)

	byNumber, err := e.sales.GetByInvoiceNumber(ctx, sale.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, byNumber.ID)

	_, err = e.sales.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSales_FiltroPorEstadoDePago(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	_, err := e.sales.Create(ctx, "c", dto.CreateSaleRequest{Items: []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 1}}})
	require.NoError(t, err)
	_, err = e.sales.Create(ctx, "c", dto.CreateSaleRequest{
		Items:   []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 1}},
		Payment: &dto.SalePaymentRequest{Method: entity.MethodCash, Amount: d("55")},
	})
	require.NoError(t, err)

	paid, err := e.sales.List(ctx, dto.SaleListQuery{PaymentStatus: entity.PaymentStatusPaid})
	require.NoError(t, err)
	assert.Equal(t, 1, paid.Page.Total)
	all, err := e.sales.List(ctx, dto.SaleListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)
}

// ── Void ─────────────────────────────────────────────────────────────────────

func TestVoidSale_RestauraStock(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	sale, err := e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		CustomerID: e.customer.ID,
		LocationID: e.location.ID,
		Items:      []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	voided, err := e.sales.Void(ctx, sale.ID, "gerente-1", dto.VoidSaleRequest{Reason: "error de digitación"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusVoided, voided.Status)

	item, err := e.store.Items().GetByID(ctx, e.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
	row, err := e.store.Stock().Get(ctx, e.location.ID, e.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, row.Quantity)
	c, err := e.store.Customers().GetByID(ctx, e.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, c.LoyaltyPoints)
	assert.True(t, c.TotalSpent.IsZero())

	_, err = e.sales.Void(ctx, sale.ID, "gerente-1", dto.VoidSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestVoidSale_RevierteLosPuntosGuardadosAunqueCambieLaTasa(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	sale, err := e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		CustomerID: e.customer.ID,
		Items:      []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 55, sale.LoyaltyEarned)

	stored, err := e.store.Sales().GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, stored.LoyaltyPointsEarned)

	// Otra venta deja al cliente con saldo suficiente para notar un descuento de más.
	_, err = e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		CustomerID: e.customer.ID,
		Items:      []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.NoError(t, e.store.Settings().Upsert(ctx, &entity.Setting{
		Key: entity.SettingLoyaltyPointsRate, Value: json.RawMessage(`2`), UpdatedAt: time.Now(),
	}))

	_, err = e.sales.Void(ctx, sale.ID, "gerente-1", dto.VoidSaleRequest{})
	require.NoError(t, err)

	c, err := e.store.Customers().GetByID(ctx, e.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 110, c.LoyaltyPoints, "se restan los 55 puntos acreditados, no 110 con la tasa nueva")
	assert.Equal(t, 1, c.VisitCount)
}

func TestVoidSale_ConPagosSeRechaza(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	sale, err := e.sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		Items:   []dto.SaleLineRequest{{ItemID: e.item.ID, Quantity: 1}},
		Payment: &dto.SalePaymentRequest{Method: entity.MethodCash, Amount: d("5")},
	})
	require.NoError(t, err)

	_, err = e.sales.Void(ctx, sale.ID, "gerente-1", dto.VoidSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)

	item, err := e.store.Items().GetByID(ctx, e.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, item.Quantity)
}
