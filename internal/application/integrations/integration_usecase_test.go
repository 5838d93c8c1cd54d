package integrations_test

import (
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/integrations"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store    *memory.Store
	uc       *integrations.IntegrationUseCase
	customer *entity.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	now := time.Now()

	cat := &entity.Category{ID: uuid.NewString(), Name: "Bebidas", Status: entity.StatusActive, CreatedAt: now}
	require.NoError(t, store.Categories().Create(ctx, cat))
	sup := &entity.Supplier{ID: uuid.NewString(), Name: "Café de Altura", Status: entity.StatusActive, CreatedAt: now}
	require.NoError(t, store.Suppliers().Create(ctx, sup))
	barcode := "7701234567890"
	require.NoError(t, store.Items().Create(ctx, &entity.Item{
		ID: uuid.NewString(), SKU: "CAF-1", Barcode: &barcode, Name: "Café", CategoryID: &cat.ID, SupplierID: &sup.ID,
		Price: d("50"), Cost: d("30"), Quantity: 3, Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Items().Create(ctx, &entity.Item{
		ID: uuid.NewString(), SKU: "TE-1", Name: "Té", Price: d("20"), Cost: d("8"), Quantity: 0, Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Items().Create(ctx, &entity.Item{
		ID: uuid.NewString(), SKU: "OLD-1", Name: "Descontinuado", Price: d("1"), Cost: d("1"), Status: entity.StatusInactive, CreatedAt: now, UpdatedAt: now,
	}))

	customer := &entity.Customer{
		ID: uuid.NewString(), CustomerCode: "CUST-QB000001", FirstName: "Ana", LastName: "Gómez", Email: "ana@correo.co",
		MarketingOptIn: true, LoyaltyPoints: 7, TotalSpent: decimal.Zero, Status: entity.StatusActive, CreatedAt: now,
	}
	require.NoError(t, store.Customers().Create(ctx, customer))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{
		ID: uuid.NewString(), CustomerCode: "CUST-QB000002", FirstName: "Sin", Email: "sin@correo.co",
		TotalSpent: decimal.Zero, Status: entity.StatusActive, CreatedAt: now,
	}))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{
		ID: uuid.NewString(), CustomerCode: "CUST-QB000003", FirstName: "SinEmail",
		TotalSpent: decimal.Zero, Status: entity.StatusActive, CreatedAt: now,
	}))

	saleID := uuid.NewString()
	require.NoError(t, store.Sales().Create(ctx, &entity.Sale{
		ID: saleID, InvoiceNumber: "INV-20261017-QB2345", CustomerID: &customer.ID, UserID: "cajero-1",
		Subtotal: d("100"), TaxAmount: d("10"), DiscountAmount: decimal.Zero, Total: d("110"), PaidAmount: d("110"),
		PaymentStatus: entity.PaymentStatusPaid, Status: entity.SaleStatusCompleted, Notes: "mesa 4", CreatedAt: now, UpdatedAt: now,
		Items: []entity.SaleItem{{
			ID: uuid.NewString(), SaleID: saleID, ItemID: "x", SKU: "CAF-1", Name: "Café", Quantity: 2,
			UnitPrice: d("50"), UnitCost: d("30"), Discount: decimal.Zero, TaxRate: d("10"), TaxAmount: d("10"), LineTotal: d("110"),
		}},
	}))
	voidedID := uuid.NewString()
	require.NoError(t, store.Sales().Create(ctx, &entity.Sale{
		ID: voidedID, InvoiceNumber: "INV-20261017-VD2345", UserID: "cajero-1",
		Subtotal: d("20"), TaxAmount: decimal.Zero, DiscountAmount: decimal.Zero, Total: d("20"), PaidAmount: decimal.Zero,
		PaymentStatus: entity.PaymentStatusUnpaid, Status: entity.SaleStatusVoided, CreatedAt: now, UpdatedAt: now,
	}))

	uc := integrations.NewIntegrationUseCase(store.Sales(), store.Items(), store.Customers(), store.Categories(), store.Suppliers())
	return &fixture{store: store, uc: uc, customer: customer}
}

// ── QuickBooks ───────────────────────────────────────────────────────────────

func TestQuickBooksSales_SoloCompletadas(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.QuickBooksSales(context.Background(), dto.IntegrationQuery{})
	require.NoError(t, err)
	require.Len(t, out, 1)

	r := out[0]
	assert.Equal(t, "INV-20261017-QB2345", r.DocNumber)
	require.NotNil(t, r.CustomerRef)
	assert.Equal(t, "CUST-QB000001", r.CustomerRef.Value)
	assert.Equal(t, 110.0, r.TotalAmt)
	assert.Equal(t, 10.0, r.TxnTaxTotal)
	require.Len(t, r.Line, 1)
	assert.Equal(t, 100.0, r.Line[0].Amount)
	assert.Equal(t, "TAX", r.Line[0].SalesItemLineDetail.TaxCode.Value)
	assert.Equal(t, 2, r.Line[0].SalesItemLineDetail.Qty)
}

func TestQuickBooksSalesXML_Estructura(t *testing.T) {
	f := newFixture(t)
	b, err := f.uc.QuickBooksSalesXML(context.Background(), dto.IntegrationQuery{})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(b))
	var qbProc *etree.ProcInst
	for _, tok := range doc.Child {
		if p, ok := tok.(*etree.ProcInst); ok && p.Target == "qbxml" {
			qbProc = p
		}
	}
	require.NotNil(t, qbProc)
	assert.Equal(t, `version="13.0"`, qbProc.Inst)

	rqs := doc.FindElements("/QBXML/QBXMLMsgsRq/SalesReceiptAddRq")
	require.Len(t, rqs, 1)
	assert.Equal(t, "1", rqs[0].SelectAttrValue("requestID", ""))
	add := rqs[0].SelectElement("SalesReceiptAdd")
	require.NotNil(t, add)
	assert.Equal(t, "INV-20261017-QB2345", add.FindElement("RefNumber").Text())
	assert.Equal(t, "Ana Gómez", add.FindElement("CustomerRef/FullName").Text())
	assert.Equal(t, "mesa 4", add.FindElement("Memo").Text())
	line := add.FindElement("SalesReceiptLineAdd")
	require.NotNil(t, line)
	assert.Equal(t, "CAF-1", line.FindElement("ItemRef/FullName").Text())
	assert.Equal(t, "50.00", line.FindElement("Rate").Text())
	assert.Equal(t, "100.00", line.FindElement("Amount").Text())
}

func TestQuickBooksSales_RangoInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.QuickBooksSales(context.Background(), dto.IntegrationQuery{StartDate: "no-fecha"})
	assert.Error(t, err)
}

// ── Catálogo ─────────────────────────────────────────────────────────────────

func TestWooCommerceProducts(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.WooCommerceProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2, "los ítems inactivos no se exportan")

	bySKU := map[string]dto.WooProduct{}
	for _, p := range out {
		bySKU[p.SKU] = p
	}
	assert.Equal(t, "instock", bySKU["CAF-1"].StockStatus)
	assert.Equal(t, "50.00", bySKU["CAF-1"].RegularPrice)
	assert.Equal(t, []dto.WooID{{Name: "Bebidas"}}, bySKU["CAF-1"].Categories)
	assert.Equal(t, "outofstock", bySKU["TE-1"].StockStatus)
}

func TestShopifyProducts(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.ShopifyProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, p := range out {
		if p.Title != "Café" {
			continue
		}
		assert.Equal(t, "Café de Altura", p.Vendor)
		assert.Equal(t, "Bebidas", p.ProductType)
		require.Len(t, p.Variants, 1)
		assert.Equal(t, "7701234567890", p.Variants[0].Barcode)
		assert.Equal(t, 3, p.Variants[0].InventoryQuantity)
	}
}

func TestMailchimpMembers_EstadoSegunOptIn(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.MailchimpMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2, "clientes sin email se omiten")

	byEmail := map[string]dto.MailchimpMember{}
	for _, m := range out {
		byEmail[m.EmailAddress] = m
	}
	assert.Equal(t, "subscribed", byEmail["ana@correo.co"].Status)
	assert.Equal(t, "7", byEmail["ana@correo.co"].MergeFields["POINTS"])
	assert.Equal(t, "unsubscribed", byEmail["sin@correo.co"].Status)
}
