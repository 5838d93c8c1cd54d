package analytics_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type noopEvents struct{}

func (noopEvents) Publish(context.Context, string, any) error { return nil }
func (noopEvents) Close() error                               { return nil }

type stubPDF struct{ called bool }

func (p *stubPDF) Render(*dto.ReportTable) ([]byte, error) {
	p.called = true
	return []byte("%PDF-1.4"), nil
}

var _ ports.ReportPDFRenderer = (*stubPDF)(nil)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedSales registra dos ventas de 2 × 50 con 10 % de impuesto (costo 30): una pagada en efectivo
// con reembolso de 10 y otra anulada.
func seedSales(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	now := time.Now()
	require.NoError(t, store.TaxRates().Create(ctx, &entity.TaxRate{ID: uuid.NewString(), Name: "IVA 10", Rate: d("10"), IsDefault: true, Status: entity.StatusActive, CreatedAt: now}))
	item := &entity.Item{ID: uuid.NewString(), SKU: "CAF-1", Name: "Café", Price: d("50"), Cost: d("30"), Quantity: 20, MinQuantity: 5, Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Items().Create(ctx, item))
	customer := &entity.Customer{ID: uuid.NewString(), CustomerCode: "CUST-AAAA0001", FirstName: "Ana", TotalSpent: decimal.Zero, Status: entity.StatusActive, CreatedAt: now}
	require.NoError(t, store.Customers().Create(ctx, customer))

	settings := usecase.NewSettingsUseCase(store.Settings())
	sales := billing.NewSaleUseCase(store, store.Sales(), store.Payments(), store.Customers(), store.Locations(), store.TaxRates(), store.PaymentMethods(), settings, noopEvents{}, nil)
	payments := billing.NewPaymentUseCase(store, store.Sales(), store.Payments(), store.Refunds(), store.PaymentMethods(), nil, settings, noopEvents{}, nil)

	paid, err := sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{
		CustomerID: customer.ID,
		Items:      []dto.SaleLineRequest{{ItemID: item.ID, Quantity: 2}},
		Payment:    &dto.SalePaymentRequest{Method: entity.MethodCash, Amount: d("110")},
	})
	require.NoError(t, err)
	require.Len(t, paid.Payments, 1)
	_, err = payments.Refund(ctx, "gerente-1", paid.Payments[0].ID, dto.RefundRequest{Amount: d("10"), Reason: "ajuste"})
	require.NoError(t, err)

	voided, err := sales.Create(ctx, "cajero-1", dto.CreateSaleRequest{Items: []dto.SaleLineRequest{{ItemID: item.ID, Quantity: 2}}})
	require.NoError(t, err)
	_, err = sales.Void(ctx, voided.ID, "gerente-1", dto.VoidSaleRequest{Reason: "prueba"})
	require.NoError(t, err)
	return store
}

func summary(t *dto.ReportTable, label string) string {
	for _, s := range t.Summary {
		if s.Label == label {
			return s.Value
		}
	}
	return ""
}

func rowValue(t *dto.ReportTable, metric string) string {
	for _, r := range t.Rows {
		if r[0] == metric {
			return r[1]
		}
	}
	return ""
}

// ── Reportes ─────────────────────────────────────────────────────────────────

func TestSalesReport_ExcluyeAnuladas(t *testing.T) {
	uc := analytics.NewReportUseCase(seedSales(t).Reports(), nil)
	rep, err := uc.Build(context.Background(), analytics.ReportSales, dto.ReportQuery{})
	require.NoError(t, err)

	assert.Equal(t, analytics.ReportSales, rep.Name)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, []string{"1", "100.00", "10.00", "0.00", "110.00", "110.00"}, rep.Rows[0][1:])
	assert.Equal(t, "1", summary(rep, "sales_count"))
}

func TestProductsReport_Utilidad(t *testing.T) {
	uc := analytics.NewReportUseCase(seedSales(t).Reports(), nil)
	rep, err := uc.Build(context.Background(), analytics.ReportProducts, dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, []string{"CAF-1", "Café", "2", "100.00", "60.00", "40.00"}, rep.Rows[0])
}

func TestCustomersReport(t *testing.T) {
	uc := analytics.NewReportUseCase(seedSales(t).Reports(), nil)
	rep, err := uc.Build(context.Background(), analytics.ReportCustomers, dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "CUST-AAAA0001", rep.Rows[0][0])
	assert.Equal(t, "1", rep.Rows[0][2])
	assert.Equal(t, "110.00", rep.Rows[0][3])
}

func TestInventoryReport_StockTrasVentaYAnulacion(t *testing.T) {
	uc := analytics.NewReportUseCase(seedSales(t).Reports(), nil)
	rep, err := uc.Build(context.Background(), analytics.ReportInventory, dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, []string{"CAF-1", "Café", "18", "5", "540.00", "900.00", "false"}, rep.Rows[0])
}

func TestTaxReport(t *testing.T) {
	uc := analytics.NewReportUseCase(seedSales(t).Reports(), nil)
	rep, err := uc.Build(context.Background(), analytics.ReportTax, dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, []string{"10.00", "100.00", "10.00"}, rep.Rows[0])
}

func TestFinancialReport_NetoYUtilidadBruta(t *testing.T) {
	uc := analytics.NewReportUseCase(seedSales(t).Reports(), nil)
	rep, err := uc.Build(context.Background(), analytics.ReportFinancial, dto.ReportQuery{})
	require.NoError(t, err)

	assert.Equal(t, "110.00", rowValue(rep, "revenue"))
	assert.Equal(t, "10.00", rowValue(rep, "refunds"))
	assert.Equal(t, "100.00", rowValue(rep, "net_revenue"))
	assert.Equal(t, "60.00", rowValue(rep, "cost_of_goods"))
	assert.Equal(t, "30.00", rowValue(rep, "gross_profit"))
	assert.Equal(t, "100.00", rowValue(rep, "payments_cash"))
}

func TestBuild_ReporteDesconocidoYFechaInvalida(t *testing.T) {
	uc := analytics.NewReportUseCase(memory.New().Reports(), nil)
	_, err := uc.Build(context.Background(), "ventas-ocultas", dto.ReportQuery{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Build(context.Background(), analytics.ReportSales, dto.ReportQuery{StartDate: "2026-13-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuild_SinDatosFilasVacias(t *testing.T) {
	uc := analytics.NewReportUseCase(memory.New().Reports(), nil)
	rep, err := uc.Build(context.Background(), analytics.ReportProducts, dto.ReportQuery{})
	require.NoError(t, err)

	b, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"rows":[]`)
}

// ── Exportación ──────────────────────────────────────────────────────────────

func TestExportCSV_MismasFilasQueJSON(t *testing.T) {
	uc := analytics.NewReportUseCase(seedSales(t).Reports(), nil)
	for _, name := range []string{analytics.ReportSales, analytics.ReportProducts, analytics.ReportFinancial} {
		rep, err := uc.Build(context.Background(), name, dto.ReportQuery{})
		require.NoError(t, err)

		body, contentType, err := uc.Export(rep, dto.FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "text/csv; charset=utf-8", contentType)

		records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
		require.NoError(t, err)
		require.NotEmpty(t, records)
		assert.Equal(t, rep.Columns, records[0], name)
		assert.Equal(t, rep.Rows, records[1:], name)
	}
}

func TestExportPDF(t *testing.T) {
	rep := &dto.ReportTable{Name: "sales", Columns: []string{"a"}, Rows: [][]string{{"1"}}}

	_, _, err := analytics.NewReportUseCase(memory.New().Reports(), nil).Export(rep, dto.FormatPDF)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pdf := &stubPDF{}
	body, contentType, err := analytics.NewReportUseCase(memory.New().Reports(), pdf).Export(rep, dto.FormatPDF)
	require.NoError(t, err)
	assert.True(t, pdf.called)
	assert.Equal(t, "application/pdf", contentType)
	assert.NotEmpty(t, body)
}

// ── Dashboard ────────────────────────────────────────────────────────────────

func TestDashboard_Resumen(t *testing.T) {
	store := seedSales(t)
	uc := analytics.NewDashboardUseCase(store.Reports(), store.Items(), store.Sales())

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, out.TodaySales)
	assert.True(t, out.TodayRevenue.Equal(d("110")))
	assert.Equal(t, 1, out.MonthSales)
	assert.Equal(t, 0, out.LowStockCount)
	assert.Len(t, out.RecentSales, 2)
}
