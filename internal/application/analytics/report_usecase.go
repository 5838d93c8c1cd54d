// Package analytics contiene los reportes de negocio, su exportación y el dashboard.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Nombres de reporte aceptados en /api/reports/:name.
const (
	ReportSales     = "sales"
	ReportProducts  = "products"
	ReportCustomers = "customers"
	ReportInventory = "inventory"
	ReportTax       = "tax"
	ReportFinancial = "financial"
)

const defaultTopLimit = 50

// ReportUseCase arma cada reporte como una tabla única; el formato de salida se decide después.
type ReportUseCase struct {
	repo repository.ReportRepository
	pdf  ports.ReportPDFRenderer
	now  func() time.Time
}

// NewReportUseCase construye el caso de uso. pdf puede ser nil (format=pdf → 400).
func NewReportUseCase(repo repository.ReportRepository, pdf ports.ReportPDFRenderer) *ReportUseCase {
	return &ReportUseCase{repo: repo, pdf: pdf, now: time.Now}
}

// Build genera el reporte indicado por nombre.
func (uc *ReportUseCase) Build(ctx context.Context, name string, q dto.ReportQuery) (*dto.ReportTable, error) {
	from, to, err := dto.ParsePeriod(q.StartDate, q.EndDate, uc.now())
	if err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultTopLimit
	}

	var t *dto.ReportTable
	switch name {
	case ReportSales:
		t, err = uc.sales(ctx, from, to, q.GroupBy == "month")
	case ReportProducts:
		t, err = uc.products(ctx, from, to, limit)
	case ReportCustomers:
		t, err = uc.customers(ctx, from, to, limit)
	case ReportInventory:
		t, err = uc.inventory(ctx)
	case ReportTax:
		t, err = uc.tax(ctx, from, to)
	case ReportFinancial:
		t, err = uc.financial(ctx, from, to)
	default:
		return nil, domain.NewBusinessError(domain.ErrNotFound, fmt.Sprintf("reporte desconocido: %s", name))
	}
	if err != nil {
		return nil, fmt.Errorf("reporte %s: %w", name, err)
	}
	t.Name = name
	t.From, t.To = from, to
	t.GeneratedAt = uc.now()
	if t.Rows == nil {
		t.Rows = [][]string{}
	}
	return t, nil
}

// Export renderiza la tabla en el formato pedido y devuelve el contenido y su content-type.
func (uc *ReportUseCase) Export(t *dto.ReportTable, format string) ([]byte, string, error) {
	switch format {
	case dto.FormatCSV:
		b, err := RenderCSV(t)
		return b, "text/csv; charset=utf-8", err
	case dto.FormatPDF:
		if uc.pdf == nil {
			return nil, "", domain.NewBusinessError(domain.ErrInvalidInput, "exportación PDF no disponible")
		}
		b, err := uc.pdf.Render(t)
		if err != nil {
			return nil, "", fmt.Errorf("render pdf: %w", err)
		}
		return b, "application/pdf", nil
	}
	return nil, "", domain.NewBusinessError(domain.ErrInvalidInput, fmt.Sprintf("formato no soportado: %s", format))
}

func (uc *ReportUseCase) sales(ctx context.Context, from, to time.Time, byMonth bool) (*dto.ReportTable, error) {
	rows, err := uc.repo.SalesByPeriod(ctx, from, to, byMonth)
	if err != nil {
		return nil, err
	}
	t := &dto.ReportTable{
		Title:   "Ventas por período",
		Columns: []string{"period", "sales_count", "gross", "tax", "discounts", "net", "average_ticket"},
	}
	var count int
	gross, tax, disc, net := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Period, strconv.Itoa(r.Count), money(r.Gross), money(r.Tax), money(r.Discounts), money(r.Net),
			money(average(r.Net, r.Count)),
		})
		count += r.Count
		gross, tax, disc, net = gross.Add(r.Gross), tax.Add(r.Tax), disc.Add(r.Discounts), net.Add(r.Net)
	}
	t.Summary = []dto.SummaryEntry{
		{Label: "sales_count", Value: strconv.Itoa(count)},
		{Label: "gross", Value: money(gross)},
		{Label: "tax", Value: money(tax)},
		{Label: "discounts", Value: money(disc)},
		{Label: "net", Value: money(net)},
		{Label: "average_ticket", Value: money(average(net, count))},
	}
	return t, nil
}

func (uc *ReportUseCase) products(ctx context.Context, from, to time.Time, limit int) (*dto.ReportTable, error) {
	rows, err := uc.repo.ProductSales(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}
	t := &dto.ReportTable{
		Title:   "Ventas por producto",
		Columns: []string{"sku", "name", "quantity_sold", "revenue", "cost", "profit"},
	}
	var units int
	revenue, profit := decimal.Zero, decimal.Zero
	for _, r := range rows {
		p := r.Revenue.Sub(r.Cost)
		t.Rows = append(t.Rows, []string{r.SKU, r.Name, strconv.Itoa(r.Quantity), money(r.Revenue), money(r.Cost), money(p)})
		units += r.Quantity
		revenue, profit = revenue.Add(r.Revenue), profit.Add(p)
	}
	t.Summary = []dto.SummaryEntry{
		{Label: "products", Value: strconv.Itoa(len(rows))},
		{Label: "units_sold", Value: strconv.Itoa(units)},
		{Label: "revenue", Value: money(revenue)},
		{Label: "profit", Value: money(profit)},
	}
	return t, nil
}

func (uc *ReportUseCase) customers(ctx context.Context, from, to time.Time, limit int) (*dto.ReportTable, error) {
	rows, err := uc.repo.CustomerSales(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}
	t := &dto.ReportTable{
		Title:   "Ventas por cliente",
		Columns: []string{"customer_code", "name", "orders", "total_spent", "average_ticket", "last_purchase"},
	}
	total := decimal.Zero
	for _, r := range rows {
		last := ""
		if r.LastPurchase != nil {
			last = r.LastPurchase.Format("2006-01-02")
		}
		t.Rows = append(t.Rows, []string{
			r.CustomerCode, r.Name, strconv.Itoa(r.Orders), money(r.TotalSpent), money(average(r.TotalSpent, r.Orders)), last,
		})
		total = total.Add(r.TotalSpent)
	}
	t.Summary = []dto.SummaryEntry{
		{Label: "customers", Value: strconv.Itoa(len(rows))},
		{Label: "total_spent", Value: money(total)},
	}
	return t, nil
}

func (uc *ReportUseCase) inventory(ctx context.Context) (*dto.ReportTable, error) {
	rows, err := uc.repo.InventoryValuation(ctx)
	if err != nil {
		return nil, err
	}
	t := &dto.ReportTable{
		Title:   "Valorización de inventario",
		Columns: []string{"sku", "name", "quantity", "min_quantity", "cost_value", "retail_value", "low_stock"},
	}
	var low, units int
	cost, retail := decimal.Zero, decimal.Zero
	for _, r := range rows {
		q := decimal.NewFromInt(int64(r.Quantity))
		cv, rv := r.Cost.Mul(q), r.Price.Mul(q)
		isLow := r.Quantity <= r.MinQuantity
		if isLow {
			low++
		}
		t.Rows = append(t.Rows, []string{
			r.SKU, r.Name, strconv.Itoa(r.Quantity), strconv.Itoa(r.MinQuantity), money(cv), money(rv), strconv.FormatBool(isLow),
		})
		units += r.Quantity
		cost, retail = cost.Add(cv), retail.Add(rv)
	}
	t.Summary = []dto.SummaryEntry{
		{Label: "items", Value: strconv.Itoa(len(rows))},
		{Label: "units", Value: strconv.Itoa(units)},
		{Label: "cost_value", Value: money(cost)},
		{Label: "retail_value", Value: money(retail)},
		{Label: "low_stock_items", Value: strconv.Itoa(low)},
	}
	return t, nil
}

func (uc *ReportUseCase) tax(ctx context.Context, from, to time.Time) (*dto.ReportTable, error) {
	rows, err := uc.repo.TaxSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	t := &dto.ReportTable{
		Title:   "Resumen de impuestos",
		Columns: []string{"tax_rate", "taxable_amount", "tax_collected"},
	}
	taxable, collected := decimal.Zero, decimal.Zero
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Rate.StringFixed(2), money(r.TaxableAmount), money(r.TaxCollected)})
		taxable, collected = taxable.Add(r.TaxableAmount), collected.Add(r.TaxCollected)
	}
	t.Summary = []dto.SummaryEntry{
		{Label: "taxable_amount", Value: money(taxable)},
		{Label: "tax_collected", Value: money(collected)},
	}
	return t, nil
}

func (uc *ReportUseCase) financial(ctx context.Context, from, to time.Time) (*dto.ReportTable, error) {
	f, err := uc.repo.Financial(ctx, from, to)
	if err != nil {
		return nil, err
	}
	netRevenue := f.Revenue.Sub(f.Refunds)
	grossProfit := netRevenue.Sub(f.Tax).Sub(f.CostOfGoods)
	t := &dto.ReportTable{
		Title:   "Resumen financiero",
		Columns: []string{"metric", "amount"},
		Rows: [][]string{
			{"sales_count", strconv.Itoa(f.SalesCount)},
			{"revenue", money(f.Revenue)},
			{"tax", money(f.Tax)},
			{"discounts", money(f.Discounts)},
			{"refunds", money(f.Refunds)},
			{"net_revenue", money(netRevenue)},
			{"cost_of_goods", money(f.CostOfGoods)},
			{"gross_profit", money(grossProfit)},
		},
	}
	methods := make([]string, 0, len(f.PaymentsByMethod))
	for m := range f.PaymentsByMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	for _, m := range methods {
		t.Rows = append(t.Rows, []string{"payments_" + m, money(f.PaymentsByMethod[m])})
	}
	t.Summary = []dto.SummaryEntry{
		{Label: "net_revenue", Value: money(netRevenue)},
		{Label: "gross_profit", Value: money(grossProfit)},
	}
	return t, nil
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func average(total decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}
