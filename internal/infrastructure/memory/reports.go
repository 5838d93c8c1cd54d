package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ReportRepo implementa repository.ReportRepository recorriendo las ventas en memoria.
type ReportRepo struct{ s *Store }

// Reports repositorio de reportes.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }

var _ repository.ReportRepository = (*ReportRepo)(nil)

// completed ventas no anuladas del rango, en orden de inserción.
func (r *ReportRepo) completed(from, to time.Time) []entity.Sale {
	var out []entity.Sale
	for _, s := range r.s.d.sales.oldest() {
		if s.Status == entity.SaleStatusCompleted && inRange(s.CreatedAt, from, to) {
			out = append(out, s)
		}
	}
	return out
}

func (r *ReportRepo) SalesByPeriod(_ context.Context, from, to time.Time, byMonth bool) ([]repository.SalesPeriodRow, error) {
	defer r.s.lock()()
	layout := "2006-01-02"
	if byMonth {
		layout = "2006-01"
	}
	acc := map[string]*repository.SalesPeriodRow{}
	var keys []string
	for _, s := range r.completed(from, to) {
		k := s.CreatedAt.Format(layout)
		row, ok := acc[k]
		if !ok {
			row = &repository.SalesPeriodRow{Period: k, Gross: decimal.Zero, Tax: decimal.Zero, Discounts: decimal.Zero, Net: decimal.Zero}
			acc[k] = row
			keys = append(keys, k)
		}
		row.Count++
		row.Gross = row.Gross.Add(s.Subtotal)
		row.Tax = row.Tax.Add(s.TaxAmount)
		row.Discounts = row.Discounts.Add(s.DiscountAmount)
		row.Net = row.Net.Add(s.Total)
	}
	out := make([]repository.SalesPeriodRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, *acc[k])
	}
	sortBy(out, func(a, b repository.SalesPeriodRow) bool { return a.Period < b.Period })
	return out, nil
}

func (r *ReportRepo) ProductSales(_ context.Context, from, to time.Time, limit int) ([]repository.ProductSalesRow, error) {
	defer r.s.lock()()
	acc := map[string]*repository.ProductSalesRow{}
	for _, s := range r.completed(from, to) {
		for _, it := range s.Items {
			row, ok := acc[it.ItemID]
			if !ok {
				row = &repository.ProductSalesRow{ItemID: it.ItemID, SKU: it.SKU, Name: it.Name, Revenue: decimal.Zero, Cost: decimal.Zero}
				acc[it.ItemID] = row
			}
			row.Quantity += it.Quantity
			row.Revenue = row.Revenue.Add(it.LineTotal.Sub(it.TaxAmount))
			row.Cost = row.Cost.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	out := make([]repository.ProductSalesRow, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sortBy(out, func(a, b repository.ProductSalesRow) bool {
		if a.Revenue.Equal(b.Revenue) {
			return a.SKU < b.SKU
		}
		return a.Revenue.GreaterThan(b.Revenue)
	})
	page, _ := paginate(out, repository.Page{Limit: limit})
	return page, nil
}

func (r *ReportRepo) CustomerSales(_ context.Context, from, to time.Time, limit int) ([]repository.CustomerSalesRow, error) {
	defer r.s.lock()()
	acc := map[string]*repository.CustomerSalesRow{}
	for _, s := range r.completed(from, to) {
		if s.CustomerID == nil {
			continue
		}
		row, ok := acc[*s.CustomerID]
		if !ok {
			row = &repository.CustomerSalesRow{CustomerID: *s.CustomerID, TotalSpent: decimal.Zero}
			if c, found := r.s.d.customers.get(*s.CustomerID); found {
				row.CustomerCode, row.Name = c.CustomerCode, c.FullName()
			}
			acc[*s.CustomerID] = row
		}
		row.Orders++
		row.TotalSpent = row.TotalSpent.Add(s.Total)
		if row.LastPurchase == nil || s.CreatedAt.After(*row.LastPurchase) {
			row.LastPurchase = ptr(s.CreatedAt)
		}
	}
	out := make([]repository.CustomerSalesRow, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sortBy(out, func(a, b repository.CustomerSalesRow) bool {
		if a.TotalSpent.Equal(b.TotalSpent) {
			return a.CustomerCode < b.CustomerCode
		}
		return a.TotalSpent.GreaterThan(b.TotalSpent)
	})
	page, _ := paginate(out, repository.Page{Limit: limit})
	return page, nil
}

func (r *ReportRepo) InventoryValuation(_ context.Context) ([]repository.InventoryValueRow, error) {
	defer r.s.lock()()
	var out []repository.InventoryValueRow
	for _, it := range r.s.d.items.oldest() {
		if it.Status != entity.StatusActive {
			continue
		}
		out = append(out, repository.InventoryValueRow{
			ItemID: it.ID, SKU: it.SKU, Name: it.Name,
			Quantity: it.Quantity, MinQuantity: it.MinQuantity, Cost: it.Cost, Price: it.Price,
		})
	}
	sortBy(out, func(a, b repository.InventoryValueRow) bool { return a.Name < b.Name })
	return out, nil
}

func (r *ReportRepo) TaxSummary(_ context.Context, from, to time.Time) ([]repository.TaxSummaryRow, error) {
	defer r.s.lock()()
	acc := map[string]*repository.TaxSummaryRow{}
	for _, s := range r.completed(from, to) {
		for _, it := range s.Items {
			k := it.TaxRate.StringFixed(4)
			row, ok := acc[k]
			if !ok {
				row = &repository.TaxSummaryRow{Rate: it.TaxRate, TaxableAmount: decimal.Zero, TaxCollected: decimal.Zero}
				acc[k] = row
			}
			row.TaxableAmount = row.TaxableAmount.Add(it.LineTotal.Sub(it.TaxAmount))
			row.TaxCollected = row.TaxCollected.Add(it.TaxAmount)
		}
	}
	out := make([]repository.TaxSummaryRow, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sortBy(out, func(a, b repository.TaxSummaryRow) bool { return a.Rate.LessThan(b.Rate) })
	return out, nil
}

func (r *ReportRepo) Financial(_ context.Context, from, to time.Time) (*repository.FinancialSummary, error) {
	defer r.s.lock()()
	f := &repository.FinancialSummary{
		Revenue: decimal.Zero, Tax: decimal.Zero, Discounts: decimal.Zero, Refunds: decimal.Zero, CostOfGoods: decimal.Zero,
		PaymentsByMethod: map[string]decimal.Decimal{},
	}
	for _, s := range r.completed(from, to) {
		f.SalesCount++
		f.Revenue = f.Revenue.Add(s.Total)
		f.Tax = f.Tax.Add(s.TaxAmount)
		f.Discounts = f.Discounts.Add(s.DiscountAmount)
		for _, it := range s.Items {
			f.CostOfGoods = f.CostOfGoods.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	for _, rf := range r.s.d.refunds.oldest() {
		if inRange(rf.CreatedAt, from, to) {
			f.Refunds = f.Refunds.Add(rf.Amount)
		}
	}
	for _, p := range r.s.d.payments.oldest() {
		if p.Counts() && inRange(p.CreatedAt, from, to) {
			f.PaymentsByMethod[p.Method] = f.PaymentsByMethod[p.Method].Add(p.Amount.Sub(p.RefundedAmount))
		}
	}
	return f, nil
}

func (r *ReportRepo) Totals(_ context.Context, from, to time.Time) (*repository.DashboardTotals, error) {
	defer r.s.lock()()
	t := &repository.DashboardTotals{Revenue: decimal.Zero}
	for _, s := range r.completed(from, to) {
		t.SalesCount++
		t.Revenue = t.Revenue.Add(s.Total)
	}
	return t, nil
}
