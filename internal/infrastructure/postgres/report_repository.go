package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes y dashboard.
// Todas las agregaciones de ventas excluyen las anuladas.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SalesByPeriod agrupa por día (YYYY-MM-DD) o por mes (YYYY-MM).
func (r *ReportRepo) SalesByPeriod(ctx context.Context, from, to time.Time, byMonth bool) ([]repository.SalesPeriodRow, error) {
	format := "YYYY-MM-DD"
	if byMonth {
		format = "YYYY-MM"
	}
	const query = `
	SELECT
	    to_char(s.created_at, $4)        AS period,
	    COUNT(*)                         AS sales,
	    COALESCE(SUM(s.subtotal), 0)     AS gross,
	    COALESCE(SUM(s.tax_amount), 0)   AS tax,
	    COALESCE(SUM(s.discount_amount), 0) AS discounts,
	    COALESCE(SUM(s.total), 0)        AS net
	FROM sales s
	WHERE s.status = $1
	  AND s.created_at BETWEEN $2 AND $3
	GROUP BY period
	ORDER BY period`
	rows, err := getMany(ctx, r.q, "report.SalesByPeriod", func(row scanner) (*repository.SalesPeriodRow, error) {
		var p repository.SalesPeriodRow
		err := row.Scan(&p.Period, &p.Count, &p.Gross, &p.Tax, &p.Discounts, &p.Net)
		return &p, err
	}, query, entity.SaleStatusCompleted, from, to, format)
	if err != nil {
		return nil, err
	}
	return deref(rows), nil
}

// ProductSales top de ítems por ingreso neto de impuestos.
func (r *ReportRepo) ProductSales(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductSalesRow, error) {
	const query = `
	SELECT
	    d.item_id,
	    MAX(d.sku)                                 AS sku,
	    MAX(d.name)                                AS name,
	    SUM(d.quantity)                            AS quantity,
	    SUM(d.line_total - d.tax_amount)           AS revenue,
	    SUM(d.quantity * d.unit_cost)              AS cost
	FROM sales_items d
	JOIN sales s ON s.id = d.sale_id
	WHERE s.status = $1
	  AND s.created_at BETWEEN $2 AND $3
	GROUP BY d.item_id
	ORDER BY revenue DESC, sku
	LIMIT $4`
	rows, err := getMany(ctx, r.q, "report.ProductSales", func(row scanner) (*repository.ProductSalesRow, error) {
		var p repository.ProductSalesRow
		err := row.Scan(&p.ItemID, &p.SKU, &p.Name, &p.Quantity, &p.Revenue, &p.Cost)
		return &p, err
	}, query, entity.SaleStatusCompleted, from, to, limitOrAll(limit))
	if err != nil {
		return nil, err
	}
	return deref(rows), nil
}

// CustomerSales clientes por total comprado.
func (r *ReportRepo) CustomerSales(ctx context.Context, from, to time.Time, limit int) ([]repository.CustomerSalesRow, error) {
	const query = `
	SELECT
	    c.id,
	    c.customer_code,
	    TRIM(c.first_name || ' ' || c.last_name) AS name,
	    COUNT(s.id)                              AS orders,
	    SUM(s.total)                             AS total_spent,
	    MAX(s.created_at)                        AS last_purchase
	FROM sales s
	JOIN customers c ON c.id = s.customer_id
	WHERE s.status = $1
	  AND s.created_at BETWEEN $2 AND $3
	GROUP BY c.id, c.customer_code, c.first_name, c.last_name
	ORDER BY total_spent DESC, c.customer_code
	LIMIT $4`
	rows, err := getMany(ctx, r.q, "report.CustomerSales", func(row scanner) (*repository.CustomerSalesRow, error) {
		var c repository.CustomerSalesRow
		err := row.Scan(&c.CustomerID, &c.CustomerCode, &c.Name, &c.Orders, &c.TotalSpent, &c.LastPurchase)
		return &c, err
	}, query, entity.SaleStatusCompleted, from, to, limitOrAll(limit))
	if err != nil {
		return nil, err
	}
	return deref(rows), nil
}

// InventoryValuation ítems activos con costo y precio para valorizar.
func (r *ReportRepo) InventoryValuation(ctx context.Context) ([]repository.InventoryValueRow, error) {
	const query = `
	SELECT id, sku, name, quantity, min_quantity, cost, price
	FROM inventory
	WHERE status = $1
	ORDER BY name`
	rows, err := getMany(ctx, r.q, "report.InventoryValuation", func(row scanner) (*repository.InventoryValueRow, error) {
		var v repository.InventoryValueRow
		err := row.Scan(&v.ItemID, &v.SKU, &v.Name, &v.Quantity, &v.MinQuantity, &v.Cost, &v.Price)
		return &v, err
	}, query, entity.StatusActive)
	if err != nil {
		return nil, err
	}
	return deref(rows), nil
}

// TaxSummary base gravable e impuesto por tarifa aplicada en la línea.
func (r *ReportRepo) TaxSummary(ctx context.Context, from, to time.Time) ([]repository.TaxSummaryRow, error) {
	const query = `
	SELECT
	    d.tax_rate,
	    SUM(d.line_total - d.tax_amount) AS taxable,
	    SUM(d.tax_amount)                AS collected
	FROM sales_items d
	JOIN sales s ON s.id = d.sale_id
	WHERE s.status = $1
	  AND s.created_at BETWEEN $2 AND $3
	GROUP BY d.tax_rate
	ORDER BY d.tax_rate`
	rows, err := getMany(ctx, r.q, "report.TaxSummary", func(row scanner) (*repository.TaxSummaryRow, error) {
		var t repository.TaxSummaryRow
		err := row.Scan(&t.Rate, &t.TaxableAmount, &t.TaxCollected)
		return &t, err
	}, query, entity.SaleStatusCompleted, from, to)
	if err != nil {
		return nil, err
	}
	return deref(rows), nil
}

// Financial agregados del período: ventas, costo, reembolsos y pagos por método.
func (r *ReportRepo) Financial(ctx context.Context, from, to time.Time) (*repository.FinancialSummary, error) {
	f := &repository.FinancialSummary{PaymentsByMethod: map[string]decimal.Decimal{}}

	const salesQuery = `
	SELECT
	    COUNT(*),
	    COALESCE(SUM(total), 0),
	    COALESCE(SUM(tax_amount), 0),
	    COALESCE(SUM(discount_amount), 0)
	FROM sales
	WHERE status = $1 AND created_at BETWEEN $2 AND $3`
	if err := r.q.QueryRow(ctx, salesQuery, entity.SaleStatusCompleted, from, to).
		Scan(&f.SalesCount, &f.Revenue, &f.Tax, &f.Discounts); err != nil {
		return nil, fmt.Errorf("report.Financial sales: %w", err)
	}

	const cogsQuery = `
	SELECT COALESCE(SUM(d.quantity * d.unit_cost), 0)
	FROM sales_items d
	JOIN sales s ON s.id = d.sale_id
	WHERE s.status = $1 AND s.created_at BETWEEN $2 AND $3`
	if err := r.q.QueryRow(ctx, cogsQuery, entity.SaleStatusCompleted, from, to).Scan(&f.CostOfGoods); err != nil {
		return nil, fmt.Errorf("report.Financial cogs: %w", err)
	}

	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM refunds WHERE created_at BETWEEN $1 AND $2`, from, to).
		Scan(&f.Refunds); err != nil {
		return nil, fmt.Errorf("report.Financial refunds: %w", err)
	}

	const paymentsQuery = `
	SELECT method, SUM(amount - refunded_amount)
	FROM payments
	WHERE status IN ($1, $2, $3) AND created_at BETWEEN $4 AND $5
	GROUP BY method`
	rows, err := r.q.Query(ctx, paymentsQuery,
		entity.PaymentCompleted, entity.PaymentPartiallyRefunded, entity.PaymentRefunded, from, to)
	if err != nil {
		return nil, fmt.Errorf("report.Financial payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var method string
		var amount decimal.Decimal
		if err := rows.Scan(&method, &amount); err != nil {
			return nil, fmt.Errorf("report.Financial payments scan: %w", err)
		}
		f.PaymentsByMethod[method] = amount
	}
	return f, rows.Err()
}

// Totals ventas y facturación del rango para el dashboard.
func (r *ReportRepo) Totals(ctx context.Context, from, to time.Time) (*repository.DashboardTotals, error) {
	var t repository.DashboardTotals
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0) FROM sales WHERE status = $1 AND created_at BETWEEN $2 AND $3`,
		entity.SaleStatusCompleted, from, to).Scan(&t.SalesCount, &t.Revenue)
	if err != nil {
		return nil, fmt.Errorf("report.Totals: %w", err)
	}
	return &t, nil
}

// limitOrAll traduce limit <= 0 a NULL (LIMIT NULL = sin límite en PostgreSQL).
func limitOrAll(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
