package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Resultados crudos de las consultas de reportes. Los produce la DB;
// el use case los convierte en tablas.

// SalesPeriodRow ventas agrupadas por período (día o mes, como texto YYYY-MM-DD o YYYY-MM).
type SalesPeriodRow struct {
	Period    string
	Count     int
	Gross     decimal.Decimal
	Tax       decimal.Decimal
	Discounts decimal.Decimal
	Net       decimal.Decimal
}

// ProductSalesRow ventas por ítem.
type ProductSalesRow struct {
	ItemID   string
	SKU      string
	Name     string
	Quantity int
	Revenue  decimal.Decimal
	Cost     decimal.Decimal
}

// CustomerSalesRow compras por cliente.
type CustomerSalesRow struct {
	CustomerID   string
	CustomerCode string
	Name         string
	Orders       int
	TotalSpent   decimal.Decimal
	LastPurchase *time.Time
}

// InventoryValueRow valoración de stock por ítem.
type InventoryValueRow struct {
	ItemID      string
	SKU         string
	Name        string
	Quantity    int
	MinQuantity int
	Cost        decimal.Decimal
	Price       decimal.Decimal
}

// TaxSummaryRow impuesto recaudado por tarifa.
type TaxSummaryRow struct {
	Rate          decimal.Decimal
	TaxableAmount decimal.Decimal
	TaxCollected  decimal.Decimal
}

// FinancialSummary agregados financieros del período.
type FinancialSummary struct {
	Revenue          decimal.Decimal
	Tax              decimal.Decimal
	Discounts        decimal.Decimal
	Refunds          decimal.Decimal
	CostOfGoods      decimal.Decimal
	SalesCount       int
	PaymentsByMethod map[string]decimal.Decimal
}

// DashboardTotals totales de un rango para el dashboard.
type DashboardTotals struct {
	SalesCount int
	Revenue    decimal.Decimal
}

// ReportRepository consultas de solo lectura para reportes. Las ventas anuladas se excluyen.
type ReportRepository interface {
	SalesByPeriod(ctx context.Context, from, to time.Time, byMonth bool) ([]SalesPeriodRow, error)
	ProductSales(ctx context.Context, from, to time.Time, limit int) ([]ProductSalesRow, error)
	CustomerSales(ctx context.Context, from, to time.Time, limit int) ([]CustomerSalesRow, error)
	InventoryValuation(ctx context.Context) ([]InventoryValueRow, error)
	TaxSummary(ctx context.Context, from, to time.Time) ([]TaxSummaryRow, error)
	Financial(ctx context.Context, from, to time.Time) (*FinancialSummary, error)
	Totals(ctx context.Context, from, to time.Time) (*DashboardTotals, error)
}
