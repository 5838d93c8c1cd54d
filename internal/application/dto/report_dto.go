package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formatos de salida de reportes.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// ReportQuery parámetros comunes de /api/reports/*.
type ReportQuery struct {
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Format    string `query:"format" validate:"omitempty,oneof=json csv pdf"`
	GroupBy   string `query:"group_by" validate:"omitempty,oneof=day month"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=500"`
}

// ReportTable resultado tabular único de cualquier reporte; JSON, CSV y PDF lo renderizan igual.
type ReportTable struct {
	Name        string            `json:"report"`
	Title       string            `json:"title"`
	From        time.Time         `json:"from"`
	To          time.Time         `json:"to"`
	Columns     []string          `json:"columns"`
	Rows        [][]string        `json:"rows"`
	Summary     []SummaryEntry    `json:"summary"`
	GeneratedAt time.Time         `json:"generated_at"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// SummaryEntry par etiqueta/valor del pie del reporte (ordenado).
type SummaryEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DashboardResponse KPIs para la pantalla principal.
type DashboardResponse struct {
	TodaySales    int             `json:"today_sales"`
	TodayRevenue  decimal.Decimal `json:"today_revenue"`
	MonthSales    int             `json:"month_sales"`
	MonthRevenue  decimal.Decimal `json:"month_revenue"`
	LowStockCount int             `json:"low_stock_count"`
	RecentSales   []SaleResponse  `json:"recent_sales"`
}
