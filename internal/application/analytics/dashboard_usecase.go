package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const dashboardRecentSales = 5

// DashboardUseCase genera los KPIs del día y del mes en curso.
type DashboardUseCase struct {
	reportRepo repository.ReportRepository
	itemRepo   repository.ItemRepository
	saleRepo   repository.SaleRepository
	now        func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reportRepo repository.ReportRepository, itemRepo repository.ItemRepository, saleRepo repository.SaleRepository) *DashboardUseCase {
	return &DashboardUseCase{reportRepo: reportRepo, itemRepo: itemRepo, saleRepo: saleRepo, now: time.Now}
}

// GetSummary lanza las cuatro consultas en paralelo:
//  1. Totals(hoy)
//  2. Totals(mes)
//  3. LowStock
//  4. últimas ventas
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type totalsResult struct {
		t   *repository.DashboardTotals
		err error
	}
	type lowResult struct {
		n   int
		err error
	}
	type recentResult struct {
		sales []dto.SaleResponse
		err   error
	}

	todayCh := make(chan totalsResult, 1)
	monthCh := make(chan totalsResult, 1)
	lowCh := make(chan lowResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		t, err := uc.reportRepo.Totals(ctx, todayStart, todayEnd)
		todayCh <- totalsResult{t, err}
	}()
	go func() {
		t, err := uc.reportRepo.Totals(ctx, monthStart, todayEnd)
		monthCh <- totalsResult{t, err}
	}()
	go func() {
		items, err := uc.itemRepo.LowStock(ctx)
		lowCh <- lowResult{len(items), err}
	}()
	go func() {
		list, _, err := uc.saleRepo.List(ctx, repository.SaleFilter{Page: repository.Page{Limit: dashboardRecentSales}})
		out := make([]dto.SaleResponse, 0, len(list))
		for _, s := range list {
			out = append(out, dto.FromSale(s))
		}
		recentCh <- recentResult{out, err}
	}()

	today, month, low, recent := <-todayCh, <-monthCh, <-lowCh, <-recentCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: totales de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: totales del mes: %w", month.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: ventas recientes: %w", recent.err)
	}

	return &dto.DashboardResponse{
		TodaySales:    today.t.SalesCount,
		TodayRevenue:  today.t.Revenue.Round(2),
		MonthSales:    month.t.SalesCount,
		MonthRevenue:  month.t.Revenue.Round(2),
		LowStockCount: low.n,
		RecentSales:   recent.sales,
	}, nil
}
