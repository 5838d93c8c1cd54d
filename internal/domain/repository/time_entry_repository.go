package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// TimesheetRow horas acumuladas por empleado en un rango.
type TimesheetRow struct {
	UserID     string
	Username   string
	FullName   string
	Role       string
	Entries    int
	TotalHours decimal.Decimal
}

// TimeEntryRepository jornadas de empleados.
type TimeEntryRepository interface {
	Create(ctx context.Context, e *entity.TimeEntry) error
	// GetOpen devuelve la jornada sin clock_out del usuario o (nil, nil).
	GetOpen(ctx context.Context, userID string) (*entity.TimeEntry, error)
	Close(ctx context.Context, e *entity.TimeEntry) error
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]*entity.TimeEntry, error)
	Timesheet(ctx context.Context, from, to time.Time) ([]TimesheetRow, error)
}
