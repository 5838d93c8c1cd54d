package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClockInRequest inicio de jornada.
type ClockInRequest struct {
	LocationID string `json:"location_id" validate:"omitempty,uuid"`
	Notes      string `json:"notes" validate:"omitempty,max=255"`
}

// ClockOutRequest cierre de jornada.
type ClockOutRequest struct {
	BreakMinutes int    `json:"break_minutes" validate:"gte=0,lte=720"`
	Notes        string `json:"notes" validate:"omitempty,max=255"`
}

// TimeRangeQuery rango YYYY-MM-DD (fin inclusivo).
type TimeRangeQuery struct {
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// TimeEntryResponse salida de una jornada.
type TimeEntryResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	LocationID   *string         `json:"location_id,omitempty"`
	ClockIn      time.Time       `json:"clock_in"`
	ClockOut     *time.Time      `json:"clock_out,omitempty"`
	BreakMinutes int             `json:"break_minutes"`
	Hours        decimal.Decimal `json:"hours"`
	Notes        string          `json:"notes,omitempty"`
}

// TimeEntriesResponse jornadas de un empleado con total de horas.
type TimeEntriesResponse struct {
	UserID     string              `json:"user_id"`
	From       time.Time           `json:"from"`
	To         time.Time           `json:"to"`
	Entries    []TimeEntryResponse `json:"entries"`
	TotalHours decimal.Decimal     `json:"total_hours"`
}

// TimesheetRowResponse horas por empleado.
type TimesheetRowResponse struct {
	UserID     string          `json:"user_id"`
	Username   string          `json:"username"`
	FullName   string          `json:"full_name"`
	Role       string          `json:"role"`
	Entries    int             `json:"entries"`
	TotalHours decimal.Decimal `json:"total_hours"`
}

// TimesheetResponse resumen de horas del rango.
type TimesheetResponse struct {
	From time.Time              `json:"from"`
	To   time.Time              `json:"to"`
	Rows []TimesheetRowResponse `json:"rows"`
}
