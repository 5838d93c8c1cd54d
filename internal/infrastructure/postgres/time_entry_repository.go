package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.TimeEntryRepository = (*TimeEntryRepo)(nil)

// TimeEntryRepo jornadas de empleados.
type TimeEntryRepo struct {
	q Querier
}

// NewTimeEntryRepository construye el adaptador.
func NewTimeEntryRepository(q Querier) *TimeEntryRepo {
	return &TimeEntryRepo{q: q}
}

const timeEntryColumns = `id, user_id, location_id, clock_in, clock_out, break_minutes, hours, notes, created_at, updated_at`

func scanTimeEntry(row scanner) (*entity.TimeEntry, error) {
	var e entity.TimeEntry
	err := row.Scan(&e.ID, &e.UserID, &e.LocationID, &e.ClockIn, &e.ClockOut, &e.BreakMinutes, &e.Hours, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

// Create abre una jornada. Una segunda jornada abierta viola uq_time_entries_open → ErrDuplicate.
func (r *TimeEntryRepo) Create(ctx context.Context, e *entity.TimeEntry) error {
	_, err := r.q.Exec(ctx, `INSERT INTO time_entries (`+timeEntryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.UserID, e.LocationID, e.ClockIn, e.ClockOut, e.BreakMinutes, e.Hours, e.Notes, e.CreatedAt, e.UpdatedAt)
	return writeErr("insert time entry", err)
}

func (r *TimeEntryRepo) GetOpen(ctx context.Context, userID string) (*entity.TimeEntry, error) {
	return getOne(ctx, r.q, "get open time entry", scanTimeEntry,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE user_id = $1 AND clock_out IS NULL ORDER BY clock_in DESC LIMIT 1`, userID)
}

// Close registra salida, descanso y horas. Notes vacío conserva la nota de entrada.
func (r *TimeEntryRepo) Close(ctx context.Context, e *entity.TimeEntry) error {
	const query = `
		UPDATE time_entries SET clock_out = $2, break_minutes = $3, hours = $4,
			notes = CASE WHEN $5 = '' THEN notes ELSE $5 END, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, e.ID, e.ClockOut, e.BreakMinutes, e.Hours, e.Notes, e.UpdatedAt)
	return mustAffect("close time entry", tag, err)
}

func (r *TimeEntryRepo) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]*entity.TimeEntry, error) {
	return getMany(ctx, r.q, "list time entries", scanTimeEntry,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE user_id = $1 AND clock_in BETWEEN $2 AND $3 ORDER BY clock_in DESC`,
		userID, from, to)
}

// Timesheet horas por empleado; solo jornadas cerradas.
func (r *TimeEntryRepo) Timesheet(ctx context.Context, from, to time.Time) ([]repository.TimesheetRow, error) {
	const query = `
	SELECT
	    u.id,
	    u.username,
	    TRIM(u.first_name || ' ' || u.last_name) AS full_name,
	    u.role,
	    COUNT(t.id)                              AS entries,
	    COALESCE(SUM(t.hours), 0)                AS total_hours
	FROM time_entries t
	JOIN users u ON u.id = t.user_id
	WHERE t.clock_out IS NOT NULL
	  AND t.clock_in BETWEEN $1 AND $2
	GROUP BY u.id, u.username, u.first_name, u.last_name, u.role
	ORDER BY u.username`
	rows, err := getMany(ctx, r.q, "timesheet", func(row scanner) (*repository.TimesheetRow, error) {
		var ts repository.TimesheetRow
		err := row.Scan(&ts.UserID, &ts.Username, &ts.FullName, &ts.Role, &ts.Entries, &ts.TotalHours)
		if ts.FullName == "" {
			ts.FullName = ts.Username
		}
		return &ts, err
	}, query, from, to)
	if err != nil {
		return nil, err
	}
	return deref(rows), nil
}

func deref[T any](rows []*T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}
