package mysql

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.TimeEntryRepository = (*TimeEntryRepo)(nil)

// TimeEntryRepo jornadas. MySQL no tiene índices parciales: la unicidad de la jornada abierta
// la garantiza el caso de uso consultando GetOpen antes de Create.
type TimeEntryRepo struct {
	q Querier
}

func NewTimeEntryRepository(q Querier) *TimeEntryRepo {
	return &TimeEntryRepo{q: q}
}

const timeEntryColumns = `id, user_id, location_id, clock_in, clock_out, break_minutes, hours, notes, created_at, updated_at`

func scanTimeEntry(row scanner) (*entity.TimeEntry, error) {
	var e entity.TimeEntry
	err := row.Scan(&e.ID, &e.UserID, &e.LocationID, &e.ClockIn, &e.ClockOut, &e.BreakMinutes, &e.Hours, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *TimeEntryRepo) Create(ctx context.Context, e *entity.TimeEntry) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO time_entries (`+timeEntryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.LocationID, e.ClockIn, e.ClockOut, e.BreakMinutes, e.Hours, e.Notes, e.CreatedAt, e.UpdatedAt)
	return writeErr("insert time entry", err)
}

func (r *TimeEntryRepo) GetOpen(ctx context.Context, userID string) (*entity.TimeEntry, error) {
	return getOne(ctx, r.q, "get open time entry", scanTimeEntry,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE user_id = ? AND clock_out IS NULL ORDER BY clock_in DESC LIMIT 1`, userID)
}

// Close notes vacío conserva la nota de entrada.
func (r *TimeEntryRepo) Close(ctx context.Context, e *entity.TimeEntry) error {
	const query = `
		UPDATE time_entries SET clock_out = ?, break_minutes = ?, hours = ?,
			notes = IF(? = '', notes, ?), updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query, e.ClockOut, e.BreakMinutes, e.Hours, e.Notes, e.Notes, e.UpdatedAt, e.ID)
	return mustAffect("close time entry", res, err)
}

func (r *TimeEntryRepo) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]*entity.TimeEntry, error) {
	return getMany(ctx, r.q, "list time entries", scanTimeEntry,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE user_id = ? AND clock_in BETWEEN ? AND ? ORDER BY clock_in DESC`,
		userID, from, to)
}

func (r *TimeEntryRepo) Timesheet(ctx context.Context, from, to time.Time) ([]repository.TimesheetRow, error) {
	const query = `
	SELECT
	    u.id,
	    u.username,
	    TRIM(CONCAT(u.first_name, ' ', u.last_name)) AS full_name,
	    u.role,
	    COUNT(t.id)                                  AS entries,
	    COALESCE(SUM(t.hours), 0)                    AS total_hours
	FROM time_entries t
	JOIN users u ON u.id = t.user_id
	WHERE t.clock_out IS NOT NULL
	  AND t.clock_in BETWEEN ? AND ?
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
