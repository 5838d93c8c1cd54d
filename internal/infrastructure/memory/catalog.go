package memory

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TaxRateRepo implementa repository.TaxRateRepository.
type TaxRateRepo struct{ s *Store }

// TaxRates repositorio de tarifas.
func (s *Store) TaxRates() *TaxRateRepo { return &TaxRateRepo{s: s} }

var _ repository.TaxRateRepository = (*TaxRateRepo)(nil)

func (r *TaxRateRepo) Create(_ context.Context, t *entity.TaxRate) error {
	defer r.s.writeLock()()
	put(r.s, r.s.d.taxRates, t.ID, *t)
	return nil
}

func (r *TaxRateRepo) GetByID(_ context.Context, id string) (*entity.TaxRate, error) {
	defer r.s.lock()()
	t, ok := r.s.d.taxRates.get(id)
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TaxRateRepo) GetDefault(_ context.Context) (*entity.TaxRate, error) {
	defer r.s.lock()()
	for _, t := range r.s.d.taxRates.oldest() {
		if t.IsDefault && t.Status == entity.StatusActive {
			return ptr(t), nil
		}
	}
	return nil, nil
}

func (r *TaxRateRepo) List(_ context.Context) ([]*entity.TaxRate, error) {
	defer r.s.lock()()
	rows := r.s.d.taxRates.oldest()
	sortBy(rows, func(a, b entity.TaxRate) bool { return a.Rate.LessThan(b.Rate) })
	return ptrs(rows), nil
}

func (r *TaxRateRepo) Update(_ context.Context, t *entity.TaxRate) error {
	defer r.s.writeLock()()
	old, ok := r.s.d.taxRates.get(t.ID)
	if !ok {
		return notFound("tax rate")
	}
	next := *t
	next.CreatedAt = old.CreatedAt
	put(r.s, r.s.d.taxRates, t.ID, next)
	return nil
}

func (r *TaxRateRepo) ClearDefault(_ context.Context, exceptID string) error {
	defer r.s.writeLock()()
	for id, t := range r.s.d.taxRates.rows {
		if id != exceptID && t.IsDefault {
			t.IsDefault = false
			put(r.s, r.s.d.taxRates, id, t)
		}
	}
	return nil
}

// PaymentMethodRepo implementa repository.PaymentMethodRepository.
type PaymentMethodRepo struct{ s *Store }

// PaymentMethods repositorio de métodos de pago.
func (s *Store) PaymentMethods() *PaymentMethodRepo { return &PaymentMethodRepo{s: s} }

var _ repository.PaymentMethodRepository = (*PaymentMethodRepo)(nil)

func (r *PaymentMethodRepo) Create(_ context.Context, m *entity.PaymentMethod) error {
	defer r.s.writeLock()()
	for _, o := range r.s.d.methods.rows {
		if strings.EqualFold(o.Code, m.Code) {
			return duplicate("payment method code")
		}
	}
	put(r.s, r.s.d.methods, m.ID, *m)
	return nil
}

func (r *PaymentMethodRepo) GetByID(_ context.Context, id string) (*entity.PaymentMethod, error) {
	defer r.s.lock()()
	m, ok := r.s.d.methods.get(id)
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *PaymentMethodRepo) GetByCode(_ context.Context, code string) (*entity.PaymentMethod, error) {
	defer r.s.lock()()
	for _, m := range r.s.d.methods.rows {
		if strings.EqualFold(m.Code, code) {
			return ptr(m), nil
		}
	}
	return nil, nil
}

func (r *PaymentMethodRepo) List(_ context.Context, onlyActive bool) ([]*entity.PaymentMethod, error) {
	defer r.s.lock()()
	var rows []entity.PaymentMethod
	for _, m := range r.s.d.methods.oldest() {
		if !onlyActive || m.IsActive {
			rows = append(rows, m)
		}
	}
	return ptrs(rows), nil
}

func (r *PaymentMethodRepo) Update(_ context.Context, m *entity.PaymentMethod) error {
	defer r.s.writeLock()()
	old, ok := r.s.d.methods.get(m.ID)
	if !ok {
		return notFound("payment method")
	}
	next := *m
	next.Code, next.CreatedAt = old.Code, old.CreatedAt
	put(r.s, r.s.d.methods, m.ID, next)
	return nil
}

// SettingRepo implementa repository.SettingRepository.
type SettingRepo struct{ s *Store }

// Settings repositorio de configuración.
func (s *Store) Settings() *SettingRepo { return &SettingRepo{s: s} }

var _ repository.SettingRepository = (*SettingRepo)(nil)

func cloneSetting(st entity.Setting) *entity.Setting {
	st.Value = append(json.RawMessage(nil), st.Value...)
	return &st
}

func (r *SettingRepo) Get(_ context.Context, key string) (*entity.Setting, error) {
	defer r.s.lock()()
	st, ok := r.s.d.settings.get(key)
	if !ok {
		return nil, nil
	}
	return cloneSetting(st), nil
}

func (r *SettingRepo) List(_ context.Context) ([]*entity.Setting, error) {
	defer r.s.lock()()
	rows := r.s.d.settings.oldest()
	sortBy(rows, func(a, b entity.Setting) bool { return a.Key < b.Key })
	out := make([]*entity.Setting, 0, len(rows))
	for _, st := range rows {
		out = append(out, cloneSetting(st))
	}
	return out, nil
}

func (r *SettingRepo) Upsert(_ context.Context, st *entity.Setting) error {
	defer r.s.writeLock()()
	put(r.s, r.s.d.settings, st.Key, *cloneSetting(*st))
	return nil
}

func (r *SettingRepo) InsertIfMissing(_ context.Context, st *entity.Setting) error {
	defer r.s.writeLock()()
	if _, ok := r.s.d.settings.get(st.Key); ok {
		return nil
	}
	put(r.s, r.s.d.settings, st.Key, *cloneSetting(*st))
	return nil
}

// MessageLogRepo implementa repository.MessageLogRepository.
type MessageLogRepo struct{ s *Store }

// MessageLogs repositorio del log de mensajes.
func (s *Store) MessageLogs() *MessageLogRepo { return &MessageLogRepo{s: s} }

var _ repository.MessageLogRepository = (*MessageLogRepo)(nil)

func (r *MessageLogRepo) Create(_ context.Context, m *entity.MessageLog) error {
	defer r.s.writeLock()()
	put(r.s, r.s.d.messages, m.ID, *m)
	return nil
}

func (r *MessageLogRepo) List(_ context.Context, f repository.MessageLogFilter) ([]*entity.MessageLog, int, error) {
	defer r.s.lock()()
	var rows []entity.MessageLog
	for _, m := range r.s.d.messages.newest() {
		if f.CustomerID != "" && (m.CustomerID == nil || *m.CustomerID != f.CustomerID) {
			continue
		}
		if f.Channel != "" && m.Channel != f.Channel {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		rows = append(rows, m)
	}
	page, total := paginate(rows, f.Page)
	return ptrs(page), total, nil
}

// TimeEntryRepo implementa repository.TimeEntryRepository.
type TimeEntryRepo struct{ s *Store }

// TimeEntries repositorio de jornadas.
func (s *Store) TimeEntries() *TimeEntryRepo { return &TimeEntryRepo{s: s} }

var _ repository.TimeEntryRepository = (*TimeEntryRepo)(nil)

func (r *TimeEntryRepo) Create(_ context.Context, e *entity.TimeEntry) error {
	defer r.s.writeLock()()
	put(r.s, r.s.d.timeEntries, e.ID, *e)
	return nil
}

func (r *TimeEntryRepo) GetOpen(_ context.Context, userID string) (*entity.TimeEntry, error) {
	defer r.s.lock()()
	for _, e := range r.s.d.timeEntries.newest() {
		if e.UserID == userID && e.ClockOut == nil {
			return ptr(e), nil
		}
	}
	return nil, nil
}

func (r *TimeEntryRepo) Close(_ context.Context, e *entity.TimeEntry) error {
	defer r.s.writeLock()()
	old, ok := r.s.d.timeEntries.get(e.ID)
	if !ok {
		return notFound("time entry")
	}
	old.ClockOut, old.BreakMinutes, old.Hours, old.UpdatedAt = e.ClockOut, e.BreakMinutes, e.Hours, e.UpdatedAt
	if e.Notes != "" {
		old.Notes = e.Notes
	}
	put(r.s, r.s.d.timeEntries, e.ID, old)
	return nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func (r *TimeEntryRepo) ListByUser(_ context.Context, userID string, from, to time.Time) ([]*entity.TimeEntry, error) {
	defer r.s.lock()()
	var rows []entity.TimeEntry
	for _, e := range r.s.d.timeEntries.oldest() {
		if e.UserID == userID && inRange(e.ClockIn, from, to) {
			rows = append(rows, e)
		}
	}
	sortBy(rows, func(a, b entity.TimeEntry) bool { return a.ClockIn.After(b.ClockIn) })
	return ptrs(rows), nil
}

// Timesheet incluye solo jornadas cerradas.
func (r *TimeEntryRepo) Timesheet(_ context.Context, from, to time.Time) ([]repository.TimesheetRow, error) {
	defer r.s.lock()()
	acc := map[string]*repository.TimesheetRow{}
	for _, e := range r.s.d.timeEntries.oldest() {
		if e.ClockOut == nil || !inRange(e.ClockIn, from, to) {
			continue
		}
		row, ok := acc[e.UserID]
		if !ok {
			row = &repository.TimesheetRow{UserID: e.UserID, TotalHours: decimal.Zero}
			if u, found := r.s.d.users.get(e.UserID); found {
				row.Username, row.FullName, row.Role = u.Username, u.FullName(), u.Role
			}
			acc[e.UserID] = row
		}
		row.Entries++
		row.TotalHours = row.TotalHours.Add(e.Hours)
	}
	out := make([]repository.TimesheetRow, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sortBy(out, func(a, b repository.TimesheetRow) bool { return a.Username < b.Username })
	return out, nil
}
