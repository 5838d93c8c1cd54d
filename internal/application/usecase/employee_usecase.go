package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/policy"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// EmployeeUseCase control de jornadas del personal.
type EmployeeUseCase struct {
	entries repository.TimeEntryRepository
	users   repository.UserRepository
	now     func() time.Time
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(entries repository.TimeEntryRepository, users repository.UserRepository) *EmployeeUseCase {
	return &EmployeeUseCase{entries: entries, users: users, now: time.Now}
}

// ClockIn abre una jornada; falla si ya hay una abierta.
func (uc *EmployeeUseCase) ClockIn(ctx context.Context, userID string, in dto.ClockInRequest) (*dto.TimeEntryResponse, error) {
	open, err := uc.entries.GetOpen(ctx, userID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrShiftAlreadyOpen
	}
	now := uc.now()
	e := &entity.TimeEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		ClockIn:   now,
		Hours:     decimal.Zero,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.LocationID != "" {
		loc := in.LocationID
		e.LocationID = &loc
	}
	if err := uc.entries.Create(ctx, e); err != nil {
		return nil, err
	}
	out := dto.FromTimeEntry(e)
	return &out, nil
}

// ClockOut cierra la jornada abierta y calcula las horas descontando el descanso.
func (uc *EmployeeUseCase) ClockOut(ctx context.Context, userID string, in dto.ClockOutRequest) (*dto.TimeEntryResponse, error) {
	e, err := uc.entries.GetOpen(ctx, userID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNoOpenShift
	}
	now := uc.now()
	e.ClockOut = &now
	e.BreakMinutes = in.BreakMinutes
	e.Hours = entity.WorkedHours(e.ClockIn, now, in.BreakMinutes)
	if in.Notes != "" {
		e.Notes = in.Notes
	}
	e.UpdatedAt = now
	if err := uc.entries.Close(ctx, e); err != nil {
		return nil, err
	}
	out := dto.FromTimeEntry(e)
	return &out, nil
}

// Entries jornadas de un empleado. Solo el propio usuario o manager/admin.
func (uc *EmployeeUseCase) Entries(ctx context.Context, actor dto.Principal, userID string, q dto.TimeRangeQuery) (*dto.TimeEntriesResponse, error) {
	if actor.UserID != userID && !policy.RoleAtLeast(actor.Role, entity.RoleManager) {
		return nil, domain.ErrForbidden
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	from, to, err := dto.ParsePeriod(q.StartDate, q.EndDate, uc.now())
	if err != nil {
		return nil, err
	}
	list, err := uc.entries.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	out := &dto.TimeEntriesResponse{UserID: userID, From: from, To: to, Entries: make([]dto.TimeEntryResponse, 0, len(list)), TotalHours: decimal.Zero}
	for _, e := range list {
		out.Entries = append(out.Entries, dto.FromTimeEntry(e))
		out.TotalHours = out.TotalHours.Add(e.Hours)
	}
	return out, nil
}

// Timesheet horas por empleado en el rango.
func (uc *EmployeeUseCase) Timesheet(ctx context.Context, q dto.TimeRangeQuery) (*dto.TimesheetResponse, error) {
	from, to, err := dto.ParsePeriod(q.StartDate, q.EndDate, uc.now())
	if err != nil {
		return nil, err
	}
	rows, err := uc.entries.Timesheet(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := &dto.TimesheetResponse{From: from, To: to, Rows: make([]dto.TimesheetRowResponse, 0, len(rows))}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.TimesheetRowResponse{
			UserID: r.UserID, Username: r.Username, FullName: r.FullName, Role: r.Role,
			Entries: r.Entries, TotalHours: r.TotalHours,
		})
	}
	return out, nil
}

// Staff personal activo.
func (uc *EmployeeUseCase) Staff(ctx context.Context) ([]dto.UserResponse, error) {
	list, _, err := uc.users.List(ctx, repository.UserFilter{Status: entity.StatusActive, Page: repository.Page{Limit: 500}})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}
