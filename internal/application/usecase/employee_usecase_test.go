package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

var decimalHalf = decimal.RequireFromString("0.5")

func newEmployeeFixture(t *testing.T) (*usecase.EmployeeUseCase, *entity.User) {
	t.Helper()
	store := memory.New()
	now := time.Now()
	u := &entity.User{
		ID: uuid.NewString(), Username: "turno1", Email: "turno1@t.co", PasswordHash: "x",
		Role: entity.RoleEmployee, Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return usecase.NewEmployeeUseCase(store.TimeEntries(), store.Users()), u
}

func TestClockInOut_CicloCompleto(t *testing.T) {
	uc, u := newEmployeeFixture(t)
	ctx := context.Background()

	in, err := uc.ClockIn(ctx, u.ID, dto.ClockInRequest{Notes: "apertura"})
	require.NoError(t, err)
	assert.Nil(t, in.ClockOut)

	_, err = uc.ClockIn(ctx, u.ID, dto.ClockInRequest{})
	assert.ErrorIs(t, err, domain.ErrShiftAlreadyOpen)

	out, err := uc.ClockOut(ctx, u.ID, dto.ClockOutRequest{BreakMinutes: 30})
	require.NoError(t, err)
	require.NotNil(t, out.ClockOut)
	assert.True(t, out.Hours.IsZero(), "el descanso mayor que lo trabajado deja 0 horas")
	assert.Equal(t, "apertura", out.Notes)

	_, err = uc.ClockOut(ctx, u.ID, dto.ClockOutRequest{})
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)
}

func TestEntries_SoloPropioOManager(t *testing.T) {
	uc, u := newEmployeeFixture(t)
	ctx := context.Background()
	_, err := uc.ClockIn(ctx, u.ID, dto.ClockInRequest{})
	require.NoError(t, err)

	_, err = uc.Entries(ctx, dto.Principal{UserID: "otro", Role: entity.RoleCashier}, u.ID, dto.TimeRangeQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	own, err := uc.Entries(ctx, dto.Principal{UserID: u.ID, Role: entity.RoleEmployee}, u.ID, dto.TimeRangeQuery{})
	require.NoError(t, err)
	assert.Len(t, own.Entries, 1)

	_, err = uc.Entries(ctx, dto.Principal{UserID: "jefe", Role: entity.RoleManager}, "no-existe", dto.TimeRangeQuery{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTimesheet_CuentaJornadasCerradas(t *testing.T) {
	uc, u := newEmployeeFixture(t)
	ctx := context.Background()
	_, err := uc.ClockIn(ctx, u.ID, dto.ClockInRequest{})
	require.NoError(t, err)
	_, err = uc.ClockOut(ctx, u.ID, dto.ClockOutRequest{})
	require.NoError(t, err)
	_, err = uc.ClockIn(ctx, u.ID, dto.ClockInRequest{})
	require.NoError(t, err)

	ts, err := uc.Timesheet(ctx, dto.TimeRangeQuery{})
	require.NoError(t, err)
	require.Len(t, ts.Rows, 1)
	assert.Equal(t, u.ID, ts.Rows[0].UserID)
	assert.Equal(t, 1, ts.Rows[0].Entries)
}

func TestTimesheet_RangoInvalido(t *testing.T) {
	uc, _ := newEmployeeFixture(t)
	_, err := uc.Timesheet(context.Background(), dto.TimeRangeQuery{StartDate: "2026-05-02", EndDate: "2026-05-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
