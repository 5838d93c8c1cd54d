package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

func newUserUseCase() (*usecase.UserUseCase, *memory.Store) {
	store := memory.New()
	return usecase.NewUserUseCase(store.Users(), store.Sessions(), bcrypt.MinCost), store
}

func TestCreateUser_DuplicadosPorUsernameYEmail(t *testing.T) {
	uc, _ := newUserUseCase()
	ctx := context.Background()
	in := dto.CreateUserRequest{Username: "maria", Email: "Maria@Tienda.co", Password: "password1", Role: entity.RoleCashier}

	u, err := uc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "maria@tienda.co", u.Email)
	assert.Equal(t, entity.StatusActive, u.Status)

	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	in.Username = "maria2"
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateUser_PermisoDesconocido(t *testing.T) {
	uc, _ := newUserUseCase()
	_, err := uc.Create(context.Background(), dto.CreateUserRequest{
		Username: "pedro", Email: "p@t.co", Password: "password1", Role: entity.RoleCashier,
		Permissions: map[string]bool{"no.existe": true},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateUser_OverrideConcedePermiso(t *testing.T) {
	uc, _ := newUserUseCase()
	u, err := uc.Create(context.Background(), dto.CreateUserRequest{
		Username: "lucia", Email: "l@t.co", Password: "password1", Role: entity.RoleCashier,
		Permissions: map[string]bool{string(entity.PermSalesVoid): true},
	})
	require.NoError(t, err)
	assert.Contains(t, u.EffectivePermissions, string(entity.PermSalesVoid))
}

func TestDeactivateUser_IdempotenteYNoASiMismo(t *testing.T) {
	uc, _ := newUserUseCase()
	ctx := context.Background()
	u, err := uc.Create(ctx, dto.CreateUserRequest{Username: "juan", Email: "j@t.co", Password: "password1", Role: entity.RoleEmployee})
	require.NoError(t, err)

	_, err = uc.Deactivate(ctx, u.ID, u.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	first, err := uc.Deactivate(ctx, u.ID, "admin-id")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInactive, first.Status)

	second, err := uc.Deactivate(ctx, u.ID, "admin-id")
	require.NoError(t, err)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)

	_, err = uc.Deactivate(ctx, "no-existe", "admin-id")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
