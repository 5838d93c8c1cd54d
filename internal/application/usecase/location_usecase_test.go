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

func newLocationFixture(t *testing.T) (*usecase.LocationUseCase, *entity.Item) {
	t.Helper()
	store := memory.New()
	now := time.Now()
	item := &entity.Item{ID: uuid.NewString(), SKU: "TE-01", Name: "Té verde", Price: decimal.NewFromInt(8), Cost: decimal.NewFromInt(3), Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Items().Create(context.Background(), item))
	return usecase.NewLocationUseCase(store.Locations(), store.Stock(), store.Items()), item
}

func intp(v int) *int { return &v }

// ── Ubicaciones ──────────────────────────────────────────────────────────────

func TestLocation_SetStockAltaYConteo(t *testing.T) {
	uc, item := newLocationFixture(t)
	ctx := context.Background()
	loc, err := uc.Create(ctx, dto.CreateLocationRequest{Name: "Centro", IsMain: true})
	require.NoError(t, err)

	row, err := uc.SetStock(ctx, loc.ID, item.ID, dto.SetLocationStockRequest{Quantity: intp(12), MinQuantity: intp(3)})
	require.NoError(t, err)
	assert.Equal(t, 12, row.Quantity)
	assert.Equal(t, 3, row.MinQuantity)
	assert.Equal(t, "TE-01", row.SKU)
	assert.False(t, row.LowStock)

	// Conteo físico a cero conserva el mínimo.
	row, err = uc.SetStock(ctx, loc.ID, item.ID, dto.SetLocationStockRequest{Quantity: intp(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, row.Quantity)
	assert.Equal(t, 3, row.MinQuantity)
	assert.True(t, row.LowStock)

	inv, err := uc.Inventory(ctx, loc.ID)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, 0, inv[0].Quantity)
	assert.Equal(t, "Té verde", inv[0].Name)
}

func TestLocation_SetStockCantidadNegativaORequerida(t *testing.T) {
	uc, item := newLocationFixture(t)
	ctx := context.Background()
	loc, err := uc.Create(ctx, dto.CreateLocationRequest{Name: "Norte"})
	require.NoError(t, err)

	_, err = uc.SetStock(ctx, loc.ID, item.ID, dto.SetLocationStockRequest{Quantity: intp(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.SetStock(ctx, loc.ID, item.ID, dto.SetLocationStockRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.SetStock(ctx, loc.ID, item.ID, dto.SetLocationStockRequest{Quantity: intp(1), MinQuantity: intp(-2)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	inv, err := uc.Inventory(ctx, loc.ID)
	require.NoError(t, err)
	assert.Empty(t, inv)
}

func TestLocation_SetStockUbicacionOItemInexistente(t *testing.T) {
	uc, item := newLocationFixture(t)
	ctx := context.Background()
	loc, err := uc.Create(ctx, dto.CreateLocationRequest{Name: "Sur"})
	require.NoError(t, err)

	_, err = uc.SetStock(ctx, uuid.NewString(), item.ID, dto.SetLocationStockRequest{Quantity: intp(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.SetStock(ctx, loc.ID, uuid.NewString(), dto.SetLocationStockRequest{Quantity: intp(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocation_ActualizarYDesactivar(t *testing.T) {
	uc, _ := newLocationFixture(t)
	ctx := context.Background()
	loc, err := uc.Create(ctx, dto.CreateLocationRequest{Name: "Bodega"})
	require.NoError(t, err)

	city := "Medellín"
	upd, err := uc.Update(ctx, loc.ID, dto.UpdateLocationRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Medellín", upd.City)
	assert.Equal(t, "Bodega", upd.Name)

	out, err := uc.Deactivate(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInactive, out.Status)

	active, err := uc.List(ctx, entity.StatusActive)
	require.NoError(t, err)
	assert.Empty(t, active)
}
