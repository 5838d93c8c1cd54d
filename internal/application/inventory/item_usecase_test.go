package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

func newItemUC() (*inventory.ItemUseCase, *memory.Store) {
	store := memory.New()
	return inventory.NewItemUseCase(store, store.Items(), store.Adjustments()), store
}

func TestItemCreate_SKUDuplicado(t *testing.T) {
	uc, _ := newItemUC()
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateItemRequest{SKU: "A-1", Name: "Uno", Price: decimal.NewFromInt(5)})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateItemRequest{SKU: "A-1", Name: "Otro", Price: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemAdjust_RestaAcotadaEnCero(t *testing.T) {
	uc, _ := newItemUC()
	ctx := context.Background()
	item, err := uc.Create(ctx, dto.CreateItemRequest{SKU: "A-1", Name: "Uno", Price: decimal.NewFromInt(5), Quantity: 3})
	require.NoError(t, err)

	adj, err := uc.Adjust(ctx, item.ID, "user-1", dto.AdjustStockRequest{Quantity: -10, Reason: "merma"})
	require.NoError(t, err)
	assert.Equal(t, 3, adj.PreviousQty)
	assert.Equal(t, 0, adj.NewQty)
	assert.Equal(t, -10, adj.Requested)
	assert.Equal(t, -3, adj.Applied)

	got, err := uc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	history, err := uc.Adjustments(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "merma", history[0].Reason)
}

func TestItemAdjust_EntradaRecalculaCostoPromedio(t *testing.T) {
	uc, _ := newItemUC()
	ctx := context.Background()
	item, err := uc.Create(ctx, dto.CreateItemRequest{SKU: "A-1", Name: "Uno", Price: decimal.NewFromInt(20), Cost: decimal.NewFromInt(10), Quantity: 10})
	require.NoError(t, err)

	cost := decimal.NewFromInt(16)
	_, err = uc.Adjust(ctx, item.ID, "user-1", dto.AdjustStockRequest{Quantity: 5, Reason: "compra", UnitCost: &cost})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Quantity)
	assert.True(t, got.Cost.Equal(decimal.NewFromInt(12)), got.Cost.String())
}

func TestItemAdjust_ItemInexistente(t *testing.T) {
	uc, _ := newItemUC()
	_, err := uc.Adjust(context.Background(), "no-existe", "user-1", dto.AdjustStockRequest{Quantity: 1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemDeactivate_Idempotente(t *testing.T) {
	uc, _ := newItemUC()
	ctx := context.Background()
	item, err := uc.Create(ctx, dto.CreateItemRequest{SKU: "A-1", Name: "Uno", Price: decimal.NewFromInt(5)})
	require.NoError(t, err)

	first, err := uc.Deactivate(ctx, item.ID)
	require.NoError(t, err)
	second, err := uc.Deactivate(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", first.Status)
	assert.Equal(t, first.Status, second.Status)
}
