package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

func newItem(sku string, qty int) *entity.Item {
	now := time.Now()
	return &entity.Item{
		ID: uuid.NewString(), SKU: sku, Name: sku, Price: decimal.NewFromInt(10), Cost: decimal.NewFromInt(5),
		Quantity: qty, Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now,
	}
}

func TestRunAdjustment_ErrorRevierteTodo(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	it := newItem("A-1", 10)
	require.NoError(t, s.Items().Create(ctx, it))

	boom := errors.New("falla a mitad")
	err := s.RunAdjustment(ctx, func(items repository.ItemRepository, _ repository.LocationStockRepository, _ repository.StockAdjustmentRepository) error {
		if err := items.UpdateQuantity(ctx, it.ID, 6, time.Now()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Items().GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
}

func TestRunTransfer_RollbackConservaEscriturasAjenas(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	before := &entity.Customer{ID: uuid.NewString(), CustomerCode: "C-ANTES", FirstName: "Antes"}
	require.NoError(t, s.Customers().Create(ctx, before))

	outside := &entity.Customer{ID: uuid.NewString(), CustomerCode: "C-FUERA", FirstName: "Fuera"}
	started := make(chan struct{})
	done := make(chan error, 1)
	boom := errors.New("falla a mitad")
	err := s.RunTransfer(ctx, func(stock repository.LocationStockRepository, _ repository.TransferRepository) error {
		require.NoError(t, stock.Upsert(ctx, &entity.LocationStock{LocationID: "loc-1", ItemID: "it-1", Quantity: 5}))
		go func() {
			close(started)
			done <- s.Customers().Create(ctx, outside)
		}()
		<-started
		time.Sleep(20 * time.Millisecond)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, <-done)

	got, err := s.Customers().GetByID(ctx, outside.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "la escritura concurrente no debe perderse con el rollback")
	got, err = s.Customers().GetByID(ctx, before.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	row, err := s.Stock().Get(ctx, "loc-1", "it-1")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestRunAdjustment_RollbackRestauraOrden(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	a, b := newItem("A-1", 1), newItem("B-1", 2)
	require.NoError(t, s.Items().Create(ctx, a))
	require.NoError(t, s.Items().Create(ctx, b))

	boom := errors.New("falla")
	err := s.RunAdjustment(ctx, func(items repository.ItemRepository, _ repository.LocationStockRepository, _ repository.StockAdjustmentRepository) error {
		require.NoError(t, items.Create(ctx, newItem("C-1", 3)))
		require.NoError(t, items.UpdateQuantity(ctx, a.ID, 9, time.Now()))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, total, err := s.Items().List(ctx, repository.ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, rows, 2)
	for _, r := range rows {
		if r.ID == a.ID {
			assert.Equal(t, 1, r.Quantity)
		}
	}
}

func TestItems_SKUDuplicado(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.Items().Create(ctx, newItem("A-1", 1)))
	err := s.Items().Create(ctx, newItem("A-1", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestGet_FilaInexistenteDevuelveNil(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	it, err := s.Items().GetByID(ctx, "no-existe")
	assert.NoError(t, err)
	assert.Nil(t, it)
	c, err := s.Customers().GetByID(ctx, "no-existe")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestItems_ListPaginaYTotal(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	for _, sku := range []string{"A", "B", "C"} {
		require.NoError(t, s.Items().Create(ctx, newItem(sku, 1)))
	}
	list, total, err := s.Items().List(ctx, repository.ItemFilter{Page: repository.Page{Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 2)
}

func TestItems_DevuelveCopias(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	it := newItem("A-1", 5)
	require.NoError(t, s.Items().Create(ctx, it))

	got, err := s.Items().GetByID(ctx, it.ID)
	require.NoError(t, err)
	got.Quantity = 99

	again, err := s.Items().GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Quantity)
}
