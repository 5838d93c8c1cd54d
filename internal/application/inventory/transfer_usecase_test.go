package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type eventRecorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *eventRecorder) Publish(_ context.Context, key string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return nil
}

func (r *eventRecorder) Close() error { return nil }

type fixture struct {
	store    *memory.Store
	item     *entity.Item
	from, to *entity.Location
	events   *eventRecorder
	uc       *inventory.TransferUseCase
}

func newFixture(t *testing.T, originQty int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	now := time.Now()

	item := &entity.Item{ID: uuid.NewString(), SKU: "SKU-1", Name: "Café", Price: decimal.NewFromInt(10), Cost: decimal.NewFromInt(6), Quantity: originQty, Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Items().Create(ctx, item))
	from := &entity.Location{ID: uuid.NewString(), Name: "Centro", IsMain: true, Status: entity.StatusActive, CreatedAt: now}
	to := &entity.Location{ID: uuid.NewString(), Name: "Norte", Status: entity.StatusActive, CreatedAt: now}
	require.NoError(t, store.Locations().Create(ctx, from))
	require.NoError(t, store.Locations().Create(ctx, to))
	if originQty > 0 {
		require.NoError(t, store.Stock().Upsert(ctx, &entity.LocationStock{LocationID: from.ID, ItemID: item.ID, Quantity: originQty}))
	}

	events := &eventRecorder{}
	uc := inventory.NewTransferUseCase(store, store.Items(), store.Locations(), store.Transfers(), events, nil)
	return &fixture{store: store, item: item, from: from, to: to, events: events, uc: uc}
}

// failingTransfers ejecuta la transacción real del store pero falla al registrar el traslado.
type failingTransfers struct {
	*memory.Store
	err error
}

type transferRepoErr struct {
	repository.TransferRepository
	err error
}

func (r transferRepoErr) Create(context.Context, *entity.InventoryTransfer) error { return r.err }

func (f failingTransfers) RunTransfer(ctx context.Context, fn func(repository.LocationStockRepository, repository.TransferRepository) error) error {
	return f.Store.RunTransfer(ctx, func(stock repository.LocationStockRepository, transfers repository.TransferRepository) error {
		return fn(stock, transferRepoErr{TransferRepository: transfers, err: f.err})
	})
}

func (f *fixture) qty(t *testing.T, locationID string) int {
	t.Helper()
	row, err := f.store.Stock().Get(context.Background(), locationID, f.item.ID)
	require.NoError(t, err)
	if row == nil {
		return 0
	}
	return row.Quantity
}

// ── Transfer ─────────────────────────────────────────────────────────────────

func TestTransfer_ConservaElTotal(t *testing.T) {
	f := newFixture(t, 10)

	out, err := f.uc.Transfer(context.Background(), "user-1", dto.TransferRequest{
		ItemID: f.item.ID, FromLocationID: f.from.ID, ToLocationID: f.to.ID, Quantity: 4, Notes: "reposición",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Quantity)
	assert.Equal(t, "user-1", out.TransferredBy)

	assert.Equal(t, 6, f.qty(t, f.from.ID))
	assert.Equal(t, 4, f.qty(t, f.to.ID))
	assert.Equal(t, 10, f.qty(t, f.from.ID)+f.qty(t, f.to.ID))

	got, err := f.uc.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, f.item.ID, got.ItemID)
	assert.Equal(t, []string{"inventory.transferred"}, f.events.keys)
}

func TestTransfer_StockInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.uc.Transfer(context.Background(), "user-1", dto.TransferRequest{
		ItemID: f.item.ID, FromLocationID: f.from.ID, ToLocationID: f.to.ID, Quantity: 5,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 3")

	assert.Equal(t, 3, f.qty(t, f.from.ID))
	assert.Equal(t, 0, f.qty(t, f.to.ID))
	list, err := f.uc.List(context.Background(), dto.TransferListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)
	assert.Empty(t, f.events.keys)
}

func TestTransfer_FallaAlRegistrarRevierteAmbasFilas(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	require.NoError(t, f.store.Stock().Upsert(ctx, &entity.LocationStock{LocationID: f.to.ID, ItemID: f.item.ID, Quantity: 2}))
	boom := errors.New("insert inventory_transfers falló")
	uc := inventory.NewTransferUseCase(failingTransfers{Store: f.store, err: boom}, f.store.Items(), f.store.Locations(), f.store.Transfers(), f.events, nil)

	_, err := uc.Transfer(ctx, "user-1", dto.TransferRequest{
		ItemID: f.item.ID, FromLocationID: f.from.ID, ToLocationID: f.to.ID, Quantity: 4,
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 10, f.qty(t, f.from.ID))
	assert.Equal(t, 2, f.qty(t, f.to.ID))
	list, err := f.uc.List(ctx, dto.TransferListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)
	assert.Empty(t, f.events.keys)
}

func TestTransfer_FallaAlRegistrarNoCreaFilaDestino(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	uc := inventory.NewTransferUseCase(failingTransfers{Store: f.store, err: errors.New("sin conexión")}, f.store.Items(), f.store.Locations(), f.store.Transfers(), f.events, nil)

	_, err := uc.Transfer(ctx, "user-1", dto.TransferRequest{
		ItemID: f.item.ID, FromLocationID: f.from.ID, ToLocationID: f.to.ID, Quantity: 4,
	})
	require.Error(t, err)

	assert.Equal(t, 10, f.qty(t, f.from.ID))
	row, err := f.store.Stock().Get(ctx, f.to.ID, f.item.ID)
	require.NoError(t, err)
	assert.Nil(t, row, "la fila destino creada en la transacción se deshace")
}

func TestTransfer_SinFilaOrigenEsStockInsuficiente(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.uc.Transfer(context.Background(), "user-1", dto.TransferRequest{
		ItemID: f.item.ID, FromLocationID: f.from.ID, ToLocationID: f.to.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestTransfer_MismaUbicacion(t *testing.T) {
	f := newFixture(t, 10)
	_, err := f.uc.Transfer(context.Background(), "user-1", dto.TransferRequest{
		ItemID: f.item.ID, FromLocationID: f.from.ID, ToLocationID: f.from.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrSameLocation)
}

func TestTransfer_CantidadInvalida(t *testing.T) {
	f := newFixture(t, 10)
	_, err := f.uc.Transfer(context.Background(), "user-1", dto.TransferRequest{
		ItemID: f.item.ID, FromLocationID: f.from.ID, ToLocationID: f.to.ID, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_UbicacionInactiva(t *testing.T) {
	f := newFixture(t, 10)
	f.to.Status = entity.StatusInactive
	require.NoError(t, f.store.Locations().Update(context.Background(), f.to))

	_, err := f.uc.Transfer(context.Background(), "user-1", dto.TransferRequest{
		ItemID: f.item.ID, FromLocationID: f.from.ID, ToLocationID: f.to.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 10, f.qty(t, f.from.ID))
}

func TestTransfer_ConcurrentesNoSobregiran(t *testing.T) {
	f := newFixture(t, 10)
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Transfer(context.Background(), "user-1", dto.TransferRequest{
				ItemID: f.item.ID, FromLocationID: f.from.ID, ToLocationID: f.to.ID, Quantity: 3,
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 1, f.qty(t, f.from.ID))
	assert.Equal(t, 9, f.qty(t, f.to.ID))
}
