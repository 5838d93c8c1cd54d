// Package memory implementa todos los puertos de persistencia en memoria.
// Se usa con DB_DRIVER=memory para desarrollo local y como doble de prueba de los casos de uso.
// Las transacciones se serializan; al fallar se deshacen solo sus propias escrituras.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// table filas por id conservando el orden de inserción.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[string]T{}}
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) del(id string) {
	if _, ok := t.rows[id]; !ok {
		return
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// newest filas del más reciente al más antiguo.
func (t *table[T]) newest() []T {
	out := make([]T, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		out = append(out, t.rows[t.order[i]])
	}
	return out
}

// oldest filas en orden de inserción.
func (t *table[T]) oldest() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

// restore devuelve la fila a su estado previo: had=false la elimina.
func (t *table[T]) restore(id string, v T, had bool, pos int) {
	if !had {
		t.del(id)
		return
	}
	if _, ok := t.rows[id]; !ok {
		if pos > len(t.order) {
			pos = len(t.order)
		}
		t.order = append(t.order, "")
		copy(t.order[pos+1:], t.order[pos:])
		t.order[pos] = id
	}
	t.rows[id] = v
}

func (t *table[T]) position(id string) int {
	for i, o := range t.order {
		if o == id {
			return i
		}
	}
	return len(t.order)
}

type data struct {
	users       *table[entity.User]
	sessions    *table[entity.Session]
	customers   *table[entity.Customer]
	partners    *table[entity.Partner]
	investments *table[entity.Investment]
	locations   *table[entity.Location]
	stock       *table[entity.LocationStock]
	transfers   *table[entity.InventoryTransfer]
	items       *table[entity.Item]
	adjustments *table[entity.StockAdjustment]
	categories  *table[entity.Category]
	suppliers   *table[entity.Supplier]
	sales       *table[entity.Sale]
	payments    *table[entity.Payment]
	refunds     *table[entity.Refund]
	taxRates    *table[entity.TaxRate]
	methods     *table[entity.PaymentMethod]
	settings    *table[entity.Setting]
	messages    *table[entity.MessageLog]
	timeEntries *table[entity.TimeEntry]
}

func newData() *data {
	return &data{
		users:       newTable[entity.User](),
		sessions:    newTable[entity.Session](),
		customers:   newTable[entity.Customer](),
		partners:    newTable[entity.Partner](),
		investments: newTable[entity.Investment](),
		locations:   newTable[entity.Location](),
		stock:       newTable[entity.LocationStock](),
		transfers:   newTable[entity.InventoryTransfer](),
		items:       newTable[entity.Item](),
		adjustments: newTable[entity.StockAdjustment](),
		categories:  newTable[entity.Category](),
		suppliers:   newTable[entity.Supplier](),
		sales:       newTable[entity.Sale](),
		payments:    newTable[entity.Payment](),
		refunds:     newTable[entity.Refund](),
		taxRates:    newTable[entity.TaxRate](),
		methods:     newTable[entity.PaymentMethod](),
		settings:    newTable[entity.Setting](),
		messages:    newTable[entity.MessageLog](),
		timeEntries: newTable[entity.TimeEntry](),
	}
}

type state struct {
	mu   sync.Mutex // protege d
	txMu sync.Mutex // serializa transacciones frente a otras escrituras
	d    *data
}

// undoLog imágenes previas de las filas escritas dentro de una transacción.
type undoLog struct {
	steps []func()
}

// Store estado compartido por todos los repositorios en memoria.
// Con undo != nil es la vista de una transacción abierta.
type Store struct {
	*state
	undo *undoLog
}

// New crea un store vacío.
func New() *Store {
	return &Store{state: &state{d: newData()}}
}

// run ejecuta fn como transacción sobre una vista propia; si devuelve error
// se deshacen en orden inverso las escrituras hechas por esa vista.
func (s *Store) run(fn func(tx *Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &Store{state: s.state, undo: &undoLog{}}
	if err := fn(tx); err != nil {
		s.mu.Lock()
		for i := len(tx.undo.steps) - 1; i >= 0; i-- {
			tx.undo.steps[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// put escribe la fila y, dentro de una transacción, guarda cómo deshacerlo.
// Se llama con mu tomado.
func put[T any](s *Store, t *table[T], id string, v T) {
	if s.undo != nil {
		prev, had := t.rows[id]
		pos := t.position(id)
		s.undo.steps = append(s.undo.steps, func() { t.restore(id, prev, had, pos) })
	}
	t.put(id, v)
}

func del[T any](s *Store, t *table[T], id string) {
	prev, had := t.rows[id]
	if !had {
		return
	}
	if s.undo != nil {
		pos := t.position(id)
		s.undo.steps = append(s.undo.steps, func() { t.restore(id, prev, true, pos) })
	}
	t.del(id)
}

// RunTransfer implementa inventory.TxRunner.
func (s *Store) RunTransfer(_ context.Context, fn func(repository.LocationStockRepository, repository.TransferRepository) error) error {
	return s.run(func(tx *Store) error { return fn(tx.Stock(), tx.Transfers()) })
}

// RunAdjustment implementa inventory.TxRunner.
func (s *Store) RunAdjustment(_ context.Context, fn func(repository.ItemRepository, repository.LocationStockRepository, repository.StockAdjustmentRepository) error) error {
	return s.run(func(tx *Store) error { return fn(tx.Items(), tx.Stock(), tx.Adjustments()) })
}

// RunSale implementa billing.BillingTxRunner.
func (s *Store) RunSale(_ context.Context, fn func(r billing.SaleTxRepos) error) error {
	return s.run(func(tx *Store) error {
		return fn(billing.SaleTxRepos{
			Items:     tx.Items(),
			Stock:     tx.Stock(),
			Customers: tx.Customers(),
			Sales:     tx.Sales(),
			Payments:  tx.Payments(),
		})
	})
}

// RunPayment implementa billing.BillingTxRunner.
func (s *Store) RunPayment(_ context.Context, fn func(repository.SaleRepository, repository.PaymentRepository, repository.RefundRepository) error) error {
	return s.run(func(tx *Store) error { return fn(tx.Sales(), tx.Payments(), tx.Refunds()) })
}

var (
	_ inventory.TxRunner      = (*Store)(nil)
	_ billing.BillingTxRunner = (*Store)(nil)
)

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// writeLock fuera de una transacción espera a que termine la que esté abierta.
func (s *Store) writeLock() func() {
	if s.undo != nil {
		return s.lock()
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

func duplicate(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrDuplicate)
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
}

// paginate aplica limit/offset y devuelve el total antes de paginar.
func paginate[T any](rows []T, p repository.Page) ([]T, int) {
	total := len(rows)
	if p.Offset >= total {
		return []T{}, total
	}
	rows = rows[p.Offset:]
	if p.Limit > 0 && p.Limit < len(rows) {
		rows = rows[:p.Limit]
	}
	return rows, total
}

func ptr[T any](v T) *T { return &v }

func ptrs[T any](rows []T) []*T {
	out := make([]*T, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out
}

func contains(needle string, fields ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func sortBy[T any](rows []T, less func(a, b T) bool) {
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}
