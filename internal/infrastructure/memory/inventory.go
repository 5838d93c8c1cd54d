package memory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// LocationRepo implementa repository.LocationRepository.
type LocationRepo struct{ s *Store }

// Locations repositorio de ubicaciones.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s: s} }

var _ repository.LocationRepository = (*LocationRepo)(nil)

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	defer r.s.writeLock()()
	put(r.s, r.s.d.locations, l.ID, *l)
	return nil
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	defer r.s.lock()()
	l, ok := r.s.d.locations.get(id)
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *LocationRepo) List(_ context.Context, status string) ([]*entity.Location, error) {
	defer r.s.lock()()
	var rows []entity.Location
	for _, l := range r.s.d.locations.oldest() {
		if status == "" || l.Status == status {
			rows = append(rows, l)
		}
	}
	sortBy(rows, func(a, b entity.Location) bool { return a.IsMain && !b.IsMain })
	return ptrs(rows), nil
}

func (r *LocationRepo) Update(_ context.Context, l *entity.Location) error {
	defer r.s.writeLock()()
	old, ok := r.s.d.locations.get(l.ID)
	if !ok {
		return notFound("location")
	}
	next := *l
	next.CreatedAt = old.CreatedAt
	put(r.s, r.s.d.locations, l.ID, next)
	return nil
}

// StockRepo implementa repository.LocationStockRepository.
type StockRepo struct{ s *Store }

// Stock repositorio de stock por ubicación.
func (s *Store) Stock() *StockRepo { return &StockRepo{s: s} }

var _ repository.LocationStockRepository = (*StockRepo)(nil)

func stockKey(locationID, itemID string) string { return locationID + "|" + itemID }

func (r *StockRepo) Get(_ context.Context, locationID, itemID string) (*entity.LocationStock, error) {
	defer r.s.lock()()
	row, ok := r.s.d.stock.get(stockKey(locationID, itemID))
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, locationID, itemID string) (*entity.LocationStock, error) {
	return r.Get(ctx, locationID, itemID)
}

func (r *StockRepo) Upsert(_ context.Context, row *entity.LocationStock) error {
	defer r.s.writeLock()()
	if _, ok := r.s.d.locations.get(row.LocationID); !ok {
		return notFound("location")
	}
	if _, ok := r.s.d.items.get(row.ItemID); !ok {
		return notFound("item")
	}
	next := *row
	next.ItemSKU, next.ItemName = "", ""
	put(r.s, r.s.d.stock, stockKey(row.LocationID, row.ItemID), next)
	return nil
}

func (r *StockRepo) ListByLocation(_ context.Context, locationID string) ([]*entity.LocationStock, error) {
	defer r.s.lock()()
	var rows []entity.LocationStock
	for _, row := range r.s.d.stock.oldest() {
		if row.LocationID != locationID {
			continue
		}
		if it, ok := r.s.d.items.get(row.ItemID); ok {
			row.ItemSKU, row.ItemName = it.SKU, it.Name
		}
		rows = append(rows, row)
	}
	sortBy(rows, func(a, b entity.LocationStock) bool { return a.ItemName < b.ItemName })
	return ptrs(rows), nil
}

// TransferRepo implementa repository.TransferRepository.
type TransferRepo struct{ s *Store }

// Transfers repositorio de traslados.
func (s *Store) Transfers() *TransferRepo { return &TransferRepo{s: s} }

var _ repository.TransferRepository = (*TransferRepo)(nil)

func (r *TransferRepo) Create(_ context.Context, t *entity.InventoryTransfer) error {
	defer r.s.writeLock()()
	put(r.s, r.s.d.transfers, t.ID, *t)
	return nil
}

func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.InventoryTransfer, error) {
	defer r.s.lock()()
	t, ok := r.s.d.transfers.get(id)
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.InventoryTransfer, int, error) {
	defer r.s.lock()()
	var rows []entity.InventoryTransfer
	for _, t := range r.s.d.transfers.newest() {
		if f.ItemID != "" && t.ItemID != f.ItemID {
			continue
		}
		if f.LocationID != "" && t.FromLocationID != f.LocationID && t.ToLocationID != f.LocationID {
			continue
		}
		rows = append(rows, t)
	}
	page, total := paginate(rows, f.Page)
	return ptrs(page), total, nil
}

// ItemRepo implementa repository.ItemRepository.
type ItemRepo struct{ s *Store }

// Items repositorio de ítems.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

var _ repository.ItemRepository = (*ItemRepo)(nil)

func (r *ItemRepo) unique(it *entity.Item) error {
	for _, o := range r.s.d.items.rows {
		if o.ID == it.ID {
			continue
		}
		if strings.EqualFold(o.SKU, it.SKU) {
			return duplicate("sku")
		}
		if it.Barcode != nil && o.Barcode != nil && *o.Barcode == *it.Barcode {
			return duplicate("barcode")
		}
	}
	return nil
}

func (r *ItemRepo) Create(_ context.Context, it *entity.Item) error {
	defer r.s.writeLock()()
	if err := r.unique(it); err != nil {
		return err
	}
	put(r.s, r.s.d.items, it.ID, *it)
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	defer r.s.lock()()
	it, ok := r.s.d.items.get(id)
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) find(match func(entity.Item) bool) *entity.Item {
	for _, it := range r.s.d.items.rows {
		if match(it) {
			return ptr(it)
		}
	}
	return nil
}

func (r *ItemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	defer r.s.lock()()
	return r.find(func(it entity.Item) bool { return strings.EqualFold(it.SKU, sku) }), nil
}

func (r *ItemRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Item, error) {
	defer r.s.lock()()
	return r.find(func(it entity.Item) bool { return it.Barcode != nil && *it.Barcode == barcode }), nil
}

func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	defer r.s.lock()()
	var rows []entity.Item
	for _, it := range r.s.d.items.oldest() {
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if f.CategoryID != "" && (it.CategoryID == nil || *it.CategoryID != f.CategoryID) {
			continue
		}
		if f.LowStock && !it.IsLowStock() {
			continue
		}
		barcode := ""
		if it.Barcode != nil {
			barcode = *it.Barcode
		}
		if !contains(f.Search, it.Name, it.SKU, barcode) {
			continue
		}
		rows = append(rows, it)
	}
	sortBy(rows, func(a, b entity.Item) bool { return a.Name < b.Name })
	page, total := paginate(rows, f.Page)
	return ptrs(page), total, nil
}

func (r *ItemRepo) LowStock(_ context.Context) ([]*entity.Item, error) {
	defer r.s.lock()()
	var rows []entity.Item
	for _, it := range r.s.d.items.oldest() {
		if it.Status == entity.StatusActive && it.IsLowStock() {
			rows = append(rows, it)
		}
	}
	sortBy(rows, func(a, b entity.Item) bool { return a.Quantity < b.Quantity })
	return ptrs(rows), nil
}

// Update no toca la cantidad; el stock solo cambia con UpdateQuantity.
func (r *ItemRepo) Update(_ context.Context, it *entity.Item) error {
	defer r.s.writeLock()()
	old, ok := r.s.d.items.get(it.ID)
	if !ok {
		return notFound("item")
	}
	if err := r.unique(it); err != nil {
		return err
	}
	next := *it
	next.Quantity = old.Quantity
	next.CreatedAt = old.CreatedAt
	put(r.s, r.s.d.items, it.ID, next)
	return nil
}

func (r *ItemRepo) mutate(id string, fn func(*entity.Item)) error {
	defer r.s.writeLock()()
	it, ok := r.s.d.items.get(id)
	if !ok {
		return notFound("item")
	}
	fn(&it)
	if err := r.unique(&it); err != nil {
		return err
	}
	put(r.s, r.s.d.items, id, it)
	return nil
}

func (r *ItemRepo) UpdateQuantity(_ context.Context, id string, qty int, at time.Time) error {
	return r.mutate(id, func(it *entity.Item) { it.Quantity, it.UpdatedAt = qty, at })
}

func (r *ItemRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal, at time.Time) error {
	return r.mutate(id, func(it *entity.Item) { it.Cost, it.UpdatedAt = cost, at })
}

func (r *ItemRepo) SetBarcode(_ context.Context, id, barcode string, at time.Time) error {
	return r.mutate(id, func(it *entity.Item) { it.Barcode, it.UpdatedAt = ptr(barcode), at })
}

func (r *ItemRepo) CountWithBarcodePrefix(_ context.Context, prefix string) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, it := range r.s.d.items.rows {
		if it.Barcode != nil && strings.HasPrefix(*it.Barcode, prefix) {
			n++
		}
	}
	return n, nil
}

// AdjustmentRepo implementa repository.StockAdjustmentRepository.
type AdjustmentRepo struct{ s *Store }

// Adjustments repositorio de ajustes de stock.
func (s *Store) Adjustments() *AdjustmentRepo { return &AdjustmentRepo{s: s} }

var _ repository.StockAdjustmentRepository = (*AdjustmentRepo)(nil)

func (r *AdjustmentRepo) Create(_ context.Context, a *entity.StockAdjustment) error {
	defer r.s.writeLock()()
	put(r.s, r.s.d.adjustments, a.ID, *a)
	return nil
}

func (r *AdjustmentRepo) ListByItem(_ context.Context, itemID string, limit int) ([]*entity.StockAdjustment, error) {
	defer r.s.lock()()
	var rows []entity.StockAdjustment
	for _, a := range r.s.d.adjustments.newest() {
		if a.ItemID == itemID {
			rows = append(rows, a)
		}
	}
	page, _ := paginate(rows, repository.Page{Limit: limit})
	return ptrs(page), nil
}

// CategoryRepo implementa repository.CategoryRepository.
type CategoryRepo struct{ s *Store }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) unique(c *entity.Category) error {
	for _, o := range r.s.d.categories.rows {
		if o.ID != c.ID && strings.EqualFold(o.Name, c.Name) {
			return duplicate("category name")
		}
	}
	return nil
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	defer r.s.writeLock()()
	if err := r.unique(c); err != nil {
		return err
	}
	put(r.s, r.s.d.categories, c.ID, *c)
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	defer r.s.lock()()
	c, ok := r.s.d.categories.get(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	defer r.s.lock()()
	rows := r.s.d.categories.oldest()
	sortBy(rows, func(a, b entity.Category) bool { return a.Name < b.Name })
	return ptrs(rows), nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	defer r.s.writeLock()()
	if _, ok := r.s.d.categories.get(c.ID); !ok {
		return notFound("category")
	}
	if err := r.unique(c); err != nil {
		return err
	}
	put(r.s, r.s.d.categories, c.ID, *c)
	return nil
}

// SupplierRepo implementa repository.SupplierRepository.
type SupplierRepo struct{ s *Store }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	defer r.s.writeLock()()
	put(r.s, r.s.d.suppliers, sp.ID, *sp)
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	defer r.s.lock()()
	sp, ok := r.s.d.suppliers.get(id)
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	defer r.s.lock()()
	rows := r.s.d.suppliers.oldest()
	sortBy(rows, func(a, b entity.Supplier) bool { return a.Name < b.Name })
	return ptrs(rows), nil
}

func (r *SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	defer r.s.writeLock()()
	if _, ok := r.s.d.suppliers.get(sp.ID); !ok {
		return notFound("supplier")
	}
	put(r.s, r.s.d.suppliers, sp.ID, *sp)
	return nil
}
