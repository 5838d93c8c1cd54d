package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository            = (*ItemRepo)(nil)
	_ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)
	_ repository.CategoryRepository        = (*CategoryRepo)(nil)
	_ repository.SupplierRepository        = (*SupplierRepo)(nil)
)

const itemColumns = `id, sku, barcode, name, description, category_id, supplier_id, tax_rate_id,
	price, cost, quantity, min_quantity, unit, status, created_at, updated_at`

// ItemRepo tabla inventory: catálogo y stock global.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row scanner) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.SKU, &it.Barcode, &it.Name, &it.Description, &it.CategoryID, &it.SupplierID, &it.TaxRateID,
		&it.Price, &it.Cost, &it.Quantity, &it.MinQuantity, &it.Unit, &it.Status, &it.CreatedAt, &it.UpdatedAt,
	)
	return &it, err
}

// Create inserta un ítem. SKU o código de barras repetido → domain.ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	const query = `
		INSERT INTO inventory (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.SKU, it.Barcode, it.Name, it.Description, it.CategoryID, it.SupplierID, it.TaxRateID,
		it.Price, it.Cost, it.Quantity, it.MinQuantity, it.Unit, it.Status, it.CreatedAt, it.UpdatedAt,
	)
	return writeErr("insert item", err)
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return getOne(ctx, r.q, "get item", scanItem, `SELECT `+itemColumns+` FROM inventory WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila; usar solo dentro de una tx.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return getOne(ctx, r.q, "get item for update", scanItem, `SELECT `+itemColumns+` FROM inventory WHERE id = $1 FOR UPDATE`, id)
}

func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return getOne(ctx, r.q, "get item by sku", scanItem, `SELECT `+itemColumns+` FROM inventory WHERE UPPER(sku) = UPPER($1)`, sku)
}

func (r *ItemRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error) {
	return getOne(ctx, r.q, "get item by barcode", scanItem, `SELECT `+itemColumns+` FROM inventory WHERE barcode = $1`, barcode)
}

// List ítems por nombre con filtros de texto, categoría, estado y stock bajo.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	w := &where{}
	if f.Status != "" {
		w.and("status = " + w.arg(f.Status))
	}
	if f.CategoryID != "" {
		w.and("category_id = " + w.arg(f.CategoryID))
	}
	if f.LowStock {
		w.and("quantity <= min_quantity")
	}
	w.like(f.Search, "name", "sku", "COALESCE(barcode, '')")
	return list(ctx, r.q, "list items", "inventory", itemColumns, "name", w, f.Page, scanItem)
}

// LowStock ítems activos en o bajo su mínimo, los más escasos primero.
func (r *ItemRepo) LowStock(ctx context.Context) ([]*entity.Item, error) {
	return getMany(ctx, r.q, "low stock", scanItem,
		`SELECT `+itemColumns+` FROM inventory WHERE status = $1 AND quantity <= min_quantity ORDER BY quantity, name`,
		entity.StatusActive)
}

// Update todo menos la cantidad: el stock solo cambia con UpdateQuantity.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	const query = `
		UPDATE inventory SET sku = $2, barcode = $3, name = $4, description = $5, category_id = $6,
			supplier_id = $7, tax_rate_id = $8, price = $9, cost = $10, min_quantity = $11, unit = $12,
			status = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		it.ID, it.SKU, it.Barcode, it.Name, it.Description, it.CategoryID, it.SupplierID, it.TaxRateID,
		it.Price, it.Cost, it.MinQuantity, it.Unit, it.Status, it.UpdatedAt,
	)
	return mustAffect("update item", tag, err)
}

func (r *ItemRepo) UpdateQuantity(ctx context.Context, id string, qty int, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory SET quantity = $2, updated_at = $3 WHERE id = $1`, id, qty, at)
	return mustAffect("update item quantity", tag, err)
}

func (r *ItemRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory SET cost = $2, updated_at = $3 WHERE id = $1`, id, cost, at)
	return mustAffect("update item cost", tag, err)
}

func (r *ItemRepo) SetBarcode(ctx context.Context, id, barcode string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory SET barcode = $2, updated_at = $3 WHERE id = $1`, id, barcode, at)
	return mustAffect("set barcode", tag, err)
}

func (r *ItemRepo) CountWithBarcodePrefix(ctx context.Context, prefix string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory WHERE barcode LIKE $1`, prefix+"%").Scan(&n); err != nil {
		return 0, fmt.Errorf("count barcodes: %w", err)
	}
	return n, nil
}

// StockAdjustmentRepo auditoría de ajustes manuales.
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador.
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

const adjustmentColumns = `id, item_id, location_id, delta, previous_qty, new_qty, reason, user_id, created_at`

func scanAdjustment(row scanner) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	err := row.Scan(&a.ID, &a.ItemID, &a.LocationID, &a.Delta, &a.PreviousQty, &a.NewQty, &a.Reason, &a.UserID, &a.CreatedAt)
	return &a, err
}

func (r *StockAdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	const query = `INSERT INTO stock_adjustments (` + adjustmentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, a.ID, a.ItemID, a.LocationID, a.Delta, a.PreviousQty, a.NewQty, a.Reason, a.UserID, a.CreatedAt)
	return writeErr("insert stock adjustment", err)
}

func (r *StockAdjustmentRepo) ListByItem(ctx context.Context, itemID string, limit int) ([]*entity.StockAdjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	return getMany(ctx, r.q, "list adjustments", scanAdjustment,
		`SELECT `+adjustmentColumns+` FROM stock_adjustments WHERE item_id = $1 ORDER BY created_at DESC LIMIT $2`, itemID, limit)
}

// CategoryRepo categorías de ítems.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, name, description, status, created_at, updated_at`

func scanCategory(row scanner) (*entity.Category, error) {
	var c entity.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `INSERT INTO categories (`+categoryColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Description, c.Status, c.CreatedAt, c.UpdatedAt)
	return writeErr("insert category", err)
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return getOne(ctx, r.q, "get category", scanCategory, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	return getMany(ctx, r.q, "list categories", scanCategory, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	tag, err := r.q.Exec(ctx, `UPDATE categories SET name = $2, description = $3, status = $4, updated_at = $5 WHERE id = $1`,
		c.ID, c.Name, c.Description, c.Status, c.UpdatedAt)
	return mustAffect("update category", tag, err)
}

// SupplierRepo proveedores.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, name, contact_name, email, phone, address, status, created_at, updated_at`

func scanSupplier(row scanner) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactName, &s.Email, &s.Phone, &s.Address, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `INSERT INTO suppliers (`+supplierColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Name, s.ContactName, s.Email, s.Phone, s.Address, s.Status, s.CreatedAt, s.UpdatedAt)
	return writeErr("insert supplier", err)
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return getOne(ctx, r.q, "get supplier", scanSupplier, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
}

func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	return getMany(ctx, r.q, "list suppliers", scanSupplier, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	const query = `
		UPDATE suppliers SET name = $2, contact_name = $3, email = $4, phone = $5, address = $6, status = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.ContactName, s.Email, s.Phone, s.Address, s.Status, s.UpdatedAt)
	return mustAffect("update supplier", tag, err)
}
