package mysql

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

// ItemRepo tabla inventory.
type ItemRepo struct {
	q Querier
}

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

func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	const query = `
		INSERT INTO inventory (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		it.ID, it.SKU, it.Barcode, it.Name, it.Description, it.CategoryID, it.SupplierID, it.TaxRateID,
		it.Price, it.Cost, it.Quantity, it.MinQuantity, it.Unit, it.Status, it.CreatedAt, it.UpdatedAt,
	)
	return writeErr("insert item", err)
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return getOne(ctx, r.q, "get item", scanItem, `SELECT `+itemColumns+` FROM inventory WHERE id = ?`, id)
}

func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return getOne(ctx, r.q, "get item for update", scanItem, `SELECT `+itemColumns+` FROM inventory WHERE id = ? FOR UPDATE`, id)
}

func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return getOne(ctx, r.q, "get item by sku", scanItem, `SELECT `+itemColumns+` FROM inventory WHERE sku = ?`, sku)
}

func (r *ItemRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error) {
	return getOne(ctx, r.q, "get item by barcode", scanItem, `SELECT `+itemColumns+` FROM inventory WHERE barcode = ?`, barcode)
}

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

func (r *ItemRepo) LowStock(ctx context.Context) ([]*entity.Item, error) {
	return getMany(ctx, r.q, "low stock", scanItem,
		`SELECT `+itemColumns+` FROM inventory WHERE status = ? AND quantity <= min_quantity ORDER BY quantity, name`,
		entity.StatusActive)
}

// Update no toca quantity.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	const query = `
		UPDATE inventory SET sku = ?, barcode = ?, name = ?, description = ?, category_id = ?,
			supplier_id = ?, tax_rate_id = ?, price = ?, cost = ?, min_quantity = ?, unit = ?,
			status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query,
		it.SKU, it.Barcode, it.Name, it.Description, it.CategoryID, it.SupplierID, it.TaxRateID,
		it.Price, it.Cost, it.MinQuantity, it.Unit, it.Status, it.UpdatedAt, it.ID,
	)
	return mustAffect("update item", res, err)
}

func (r *ItemRepo) UpdateQuantity(ctx context.Context, id string, qty int, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE inventory SET quantity = ?, updated_at = ? WHERE id = ?`, qty, at, id)
	return mustAffect("update item quantity", res, err)
}

func (r *ItemRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE inventory SET cost = ?, updated_at = ? WHERE id = ?`, cost, at, id)
	return mustAffect("update item cost", res, err)
}

func (r *ItemRepo) SetBarcode(ctx context.Context, id, barcode string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE inventory SET barcode = ?, updated_at = ? WHERE id = ?`, barcode, at, id)
	return mustAffect("set barcode", res, err)
}

func (r *ItemRepo) CountWithBarcodePrefix(ctx context.Context, prefix string) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory WHERE barcode LIKE ?`, prefix+"%").Scan(&n); err != nil {
		return 0, fmt.Errorf("count barcodes: %w", err)
	}
	return n, nil
}

// StockAdjustmentRepo auditoría de ajustes.
type StockAdjustmentRepo struct {
	q Querier
}

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
	_, err := r.q.ExecContext(ctx, `INSERT INTO stock_adjustments (`+adjustmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ItemID, a.LocationID, a.Delta, a.PreviousQty, a.NewQty, a.Reason, a.UserID, a.CreatedAt)
	return writeErr("insert stock adjustment", err)
}

func (r *StockAdjustmentRepo) ListByItem(ctx context.Context, itemID string, limit int) ([]*entity.StockAdjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	return getMany(ctx, r.q, "list adjustments", scanAdjustment,
		`SELECT `+adjustmentColumns+` FROM stock_adjustments WHERE item_id = ? ORDER BY created_at DESC LIMIT ?`, itemID, limit)
}

type CategoryRepo struct {
	q Querier
}

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
	_, err := r.q.ExecContext(ctx, `INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.Status, c.CreatedAt, c.UpdatedAt)
	return writeErr("insert category", err)
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return getOne(ctx, r.q, "get category", scanCategory, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	return getMany(ctx, r.q, "list categories", scanCategory, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	res, err := r.q.ExecContext(ctx, `UPDATE categories SET name = ?, description = ?, status = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Description, c.Status, c.UpdatedAt, c.ID)
	return mustAffect("update category", res, err)
}

type SupplierRepo struct {
	q Querier
}

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
	_, err := r.q.ExecContext(ctx, `INSERT INTO suppliers (`+supplierColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.ContactName, s.Email, s.Phone, s.Address, s.Status, s.CreatedAt, s.UpdatedAt)
	return writeErr("insert supplier", err)
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return getOne(ctx, r.q, "get supplier", scanSupplier, `SELECT `+supplierColumns+` FROM suppliers WHERE id = ?`, id)
}

func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	return getMany(ctx, r.q, "list suppliers", scanSupplier, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	const query = `
		UPDATE suppliers SET name = ?, contact_name = ?, email = ?, phone = ?, address = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query, s.Name, s.ContactName, s.Email, s.Phone, s.Address, s.Status, s.UpdatedAt, s.ID)
	return mustAffect("update supplier", res, err)
}
