package mysql

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.LocationRepository      = (*LocationRepo)(nil)
	_ repository.LocationStockRepository = (*LocationStockRepo)(nil)
	_ repository.TransferRepository      = (*TransferRepo)(nil)
)

const locationColumns = `id, name, address, city, phone, is_main, status, created_at, updated_at`

type LocationRepo struct {
	q Querier
}

func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func scanLocation(row scanner) (*entity.Location, error) {
	var l entity.Location
	err := row.Scan(&l.ID, &l.Name, &l.Address, &l.City, &l.Phone, &l.IsMain, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	return &l, err
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO locations (`+locationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Address, l.City, l.Phone, l.IsMain, l.Status, l.CreatedAt, l.UpdatedAt)
	return writeErr("insert location", err)
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return getOne(ctx, r.q, "get location", scanLocation, `SELECT `+locationColumns+` FROM locations WHERE id = ?`, id)
}

func (r *LocationRepo) List(ctx context.Context, status string) ([]*entity.Location, error) {
	w := &where{}
	if status != "" {
		w.and("status = " + w.arg(status))
	}
	return getMany(ctx, r.q, "list locations", scanLocation,
		`SELECT `+locationColumns+` FROM locations`+w.sql()+` ORDER BY is_main DESC, created_at`, w.args...)
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	const query = `
		UPDATE locations SET name = ?, address = ?, city = ?, phone = ?, is_main = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query, l.Name, l.Address, l.City, l.Phone, l.IsMain, l.Status, l.UpdatedAt, l.ID)
	return mustAffect("update location", res, err)
}

// LocationStockRepo filas de location_inventory.
type LocationStockRepo struct {
	q Querier
}

func NewLocationStockRepository(q Querier) *LocationStockRepo {
	return &LocationStockRepo{q: q}
}

const stockColumns = `location_id, item_id, quantity, min_quantity, updated_at`

func scanStock(row scanner) (*entity.LocationStock, error) {
	var s entity.LocationStock
	err := row.Scan(&s.LocationID, &s.ItemID, &s.Quantity, &s.MinQuantity, &s.UpdatedAt)
	return &s, err
}

func (r *LocationStockRepo) Get(ctx context.Context, locationID, itemID string) (*entity.LocationStock, error) {
	return getOne(ctx, r.q, "get location stock", scanStock,
		`SELECT `+stockColumns+` FROM location_inventory WHERE location_id = ? AND item_id = ?`, locationID, itemID)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *LocationStockRepo) GetForUpdate(ctx context.Context, locationID, itemID string) (*entity.LocationStock, error) {
	return getOne(ctx, r.q, "get location stock for update", scanStock,
		`SELECT `+stockColumns+` FROM location_inventory WHERE location_id = ? AND item_id = ? FOR UPDATE`, locationID, itemID)
}

// Upsert sobre la clave primaria (location_id, item_id).
func (r *LocationStockRepo) Upsert(ctx context.Context, s *entity.LocationStock) error {
	const query = `
		INSERT INTO location_inventory (` + stockColumns + `)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = VALUES(quantity), min_quantity = VALUES(min_quantity), updated_at = VALUES(updated_at)`
	_, err := r.q.ExecContext(ctx, query, s.LocationID, s.ItemID, s.Quantity, s.MinQuantity, s.UpdatedAt)
	return writeErr("upsert location stock", err)
}

func (r *LocationStockRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.LocationStock, error) {
	const query = `
		SELECT li.location_id, li.item_id, li.quantity, li.min_quantity, li.updated_at, i.sku, i.name
		FROM location_inventory li
		JOIN inventory i ON i.id = li.item_id
		WHERE li.location_id = ?
		ORDER BY i.name`
	return getMany(ctx, r.q, "list location stock", func(row scanner) (*entity.LocationStock, error) {
		var s entity.LocationStock
		err := row.Scan(&s.LocationID, &s.ItemID, &s.Quantity, &s.MinQuantity, &s.UpdatedAt, &s.ItemSKU, &s.ItemName)
		return &s, err
	}, query, locationID)
}

type TransferRepo struct {
	q Querier
}

func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, item_id, from_location_id, to_location_id, quantity, notes, transferred_by, created_at`

func scanTransfer(row scanner) (*entity.InventoryTransfer, error) {
	var t entity.InventoryTransfer
	err := row.Scan(&t.ID, &t.ItemID, &t.FromLocationID, &t.ToLocationID, &t.Quantity, &t.Notes, &t.TransferredBy, &t.CreatedAt)
	return &t, err
}

func (r *TransferRepo) Create(ctx context.Context, t *entity.InventoryTransfer) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO inventory_transfers (`+transferColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ItemID, t.FromLocationID, t.ToLocationID, t.Quantity, t.Notes, t.TransferredBy, t.CreatedAt)
	return writeErr("insert transfer", err)
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.InventoryTransfer, error) {
	return getOne(ctx, r.q, "get transfer", scanTransfer, `SELECT `+transferColumns+` FROM inventory_transfers WHERE id = ?`, id)
}

// List LocationID coincide con origen o destino.
func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.InventoryTransfer, int, error) {
	w := &where{}
	if f.ItemID != "" {
		w.and("item_id = " + w.arg(f.ItemID))
	}
	if f.LocationID != "" {
		w.and("(from_location_id = " + w.arg(f.LocationID) + " OR to_location_id = " + w.arg(f.LocationID) + ")")
	}
	return list(ctx, r.q, "list transfers", "inventory_transfers", transferColumns, "created_at DESC", w, f.Page, scanTransfer)
}
