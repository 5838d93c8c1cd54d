package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ItemRepository puerto de persistencia del catálogo de inventario.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error)
	List(ctx context.Context, f ItemFilter) ([]*entity.Item, int, error)
	LowStock(ctx context.Context) ([]*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	UpdateQuantity(ctx context.Context, id string, qty int, at time.Time) error
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal, at time.Time) error
	SetBarcode(ctx context.Context, id, barcode string, at time.Time) error
	// CountWithBarcodePrefix usado para la secuencia de EAN-13 internos.
	CountWithBarcodePrefix(ctx context.Context, prefix string) (int, error)
}

// StockAdjustmentRepository auditoría de ajustes manuales.
type StockAdjustmentRepository interface {
	Create(ctx context.Context, a *entity.StockAdjustment) error
	ListByItem(ctx context.Context, itemID string, limit int) ([]*entity.StockAdjustment, error)
}

// CategoryRepository categorías de ítems.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
}

// SupplierRepository proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context) ([]*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
}
