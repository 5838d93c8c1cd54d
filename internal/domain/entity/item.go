package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item producto del inventario. Quantity es el stock global; el stock por tienda vive en LocationStock.
type Item struct {
	ID          string
	SKU         string  // único
	Barcode     *string // único si existe
	Name        string
	Description string
	CategoryID  *string
	SupplierID  *string
	TaxRateID   *string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Quantity    int
	MinQuantity int
	Unit        string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el stock global está en o por debajo del mínimo.
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// SubtractFloor resta n sin bajar de cero y devuelve la cantidad efectivamente descontada.
func SubtractFloor(current, n int) (newQty, removed int) {
	if n >= current {
		return 0, current
	}
	return current - n, n
}

// StockAdjustment auditoría de un ajuste manual de stock.
type StockAdjustment struct {
	ID          string
	ItemID      string
	LocationID  *string
	Delta       int
	PreviousQty int
	NewQty      int
	Reason      string
	UserID      string
	CreatedAt   time.Time
}

// Category clasificación de ítems.
type Category struct {
	ID          string
	Name        string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Supplier proveedor de ítems.
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
