package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest alta de ítem de inventario.
type CreateItemRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Barcode     string          `json:"barcode" validate:"omitempty,max=64"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id" validate:"omitempty,uuid"`
	SupplierID  string          `json:"supplier_id" validate:"omitempty,uuid"`
	TaxRateID   string          `json:"tax_rate_id" validate:"omitempty,uuid"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Cost        decimal.Decimal `json:"cost" validate:"gte=0"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	MinQuantity int             `json:"min_quantity" validate:"gte=0"`
	Unit        string          `json:"unit" validate:"omitempty,max=20"`
}

// UpdateItemRequest actualización parcial (la cantidad solo cambia por ajuste, venta o traslado).
type UpdateItemRequest struct {
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Barcode     *string          `json:"barcode" validate:"omitempty,max=64"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	SupplierID  *string          `json:"supplier_id" validate:"omitempty,uuid"`
	TaxRateID   *string          `json:"tax_rate_id" validate:"omitempty,uuid"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	MinQuantity *int             `json:"min_quantity" validate:"omitempty,gte=0"`
	Unit        *string          `json:"unit" validate:"omitempty,max=20"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ItemListQuery filtros de GET /api/inventory.
type ItemListQuery struct {
	Search     string `query:"search"`
	CategoryID string `query:"category_id"`
	Status     string `query:"status" validate:"omitempty,oneof=active inactive"`
	LowStock   bool   `query:"low_stock"`
	PageRequest
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Barcode     *string         `json:"barcode,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  *string         `json:"category_id,omitempty"`
	SupplierID  *string         `json:"supplier_id,omitempty"`
	TaxRateID   *string         `json:"tax_rate_id,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	Unit        string          `json:"unit"`
	Status      string          `json:"status"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AdjustStockRequest ajuste manual. Quantity es un delta (+ entrada, - salida).
// UnitCost opcional en entradas recalcula el costo promedio.
type AdjustStockRequest struct {
	Quantity   int              `json:"quantity" validate:"required,ne=0"`
	Reason     string           `json:"reason" validate:"required,max=255"`
	LocationID string           `json:"location_id" validate:"omitempty,uuid"`
	UnitCost   *decimal.Decimal `json:"unit_cost"`
}

// AdjustmentResponse resultado del ajuste.
type AdjustmentResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	LocationID  *string   `json:"location_id,omitempty"`
	Requested   int       `json:"requested"`
	Applied     int       `json:"applied"`
	PreviousQty int       `json:"previous_quantity"`
	NewQty      int       `json:"new_quantity"`
	Reason      string    `json:"reason"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryRequest alta/edición de categoría.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CategoryResponse salida de categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SupplierRequest alta/edición de proveedor.
type SupplierRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	ContactName string `json:"contact_name" validate:"omitempty,max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Address     string `json:"address" validate:"omitempty,max=255"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// SupplierResponse salida de proveedor.
type SupplierResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TransferRequest traslado de stock entre ubicaciones.
type TransferRequest struct {
	ItemID         string `json:"item_id" validate:"required,uuid"`
	FromLocationID string `json:"from_location_id" validate:"required,uuid"`
	ToLocationID   string `json:"to_location_id" validate:"required,uuid"`
	Quantity       int    `json:"quantity" validate:"gt=0"`
	Notes          string `json:"notes" validate:"omitempty,max=500"`
}

// TransferListQuery filtros del historial.
type TransferListQuery struct {
	ItemID     string `query:"item_id"`
	LocationID string `query:"location_id"`
	PageRequest
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"item_id"`
	FromLocationID string    `json:"from_location_id"`
	ToLocationID   string    `json:"to_location_id"`
	Quantity       int       `json:"quantity"`
	Notes          string    `json:"notes,omitempty"`
	TransferredBy  string    `json:"transferred_by"`
	CreatedAt      time.Time `json:"created_at"`
}
