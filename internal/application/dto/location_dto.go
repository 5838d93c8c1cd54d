package dto

import "time"

// CreateLocationRequest alta de ubicación.
type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"omitempty,max=255"`
	City    string `json:"city" validate:"omitempty,max=100"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	IsMain  bool   `json:"is_main"`
}

// UpdateLocationRequest actualización parcial.
type UpdateLocationRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	City    *string `json:"city" validate:"omitempty,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	IsMain  *bool   `json:"is_main"`
	Status  *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsMain    bool      `json:"is_main"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetLocationStockRequest fija el stock de un ítem en una ubicación.
type SetLocationStockRequest struct {
	Quantity    *int `json:"quantity" validate:"required,gte=0"`
	MinQuantity *int `json:"min_quantity" validate:"omitempty,gte=0"`
}

// LocationStockResponse fila de stock por ubicación.
type LocationStockResponse struct {
	LocationID  string    `json:"location_id"`
	ItemID      string    `json:"item_id"`
	SKU         string    `json:"sku,omitempty"`
	Name        string    `json:"name,omitempty"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	LowStock    bool      `json:"low_stock"`
	UpdatedAt   time.Time `json:"updated_at"`
}
