package entity

import "time"

// Location tienda o bodega física con su propio stock.
type Location struct {
	ID        string
	Name      string
	Address   string
	City      string
	Phone     string
	IsMain    bool
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LocationStock fila de location_inventory: cantidad de un ítem en una ubicación.
// ItemSKU e ItemName solo se llenan en consultas de listado.
type LocationStock struct {
	LocationID  string
	ItemID      string
	Quantity    int
	MinQuantity int
	UpdatedAt   time.Time

	ItemSKU  string
	ItemName string
}

// InventoryTransfer registro inmutable de un traslado entre ubicaciones.
type InventoryTransfer struct {
	ID             string
	ItemID         string
	FromLocationID string
	ToLocationID   string
	Quantity       int
	Notes          string
	TransferredBy  string
	CreatedAt      time.Time
}
