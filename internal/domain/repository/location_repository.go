package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// LocationRepository puerto de persistencia de sucursales/ubicaciones.
type LocationRepository interface {
	Create(ctx context.Context, l *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	List(ctx context.Context, status string) ([]*entity.Location, error)
	Update(ctx context.Context, l *entity.Location) error
}

// LocationStockRepository stock por (ubicación, ítem).
type LocationStockRepository interface {
	Get(ctx context.Context, locationID, itemID string) (*entity.LocationStock, error)
	// GetForUpdate bloquea la fila origen de un traslado o venta.
	GetForUpdate(ctx context.Context, locationID, itemID string) (*entity.LocationStock, error)
	Upsert(ctx context.Context, s *entity.LocationStock) error
	ListByLocation(ctx context.Context, locationID string) ([]*entity.LocationStock, error)
}

// TransferRepository historial inmutable de traslados.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.InventoryTransfer) error
	GetByID(ctx context.Context, id string) (*entity.InventoryTransfer, error)
	List(ctx context.Context, f TransferFilter) ([]*entity.InventoryTransfer, int, error)
}
