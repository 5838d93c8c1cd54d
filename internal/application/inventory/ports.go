package inventory

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para traslados y ajustes de stock.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		stockRepo repository.LocationStockRepository,
		transferRepo repository.TransferRepository,
	) error) error
	RunAdjustment(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		stockRepo repository.LocationStockRepository,
		adjustmentRepo repository.StockAdjustmentRepository,
	) error) error
}
