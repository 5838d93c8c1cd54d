package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// TransferUseCase traslada stock entre ubicaciones de forma transaccional
// con bloqueo de la fila origen (SELECT FOR UPDATE) y Commit/Rollback.
type TransferUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	transferRepo repository.TransferRepository
	events       ports.EventPublisher
	log          *logger.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	transferRepo repository.TransferRepository,
	events ports.EventPublisher,
	log *logger.Logger,
) *TransferUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &TransferUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		transferRepo: transferRepo,
		events:       events,
		log:          log.Component("inventory"),
	}
}

// Transfer resta de la ubicación origen y suma en la destino dentro de una transacción y deja
// un registro inmutable del traslado. Stock origen ausente o menor a lo pedido: ErrInsufficientStock
// sin modificar nada. El stock global del ítem no cambia.
func (uc *TransferUseCase) Transfer(ctx context.Context, userID string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if in.ItemID == "" || in.FromLocationID == "" || in.ToLocationID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrSameLocation
	}
	item, err := uc.itemRepo.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	for _, id := range []string{in.FromLocationID, in.ToLocationID} {
		loc, err := uc.locationRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.NewBusinessError(domain.ErrNotFound, fmt.Sprintf("ubicación %s no existe", id))
		}
		if loc.Status != entity.StatusActive {
			return nil, domain.NewBusinessError(domain.ErrConflict, fmt.Sprintf("la ubicación %s está inactiva", loc.Name))
		}
	}

	now := time.Now()
	transfer := &entity.InventoryTransfer{
		ID:             uuid.NewString(),
		ItemID:         in.ItemID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Notes:          in.Notes,
		TransferredBy:  userID,
		CreatedAt:      now,
	}
	err = uc.txRunner.RunTransfer(ctx, func(stockRepo repository.LocationStockRepository, transferRepo repository.TransferRepository) error {
		// Bloquea fila en ubicación origen
		origin, err := stockRepo.GetForUpdate(ctx, in.FromLocationID, in.ItemID)
		if err != nil {
			return err
		}
		if origin == nil || origin.Quantity < in.Quantity {
			available := 0
			if origin != nil {
				available = origin.Quantity
			}
			return domain.NewBusinessError(domain.ErrInsufficientStock,
				fmt.Sprintf("stock insuficiente en origen para %s: disponible %d, solicitado %d", item.SKU, available, in.Quantity))
		}
		dest, err := stockRepo.GetForUpdate(ctx, in.ToLocationID, in.ItemID)
		if err != nil {
			return err
		}
		if dest == nil {
			dest = &entity.LocationStock{LocationID: in.ToLocationID, ItemID: in.ItemID}
		}
		origin.Quantity -= in.Quantity
		dest.Quantity += in.Quantity
		origin.UpdatedAt = now
		dest.UpdatedAt = now
		if err := stockRepo.Upsert(ctx, origin); err != nil {
			return err
		}
		if err := stockRepo.Upsert(ctx, dest); err != nil {
			return err
		}
		return transferRepo.Create(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	out := dto.FromTransfer(transfer)
	if err := uc.events.Publish(ctx, ports.EventInventoryTransferred, out); err != nil {
		uc.log.Warn().Err(err).Str("transfer_id", transfer.ID).Msg("no se pudo publicar evento de traslado")
	}
	uc.log.Info().Str("transfer_id", transfer.ID).Str("item_id", in.ItemID).Int("quantity", in.Quantity).Msg("traslado registrado")
	return &out, nil
}

// GetByID obtiene un traslado.
func (uc *TransferUseCase) GetByID(ctx context.Context, id string) (*dto.TransferResponse, error) {
	t, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromTransfer(t)
	return &out, nil
}

// List historial filtrado por ítem y/o ubicación.
func (uc *TransferUseCase) List(ctx context.Context, q dto.TransferListQuery) (*dto.ListResponse[dto.TransferResponse], error) {
	q.DefaultPage()
	list, total, err := uc.transferRepo.List(ctx, repository.TransferFilter{
		ItemID: q.ItemID, LocationID: q.LocationID,
		Page: repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.FromTransfer(t))
	}
	out := dto.NewList(items, q.PageRequest, total)
	return &out, nil
}
