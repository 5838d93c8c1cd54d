package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// LocationUseCase sucursales y su stock.
type LocationUseCase struct {
	repo      repository.LocationRepository
	stockRepo repository.LocationStockRepository
	itemRepo  repository.ItemRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, stockRepo repository.LocationStockRepository, itemRepo repository.ItemRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo, stockRepo: stockRepo, itemRepo: itemRepo}
}

func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	now := time.Now()
	l := &entity.Location{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Address:   in.Address,
		City:      in.City,
		Phone:     in.Phone,
		IsMain:    in.IsMain,
		Status:    entity.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	out := dto.FromLocation(l)
	return &out, nil
}

func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	l, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromLocation(l)
	return &out, nil
}

func (uc *LocationUseCase) List(ctx context.Context, status string) ([]dto.LocationResponse, error) {
	list, err := uc.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.FromLocation(l))
	}
	return out, nil
}

func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	l, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		l.Name = *in.Name
	}
	if in.Address != nil {
		l.Address = *in.Address
	}
	if in.City != nil {
		l.City = *in.City
	}
	if in.Phone != nil {
		l.Phone = *in.Phone
	}
	if in.IsMain != nil {
		l.IsMain = *in.IsMain
	}
	if in.Status != nil {
		l.Status = *in.Status
	}
	l.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	out := dto.FromLocation(l)
	return &out, nil
}

// Deactivate baja lógica idempotente.
func (uc *LocationUseCase) Deactivate(ctx context.Context, id string) (*dto.LocationResponse, error) {
	l, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != entity.StatusInactive {
		l.Status = entity.StatusInactive
		l.UpdatedAt = time.Now()
		if err := uc.repo.Update(ctx, l); err != nil {
			return nil, err
		}
	}
	out := dto.FromLocation(l)
	return &out, nil
}

// Inventory stock de la ubicación con datos del ítem.
func (uc *LocationUseCase) Inventory(ctx context.Context, id string) ([]dto.LocationStockResponse, error) {
	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}
	rows, err := uc.stockRepo.ListByLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationStockResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromLocationStock(r))
	}
	return out, nil
}

// SetStock fija cantidad y mínimo de un ítem en la ubicación (alta inicial o conteo físico).
func (uc *LocationUseCase) SetStock(ctx context.Context, locationID, itemID string, in dto.SetLocationStockRequest) (*dto.LocationStockResponse, error) {
	if in.Quantity == nil || *in.Quantity < 0 {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "quantity debe ser mayor o igual a 0")
	}
	if in.MinQuantity != nil && *in.MinQuantity < 0 {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "min_quantity no puede ser negativo")
	}
	if _, err := uc.load(ctx, locationID); err != nil {
		return nil, err
	}
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	row, err := uc.stockRepo.Get(ctx, locationID, itemID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &entity.LocationStock{LocationID: locationID, ItemID: itemID}
	}
	row.Quantity = *in.Quantity
	if in.MinQuantity != nil {
		row.MinQuantity = *in.MinQuantity
	}
	row.UpdatedAt = time.Now()
	if err := uc.stockRepo.Upsert(ctx, row); err != nil {
		return nil, err
	}
	row.ItemSKU, row.ItemName = item.SKU, item.Name
	out := dto.FromLocationStock(row)
	return &out, nil
}

func (uc *LocationUseCase) load(ctx context.Context, id string) (*entity.Location, error) {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	return l, nil
}
