package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	invdomain "github.com/jhoicas/pos-api/internal/domain/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ItemUseCase catálogo de ítems y ajustes de stock. Cantidad y costo cambian solo por ajuste, venta o traslado.
type ItemUseCase struct {
	txRunner TxRunner
	repo     repository.ItemRepository
	adjRepo  repository.StockAdjustmentRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner TxRunner, repo repository.ItemRepository, adjRepo repository.StockAdjustmentRepository) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, repo: repo, adjRepo: adjRepo}
}

// Create valida SKU y código de barras únicos y persiste.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if err := uc.checkUnique(ctx, "", sku, in.Barcode); err != nil {
		return nil, err
	}
	unit := in.Unit
	if unit == "" {
		unit = "unit"
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.NewString(),
		SKU:         sku,
		Barcode:     optional(in.Barcode),
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  optional(in.CategoryID),
		SupplierID:  optional(in.SupplierID),
		TaxRateID:   optional(in.TaxRateID),
		Price:       in.Price,
		Cost:        in.Cost,
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		Unit:        unit,
		Status:      entity.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewBusinessError(domain.ErrDuplicate, "SKU o código de barras duplicado")
		}
		return nil, err
	}
	out := dto.FromItem(item)
	return &out, nil
}

// GetByID obtiene un ítem.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromItem(item)
	return &out, nil
}

// List lista ítems con filtros y paginación.
func (uc *ItemUseCase) List(ctx context.Context, q dto.ItemListQuery) (*dto.ListResponse[dto.ItemResponse], error) {
	q.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ItemFilter{
		Search: strings.TrimSpace(q.Search), CategoryID: q.CategoryID, Status: q.Status, LowStock: q.LowStock,
		Page: repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		items = append(items, dto.FromItem(i))
	}
	out := dto.NewList(items, q.PageRequest, total)
	return &out, nil
}

// LowStock ítems activos con cantidad en o bajo el mínimo.
func (uc *ItemUseCase) LowStock(ctx context.Context) ([]dto.ItemResponse, error) {
	list, err := uc.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		out = append(out, dto.FromItem(i))
	}
	return out, nil
}

// Update aplica el patch. No modifica la cantidad.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	sku, barcode := "", ""
	if in.SKU != nil && strings.TrimSpace(*in.SKU) != item.SKU {
		sku = strings.TrimSpace(*in.SKU)
	}
	if in.Barcode != nil && (item.Barcode == nil || *in.Barcode != *item.Barcode) {
		barcode = *in.Barcode
	}
	if err := uc.checkUnique(ctx, item.ID, sku, barcode); err != nil {
		return nil, err
	}
	if sku != "" {
		item.SKU = sku
	}
	if in.Barcode != nil {
		item.Barcode = optional(*in.Barcode)
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.CategoryID != nil {
		item.CategoryID = optional(*in.CategoryID)
	}
	if in.SupplierID != nil {
		item.SupplierID = optional(*in.SupplierID)
	}
	if in.TaxRateID != nil {
		item.TaxRateID = optional(*in.TaxRateID)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.NewBusinessError(domain.ErrInvalidInput, "price no puede ser negativo")
		}
		item.Price = *in.Price
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.NewBusinessError(domain.ErrInvalidInput, "cost no puede ser negativo")
		}
		item.Cost = *in.Cost
	}
	if in.MinQuantity != nil {
		item.MinQuantity = *in.MinQuantity
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.Status != nil {
		item.Status = *in.Status
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewBusinessError(domain.ErrDuplicate, "SKU o código de barras duplicado")
		}
		return nil, err
	}
	out := dto.FromItem(item)
	return &out, nil
}

// Deactivate baja lógica idempotente.
func (uc *ItemUseCase) Deactivate(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != entity.StatusInactive {
		item.Status = entity.StatusInactive
		item.UpdatedAt = time.Now()
		if err := uc.repo.Update(ctx, item); err != nil {
			return nil, err
		}
	}
	out := dto.FromItem(item)
	return &out, nil
}

// Adjust aplica un delta al stock global (y al de la ubicación, si se indica) con resta acotada en cero.
// Entradas con unit_cost recalculan el costo promedio ponderado.
func (uc *ItemUseCase) Adjust(ctx context.Context, id, userID string, in dto.AdjustStockRequest) (*dto.AdjustmentResponse, error) {
	if in.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "unit_cost no puede ser negativo")
	}
	now := time.Now()
	adj := &entity.StockAdjustment{
		ID:        uuid.NewString(),
		ItemID:    id,
		Reason:    in.Reason,
		UserID:    userID,
		CreatedAt: now,
	}
	if in.LocationID != "" {
		loc := in.LocationID
		adj.LocationID = &loc
	}
	err := uc.txRunner.RunAdjustment(ctx, func(itemRepo repository.ItemRepository, stockRepo repository.LocationStockRepository, adjRepo repository.StockAdjustmentRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		adj.PreviousQty = item.Quantity
		if in.Quantity > 0 {
			adj.NewQty = item.Quantity + in.Quantity
			if in.UnitCost != nil {
				cost := invdomain.CostCalculator(item.Quantity, item.Cost, in.Quantity, *in.UnitCost)
				if err := itemRepo.UpdateCost(ctx, id, cost, now); err != nil {
					return err
				}
			}
		} else {
			adj.NewQty, _ = entity.SubtractFloor(item.Quantity, -in.Quantity)
		}
		adj.Delta = adj.NewQty - adj.PreviousQty
		if err := itemRepo.UpdateQuantity(ctx, id, adj.NewQty, now); err != nil {
			return err
		}
		if adj.LocationID != nil {
			row, err := stockRepo.GetForUpdate(ctx, *adj.LocationID, id)
			if err != nil {
				return err
			}
			if row == nil {
				row = &entity.LocationStock{LocationID: *adj.LocationID, ItemID: id}
			}
			if in.Quantity > 0 {
				row.Quantity += in.Quantity
			} else {
				row.Quantity, _ = entity.SubtractFloor(row.Quantity, -in.Quantity)
			}
			row.UpdatedAt = now
			if err := stockRepo.Upsert(ctx, row); err != nil {
				return err
			}
		}
		return adjRepo.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	return &dto.AdjustmentResponse{
		ID: adj.ID, ItemID: adj.ItemID, LocationID: adj.LocationID,
		Requested: in.Quantity, Applied: adj.Delta,
		PreviousQty: adj.PreviousQty, NewQty: adj.NewQty,
		Reason: adj.Reason, UserID: adj.UserID, CreatedAt: adj.CreatedAt,
	}, nil
}

// Adjustments últimos ajustes del ítem.
func (uc *ItemUseCase) Adjustments(ctx context.Context, id string) ([]dto.AdjustmentResponse, error) {
	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}
	list, err := uc.adjRepo.ListByItem(ctx, id, 100)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AdjustmentResponse{
			ID: a.ID, ItemID: a.ItemID, LocationID: a.LocationID,
			Requested: a.Delta, Applied: a.Delta, PreviousQty: a.PreviousQty, NewQty: a.NewQty,
			Reason: a.Reason, UserID: a.UserID, CreatedAt: a.CreatedAt,
		})
	}
	return out, nil
}

func (uc *ItemUseCase) checkUnique(ctx context.Context, selfID, sku, barcode string) error {
	if sku != "" {
		existing, err := uc.repo.GetBySKU(ctx, sku)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return domain.NewBusinessError(domain.ErrDuplicate, "el SKU ya existe")
		}
	}
	if barcode != "" {
		existing, err := uc.repo.GetByBarcode(ctx, barcode)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return domain.NewBusinessError(domain.ErrDuplicate, "el código de barras ya existe")
		}
	}
	return nil
}

func (uc *ItemUseCase) load(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
