package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// InternalBarcodePrefix prefijo GS1 de uso interno para EAN-13 generados en tienda.
const InternalBarcodePrefix = "200"

// BarcodeUseCase búsqueda por código, asignación de EAN-13 e imagen.
type BarcodeUseCase struct {
	items    repository.ItemRepository
	renderer ports.BarcodeRenderer
}

// NewBarcodeUseCase construye el caso de uso.
func NewBarcodeUseCase(items repository.ItemRepository, renderer ports.BarcodeRenderer) *BarcodeUseCase {
	return &BarcodeUseCase{items: items, renderer: renderer}
}

// Lookup busca por código de barras y, si no, por SKU.
func (uc *BarcodeUseCase) Lookup(ctx context.Context, code string) (*dto.ItemResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.items.GetByBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		if item, err = uc.items.GetBySKU(ctx, code); err != nil {
			return nil, err
		}
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromItem(item)
	return &out, nil
}

// Generate asigna un EAN-13 interno si el ítem no tiene código; si ya tiene, lo devuelve igual.
func (uc *BarcodeUseCase) Generate(ctx context.Context, itemID string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.Barcode != nil && *item.Barcode != "" {
		out := dto.FromItem(item)
		return &out, nil
	}
	n, err := uc.items.CountWithBarcodePrefix(ctx, InternalBarcodePrefix)
	if err != nil {
		return nil, err
	}
	// Ante colisión (códigos cargados a mano con el mismo prefijo) se avanza la secuencia.
	for attempt := 0; attempt < 5; attempt++ {
		code, err := internalEAN13(n + 1 + attempt)
		if err != nil {
			return nil, err
		}
		existing, err := uc.items.GetByBarcode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}
		now := time.Now()
		if err := uc.items.SetBarcode(ctx, item.ID, code, now); err != nil {
			return nil, err
		}
		item.Barcode = &code
		item.UpdatedAt = now
		out := dto.FromItem(item)
		return &out, nil
	}
	return nil, domain.NewBusinessError(domain.ErrConflict, "no se pudo asignar un código de barras libre")
}

// Image PNG del código del ítem. Sin código asignado se usa el SKU en code128.
func (uc *BarcodeUseCase) Image(ctx context.Context, itemID, format string, width, height int) ([]byte, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	code := item.SKU
	if item.Barcode != nil && *item.Barcode != "" {
		code = *item.Barcode
	}
	if format == "" {
		format = ports.BarcodeCode128
	}
	if format == ports.BarcodeEAN13 && !isEAN13(code) {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "el código del ítem no es un EAN-13 válido")
	}
	if width <= 0 {
		width = 300
	}
	if height <= 0 {
		height = 100
	}
	if width > 2000 || height > 1000 {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "dimensiones fuera de rango")
	}
	return uc.renderer.PNG(code, format, width, height)
}

func internalEAN13(seq int) (string, error) {
	body := fmt.Sprintf("%s%09d", InternalBarcodePrefix, seq)
	check, ok := inventory.EAN13CheckDigit(body)
	if !ok {
		return "", fmt.Errorf("secuencia de código de barras fuera de rango: %d", seq)
	}
	return body + string(check), nil
}

func isEAN13(code string) bool {
	if len(code) != 13 {
		return false
	}
	check, ok := inventory.EAN13CheckDigit(code[:12])
	return ok && check == code[12]
}
