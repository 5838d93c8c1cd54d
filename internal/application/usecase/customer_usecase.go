package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/pricing"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// CustomerUseCase clientes, historial de compras y lealtad.
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	sales    repository.SaleRepository
	settings ports.SettingsReader
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, sales repository.SaleRepository, settings ports.SettingsReader) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, sales: sales, settings: settings}
}

// Create crea un cliente; genera customer_code si no viene. Reintenta ante colisión del código generado.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	now := time.Now()
	c := &entity.Customer{
		ID:             uuid.NewString(),
		CustomerCode:   strings.TrimSpace(in.CustomerCode),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:          in.Phone,
		Address:        in.Address,
		City:           in.City,
		Notes:          in.Notes,
		MarketingOptIn: in.MarketingOptIn,
		TotalSpent:     decimal.Zero,
		Status:         entity.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if c.CustomerCode != "" {
		if err := uc.repo.Create(ctx, c); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return nil, domain.NewBusinessError(domain.ErrDuplicate, "el código de cliente ya existe")
			}
			return nil, err
		}
		out := dto.FromCustomer(c)
		return &out, nil
	}
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		c.CustomerCode = pricing.CustomerCode()
		if err = uc.repo.Create(ctx, c); !errors.Is(err, domain.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	out := dto.FromCustomer(c)
	return &out, nil
}

// GetByID obtiene un cliente.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromCustomer(c)
	return &out, nil
}

// List lista clientes con búsqueda y paginación.
func (uc *CustomerUseCase) List(ctx context.Context, q dto.CustomerListQuery) (*dto.ListResponse[dto.CustomerResponse], error) {
	q.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.CustomerFilter{
		Status: q.Status, Search: strings.TrimSpace(q.Search),
		Page: repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.FromCustomer(c))
	}
	out := dto.NewList(items, q.PageRequest, total)
	return &out, nil
}

// Update aplica el patch.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		c.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		c.LastName = *in.LastName
	}
	if in.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.City != nil {
		c.City = *in.City
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	if in.MarketingOptIn != nil {
		c.MarketingOptIn = *in.MarketingOptIn
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := dto.FromCustomer(c)
	return &out, nil
}

// Deactivate baja lógica idempotente.
func (uc *CustomerUseCase) Deactivate(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != entity.StatusInactive {
		c.Status = entity.StatusInactive
		c.UpdatedAt = time.Now()
		if err := uc.repo.Update(ctx, c); err != nil {
			return nil, err
		}
	}
	out := dto.FromCustomer(c)
	return &out, nil
}

// Sales historial de compras del cliente.
func (uc *CustomerUseCase) Sales(ctx context.Context, id string, page dto.PageRequest) (*dto.ListResponse[dto.SaleResponse], error) {
	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, total, err := uc.sales.List(ctx, repository.SaleFilter{
		CustomerID: id, Page: repository.Page{Limit: page.Limit, Offset: page.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.FromSale(s))
	}
	out := dto.NewList(items, page, total)
	return &out, nil
}

// Loyalty saldo de puntos y métricas.
func (uc *CustomerUseCase) Loyalty(ctx context.Context, id string) (*dto.LoyaltyResponse, error) {
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.loyaltyResponse(ctx, c), nil
}

// AdjustLoyalty suma o resta puntos. Restar más que el saldo es un error de negocio.
func (uc *CustomerUseCase) AdjustLoyalty(ctx context.Context, id string, in dto.LoyaltyAdjustRequest) (*dto.LoyaltyResponse, error) {
	if err := uc.repo.AddLoyaltyPoints(ctx, id, in.Points, time.Now()); err != nil {
		if errors.Is(err, domain.ErrInsufficientPoints) {
			balance := 0
			if c, _ := uc.repo.GetByID(ctx, id); c != nil {
				balance = c.LoyaltyPoints
			}
			return nil, domain.NewBusinessError(domain.ErrInsufficientPoints,
				fmt.Sprintf("puntos insuficientes: saldo %d, ajuste %d", balance, in.Points))
		}
		return nil, err
	}
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.loyaltyResponse(ctx, c), nil
}

func (uc *CustomerUseCase) loyaltyResponse(ctx context.Context, c *entity.Customer) *dto.LoyaltyResponse {
	return &dto.LoyaltyResponse{
		CustomerID:    c.ID,
		LoyaltyPoints: c.LoyaltyPoints,
		TotalSpent:    c.TotalSpent,
		VisitCount:    c.VisitCount,
		LastVisit:     c.LastVisit,
		PointsRate:    uc.settings.Decimal(ctx, entity.SettingLoyaltyPointsRate, decimal.Zero),
	}
}

func (uc *CustomerUseCase) load(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}
