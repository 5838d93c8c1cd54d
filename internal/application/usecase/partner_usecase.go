package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// PartnerUseCase socios e inversiones de capital.
type PartnerUseCase struct {
	repo repository.PartnerRepository
}

// NewPartnerUseCase construye el caso de uso.
func NewPartnerUseCase(repo repository.PartnerRepository) *PartnerUseCase {
	return &PartnerUseCase{repo: repo}
}

func (uc *PartnerUseCase) Create(ctx context.Context, in dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	if err := checkOwnership(in.OwnershipPct); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Partner{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		OwnershipPct: in.OwnershipPct,
		Status:       entity.StatusActive,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := dto.FromPartner(p)
	return &out, nil
}

func (uc *PartnerUseCase) GetByID(ctx context.Context, id string) (*dto.PartnerSummaryResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp, err := uc.withTotal(ctx, p)
	if err != nil {
		return nil, err
	}
	invs, err := uc.repo.ListInvestments(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.PartnerSummaryResponse{Partner: *resp, Investments: make([]dto.InvestmentResponse, 0, len(invs))}
	for _, inv := range invs {
		out.Investments = append(out.Investments, dto.FromInvestment(inv))
	}
	return out, nil
}

func (uc *PartnerUseCase) List(ctx context.Context, status string) ([]dto.PartnerResponse, error) {
	list, err := uc.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartnerResponse, 0, len(list))
	for _, p := range list {
		resp, err := uc.withTotal(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (uc *PartnerUseCase) Update(ctx context.Context, id string, in dto.UpdatePartnerRequest) (*dto.PartnerResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.OwnershipPct != nil {
		if err := checkOwnership(*in.OwnershipPct); err != nil {
			return nil, err
		}
		p.OwnershipPct = *in.OwnershipPct
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return uc.withTotal(ctx, p)
}

// Deactivate baja lógica idempotente.
func (uc *PartnerUseCase) Deactivate(ctx context.Context, id string) (*dto.PartnerResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != entity.StatusInactive {
		p.Status = entity.StatusInactive
		p.UpdatedAt = time.Now()
		if err := uc.repo.Update(ctx, p); err != nil {
			return nil, err
		}
	}
	return uc.withTotal(ctx, p)
}

// AddInvestment registra un aporte. Fecha vacía = ahora.
func (uc *PartnerUseCase) AddInvestment(ctx context.Context, partnerID, userID string, in dto.CreateInvestmentRequest) (*dto.InvestmentResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "amount debe ser mayor que 0")
	}
	p, err := uc.load(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if p.Status != entity.StatusActive {
		return nil, domain.NewBusinessError(domain.ErrConflict, "el socio está inactivo")
	}
	now := time.Now()
	at := now
	if in.Date != "" {
		if at, err = time.Parse("2006-01-02", in.Date); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	inv := &entity.Investment{
		ID:         uuid.NewString(),
		PartnerID:  partnerID,
		Amount:     in.Amount,
		InvestedAt: at,
		Notes:      in.Notes,
		CreatedBy:  userID,
		CreatedAt:  now,
	}
	if err := uc.repo.CreateInvestment(ctx, inv); err != nil {
		return nil, err
	}
	out := dto.FromInvestment(inv)
	return &out, nil
}

func (uc *PartnerUseCase) ListInvestments(ctx context.Context, partnerID string) ([]dto.InvestmentResponse, error) {
	if _, err := uc.load(ctx, partnerID); err != nil {
		return nil, err
	}
	invs, err := uc.repo.ListInvestments(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvestmentResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, dto.FromInvestment(inv))
	}
	return out, nil
}

func (uc *PartnerUseCase) withTotal(ctx context.Context, p *entity.Partner) (*dto.PartnerResponse, error) {
	total, err := uc.repo.TotalInvested(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := dto.FromPartner(p)
	out.TotalInvested = total
	return &out, nil
}

func checkOwnership(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return domain.NewBusinessError(domain.ErrInvalidInput, "ownership_percentage debe estar entre 0 y 100")
	}
	return nil
}

func (uc *PartnerUseCase) load(ctx context.Context, id string) (*entity.Partner, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
