package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

func newPartnerUseCase() *usecase.PartnerUseCase {
	return usecase.NewPartnerUseCase(memory.New().Partners())
}

// ── Socios ───────────────────────────────────────────────────────────────────

func TestPartner_CrearYAportesSumanTotal(t *testing.T) {
	uc := newPartnerUseCase()
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreatePartnerRequest{Name: "Laura Ruiz", OwnershipPct: decimal.NewFromInt(40)})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, p.Status)

	_, err = uc.AddInvestment(ctx, p.ID, "admin-1", dto.CreateInvestmentRequest{Amount: decimal.RequireFromString("1500.50"), Date: "2020-01-15"})
	require.NoError(t, err)
	inv, err := uc.AddInvestment(ctx, p.ID, "admin-1", dto.CreateInvestmentRequest{Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.Equal(t, "admin-1", inv.CreatedBy)

	sum, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, sum.Partner.TotalInvested.Equal(decimal.RequireFromString("2000.50")), sum.Partner.TotalInvested.String())
	require.Len(t, sum.Investments, 2)
	assert.Equal(t, "2020-01-15", sum.Investments[1].InvestedAt.Format("2006-01-02"), "más reciente primero")

	list, err := uc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].TotalInvested.Equal(decimal.RequireFromString("2000.50")))
}

func TestPartner_PorcentajeFueraDeRango(t *testing.T) {
	uc := newPartnerUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreatePartnerRequest{Name: "X", OwnershipPct: decimal.NewFromInt(101)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := uc.Create(ctx, dto.CreatePartnerRequest{Name: "Y", OwnershipPct: decimal.NewFromInt(10)})
	require.NoError(t, err)
	neg := decimal.NewFromInt(-1)
	_, err = uc.Update(ctx, p.ID, dto.UpdatePartnerRequest{OwnershipPct: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPartner_InactivoNoRecibeAportes(t *testing.T) {
	uc := newPartnerUseCase()
	ctx := context.Background()
	p, err := uc.Create(ctx, dto.CreatePartnerRequest{Name: "Mario", OwnershipPct: decimal.NewFromInt(20)})
	require.NoError(t, err)

	out, err := uc.Deactivate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInactive, out.Status)
	_, err = uc.Deactivate(ctx, p.ID)
	require.NoError(t, err, "la baja es idempotente")

	_, err = uc.AddInvestment(ctx, p.ID, "admin-1", dto.CreateInvestmentRequest{Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPartner_AporteInvalido(t *testing.T) {
	uc := newPartnerUseCase()
	ctx := context.Background()
	p, err := uc.Create(ctx, dto.CreatePartnerRequest{Name: "Sara", OwnershipPct: decimal.NewFromInt(5)})
	require.NoError(t, err)

	_, err = uc.AddInvestment(ctx, p.ID, "admin-1", dto.CreateInvestmentRequest{Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.AddInvestment(ctx, p.ID, "admin-1", dto.CreateInvestmentRequest{Amount: decimal.NewFromInt(1), Date: "15/01/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	invs, err := uc.ListInvestments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, invs)
}

func TestPartner_Inexistente(t *testing.T) {
	uc := newPartnerUseCase()
	_, err := uc.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.ListInvestments(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
