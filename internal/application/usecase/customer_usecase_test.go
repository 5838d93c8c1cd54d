package usecase_test

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

func newCustomerUseCase(t *testing.T) *usecase.CustomerUseCase {
	t.Helper()
	store := memory.New()
	settings := usecase.NewSettingsUseCase(store.Settings())
	_, err := settings.Put(context.Background(), entity.SettingLoyaltyPointsRate, dto.UpdateSettingRequest{Value: json.RawMessage(`"0.5"`)})
	require.NoError(t, err)
	return usecase.NewCustomerUseCase(store.Customers(), store.Sales(), settings)
}

func TestCreateCustomer_GeneraCodigo(t *testing.T) {
	uc := newCustomerUseCase(t)
	c, err := uc.Create(context.Background(), dto.CreateCustomerRequest{FirstName: "Ana", Email: "ANA@Correo.co"})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^CUST-[A-Z0-9]{8}$`), c.CustomerCode)
	assert.Equal(t, "ana@correo.co", c.Email)
}

func TestCreateCustomer_CodigoExplicitoDuplicado(t *testing.T) {
	uc := newCustomerUseCase(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateCustomerRequest{CustomerCode: "VIP-1", FirstName: "Ana"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCustomerRequest{CustomerCode: "VIP-1", FirstName: "Luis"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAdjustLoyalty_SumaYRechazaSaldoNegativo(t *testing.T) {
	uc := newCustomerUseCase(t)
	ctx := context.Background()
	c, err := uc.Create(ctx, dto.CreateCustomerRequest{FirstName: "Ana"})
	require.NoError(t, err)

	l, err := uc.AdjustLoyalty(ctx, c.ID, dto.LoyaltyAdjustRequest{Points: 30, Reason: "bono"})
	require.NoError(t, err)
	assert.Equal(t, 30, l.LoyaltyPoints)
	assert.True(t, l.PointsRate.Equal(decimalHalf), l.PointsRate.String())

	_, err = uc.AdjustLoyalty(ctx, c.ID, dto.LoyaltyAdjustRequest{Points: -31, Reason: "canje"})
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	l, err = uc.AdjustLoyalty(ctx, c.ID, dto.LoyaltyAdjustRequest{Points: -30, Reason: "canje"})
	require.NoError(t, err)
	assert.Equal(t, 0, l.LoyaltyPoints)

	_, err = uc.Loyalty(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// saleDuringAdjust registra una venta concurrente justo en la primera llamada al repositorio.
type saleDuringAdjust struct {
	repository.CustomerRepository
	once sync.Once
	t    *testing.T
}

func (r *saleDuringAdjust) sale(id string) {
	r.once.Do(func() {
		ctx := context.Background()
		c, err := r.CustomerRepository.GetForUpdate(ctx, id)
		require.NoError(r.t, err)
		now := time.Now()
		c.LoyaltyPoints += 50
		c.TotalSpent = c.TotalSpent.Add(decimal.NewFromInt(100))
		c.VisitCount++
		c.LastVisit = &now
		require.NoError(r.t, r.CustomerRepository.UpdateLoyalty(ctx, c))
	})
}

func (r *saleDuringAdjust) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := r.CustomerRepository.GetByID(ctx, id)
	r.sale(id)
	return c, err
}

func (r *saleDuringAdjust) AddLoyaltyPoints(ctx context.Context, id string, delta int, at time.Time) error {
	r.sale(id)
	return r.CustomerRepository.AddLoyaltyPoints(ctx, id, delta, at)
}

func TestAdjustLoyalty_NoPisaVentaConcurrente(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	base := usecase.NewCustomerUseCase(store.Customers(), store.Sales(), usecase.NewSettingsUseCase(store.Settings()))
	c, err := base.Create(ctx, dto.CreateCustomerRequest{FirstName: "Ana"})
	require.NoError(t, err)

	repo := &saleDuringAdjust{CustomerRepository: store.Customers(), t: t}
	uc := usecase.NewCustomerUseCase(repo, store.Sales(), usecase.NewSettingsUseCase(store.Settings()))

	l, err := uc.AdjustLoyalty(ctx, c.ID, dto.LoyaltyAdjustRequest{Points: 10, Reason: "bono"})
	require.NoError(t, err)

	assert.Equal(t, 60, l.LoyaltyPoints)
	assert.True(t, l.TotalSpent.Equal(decimal.NewFromInt(100)), l.TotalSpent.String())
	assert.Equal(t, 1, l.VisitCount)

	stored, err := store.Customers().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, stored.LoyaltyPoints)
	assert.Equal(t, 1, stored.VisitCount)
}

func TestAdjustLoyalty_ClienteInexistente(t *testing.T) {
	uc := newCustomerUseCase(t)
	_, err := uc.AdjustLoyalty(context.Background(), "no-existe", dto.LoyaltyAdjustRequest{Points: 5, Reason: "bono"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerSales_HistorialVacio(t *testing.T) {
	uc := newCustomerUseCase(t)
	ctx := context.Background()
	c, err := uc.Create(ctx, dto.CreateCustomerRequest{FirstName: "Ana"})
	require.NoError(t, err)

	list, err := uc.Sales(ctx, c.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, 20, list.Page.Limit)
}
