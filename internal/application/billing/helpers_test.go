package billing_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type eventRecorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *eventRecorder) Publish(_ context.Context, key string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return nil
}

func (r *eventRecorder) Close() error { return nil }

// fakeGateway pasarela controlable desde el test.
type fakeGateway struct {
	status    string
	chargeErr error
	refundErr error
	event     *ports.GatewayEvent
	charges   []ports.ChargeRequest
	refunds   []string
}

func (g *fakeGateway) Enabled() bool { return true }

func (g *fakeGateway) Charge(_ context.Context, req ports.ChargeRequest) (*ports.ChargeResult, error) {
	g.charges = append(g.charges, req)
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	return &ports.ChargeResult{ExternalID: "pi_" + req.IdempotencyKey[:8], Status: g.status, Raw: g.status}, nil
}

func (g *fakeGateway) Refund(_ context.Context, req ports.RefundRequest) (string, error) {
	if g.refundErr != nil {
		return "", g.refundErr
	}
	g.refunds = append(g.refunds, req.ExternalID)
	return "re_" + req.ExternalID, nil
}

func (g *fakeGateway) ParseWebhook(_ []byte, sig string) (*ports.GatewayEvent, error) {
	if sig != "ok" {
		return nil, errors.New("firma inválida")
	}
	return g.event, nil
}

type env struct {
	store    *memory.Store
	events   *eventRecorder
	gateway  *fakeGateway
	sales    *billing.SaleUseCase
	payments *billing.PaymentUseCase
	item     *entity.Item
	customer *entity.Customer
	location *entity.Location
}

// newEnv crea un ítem de 50 con 10 unidades, un cliente, una ubicación con 10 unidades,
// tarifa por defecto del 10 % y 1 punto por unidad de moneda.
func newEnv(t *testing.T, withGateway bool) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	now := time.Now()

	require.NoError(t, store.TaxRates().Create(ctx, &entity.TaxRate{ID: uuid.NewString(), Name: "IVA 10", Rate: d("10"), IsDefault: true, Status: entity.StatusActive, CreatedAt: now}))
	require.NoError(t, store.Settings().Upsert(ctx, &entity.Setting{Key: entity.SettingLoyaltyPointsRate, Value: json.RawMessage(`1`), UpdatedAt: now}))
	require.NoError(t, store.Settings().Upsert(ctx, &entity.Setting{Key: entity.SettingCurrency, Value: json.RawMessage(`"USD"`), UpdatedAt: now}))

	item := &entity.Item{ID: uuid.NewString(), SKU: "CAF-1", Name: "Café", Price: d("50"), Cost: d("30"), Quantity: 10, Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Items().Create(ctx, item))
	customer := &entity.Customer{ID: uuid.NewString(), CustomerCode: "CUST-TEST0001", FirstName: "Ana", LastName: "Gómez", Phone: "+573001112233", TotalSpent: decimal.Zero, Status: entity.StatusActive, CreatedAt: now}
	require.NoError(t, store.Customers().Create(ctx, customer))
	location := &entity.Location{ID: uuid.NewString(), Name: "Centro", IsMain: true, Status: entity.StatusActive, CreatedAt: now}
	require.NoError(t, store.Locations().Create(ctx, location))
	require.NoError(t, store.Stock().Upsert(ctx, &entity.LocationStock{LocationID: location.ID, ItemID: item.ID, Quantity: 10}))

	settings := usecase.NewSettingsUseCase(store.Settings())
	events := &eventRecorder{}
	var gw ports.PaymentGateway
	fake := &fakeGateway{status: ports.GatewaySucceeded}
	if withGateway {
		gw = fake
	}
	return &env{
		store:   store,
		events:  events,
		gateway: fake,
		sales: billing.NewSaleUseCase(store, store.Sales(), store.Payments(), store.Customers(), store.Locations(),
			store.TaxRates(), store.PaymentMethods(), settings, events, nil),
		payments: billing.NewPaymentUseCase(store, store.Sales(), store.Payments(), store.Refunds(), store.PaymentMethods(),
			gw, settings, events, nil),
		item:     item,
		customer: customer,
		location: location,
	}
}
