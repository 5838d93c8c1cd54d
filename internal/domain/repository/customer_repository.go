package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia de clientes.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	GetByCode(ctx context.Context, code string) (*entity.Customer, error)
	List(ctx context.Context, f CustomerFilter) ([]*entity.Customer, int, error)
	Update(ctx context.Context, c *entity.Customer) error
	// UpdateLoyalty persiste puntos y métricas de compra ya calculados.
	UpdateLoyalty(ctx context.Context, c *entity.Customer) error
	// AddLoyaltyPoints suma delta al saldo en la base, sin tocar el resto de la fila.
	// Saldo resultante negativo → domain.ErrInsufficientPoints.
	AddLoyaltyPoints(ctx context.Context, id string, delta int, at time.Time) error
}

// PartnerRepository socios e inversiones.
type PartnerRepository interface {
	Create(ctx context.Context, p *entity.Partner) error
	GetByID(ctx context.Context, id string) (*entity.Partner, error)
	List(ctx context.Context, status string) ([]*entity.Partner, error)
	Update(ctx context.Context, p *entity.Partner) error
	CreateInvestment(ctx context.Context, inv *entity.Investment) error
	ListInvestments(ctx context.Context, partnerID string) ([]*entity.Investment, error)
	TotalInvested(ctx context.Context, partnerID string) (decimal.Decimal, error)
}
