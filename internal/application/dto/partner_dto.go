package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePartnerRequest alta de socio.
type CreatePartnerRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Email        string          `json:"email" validate:"omitempty,email"`
	Phone        string          `json:"phone" validate:"omitempty,max=30"`
	OwnershipPct decimal.Decimal `json:"ownership_percentage" validate:"gte=0,lte=100"`
	Notes        string          `json:"notes"`
}

// UpdatePartnerRequest actualización parcial.
type UpdatePartnerRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Email        *string          `json:"email" validate:"omitempty,email"`
	Phone        *string          `json:"phone" validate:"omitempty,max=30"`
	OwnershipPct *decimal.Decimal `json:"ownership_percentage"`
	Notes        *string          `json:"notes"`
	Status       *string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

// PartnerResponse socio con total invertido.
type PartnerResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	OwnershipPct  decimal.Decimal `json:"ownership_percentage"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateInvestmentRequest aporte de capital. Date YYYY-MM-DD; vacío = hoy.
type CreateInvestmentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"dgt0"`
	Date   string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes  string          `json:"notes"`
}

// InvestmentResponse salida de un aporte.
type InvestmentResponse struct {
	ID         string          `json:"id"`
	PartnerID  string          `json:"partner_id"`
	Amount     decimal.Decimal `json:"amount"`
	InvestedAt time.Time       `json:"invested_at"`
	Notes      string          `json:"notes,omitempty"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PartnerSummaryResponse socio con su historial de aportes.
type PartnerSummaryResponse struct {
	Partner     PartnerResponse      `json:"partner"`
	Investments []InvestmentResponse `json:"investments"`
}
