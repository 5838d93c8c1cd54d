package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest alta de cliente. CustomerCode vacío = se genera.
type CreateCustomerRequest struct {
	CustomerCode   string `json:"customer_code" validate:"omitempty,max=50"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"omitempty,max=100"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" validate:"omitempty,max=30"`
	Address        string `json:"address" validate:"omitempty,max=255"`
	City           string `json:"city" validate:"omitempty,max=100"`
	Notes          string `json:"notes"`
	MarketingOptIn bool   `json:"marketing_opt_in"`
}

// UpdateCustomerRequest actualización parcial.
type UpdateCustomerRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,max=100"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Address        *string `json:"address" validate:"omitempty,max=255"`
	City           *string `json:"city" validate:"omitempty,max=100"`
	Notes          *string `json:"notes"`
	MarketingOptIn *bool   `json:"marketing_opt_in"`
	Status         *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CustomerListQuery filtros de GET /api/customers.
type CustomerListQuery struct {
	Search string `query:"search"`
	Status string `query:"status" validate:"omitempty,oneof=active inactive"`
	PageRequest
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID             string          `json:"id"`
	CustomerCode   string          `json:"customer_code"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	City           string          `json:"city,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	LoyaltyPoints  int             `json:"loyalty_points"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	VisitCount     int             `json:"visit_count"`
	LastVisit      *time.Time      `json:"last_visit,omitempty"`
	MarketingOptIn bool            `json:"marketing_opt_in"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LoyaltyAdjustRequest ajuste manual de puntos (positivo o negativo).
type LoyaltyAdjustRequest struct {
	Points int    `json:"points" validate:"required,ne=0"`
	Reason string `json:"reason" validate:"required,max=255"`
}

// LoyaltyResponse saldo de puntos.
type LoyaltyResponse struct {
	CustomerID    string          `json:"customer_id"`
	LoyaltyPoints int             `json:"loyalty_points"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	VisitCount    int             `json:"visit_count"`
	LastVisit     *time.Time      `json:"last_visit,omitempty"`
	PointsRate    decimal.Decimal `json:"points_rate"`
}
