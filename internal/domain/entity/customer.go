package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la tienda con su saldo de lealtad.
type Customer struct {
	ID             string
	CustomerCode   string // único, generado si no se envía
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Address        string
	City           string
	Notes          string
	LoyaltyPoints  int
	TotalSpent     decimal.Decimal
	VisitCount     int
	LastVisit      *time.Time
	MarketingOptIn bool
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName nombre completo del cliente.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Partner socio/inversionista del negocio.
type Partner struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	OwnershipPct decimal.Decimal // 0..100
	Status       string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Investment aporte de capital de un socio. Inmutable una vez registrado.
type Investment struct {
	ID         string
	PartnerID  string
	Amount     decimal.Decimal
	InvestedAt time.Time
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
}
