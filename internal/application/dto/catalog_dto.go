package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TaxRateRequest alta de tarifa. Rate es porcentaje (19 = 19 %).
type TaxRateRequest struct {
	Name      string          `json:"name" validate:"required,max=100"`
	Rate      decimal.Decimal `json:"rate" validate:"gte=0,lte=100"`
	IsDefault bool            `json:"is_default"`
}

// UpdateTaxRateRequest actualización parcial.
type UpdateTaxRateRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Rate      *decimal.Decimal `json:"rate"`
	IsDefault *bool            `json:"is_default"`
	Status    *string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

// TaxRateResponse salida de una tarifa.
type TaxRateResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	IsDefault bool            `json:"is_default"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PaymentMethodRequest alta de método de pago.
type PaymentMethodRequest struct {
	Code              string `json:"code" validate:"required,max=50"`
	Name              string `json:"name" validate:"required,max=100"`
	RequiresReference bool   `json:"requires_reference"`
}

// UpdatePaymentMethodRequest actualización parcial.
type UpdatePaymentMethodRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=100"`
	IsActive          *bool   `json:"is_active"`
	RequiresReference *bool   `json:"requires_reference"`
}

// PaymentMethodResponse salida de un método de pago.
type PaymentMethodResponse struct {
	ID                string    `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	IsActive          bool      `json:"is_active"`
	RequiresReference bool      `json:"requires_reference"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UpdateSettingRequest valor JSON arbitrario.
type UpdateSettingRequest struct {
	Value       json.RawMessage `json:"value" validate:"required"`
	Description *string         `json:"description"`
}

// SettingResponse salida de un setting.
type SettingResponse struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
