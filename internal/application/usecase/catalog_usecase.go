package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// ──────────────────────────────────────────────────────────────────────────────
// Tarifas de impuesto
// ──────────────────────────────────────────────────────────────────────────────

// TaxRateUseCase tarifas de impuesto; a lo sumo una marcada por defecto.
type TaxRateUseCase struct {
	repo repository.TaxRateRepository
}

func NewTaxRateUseCase(repo repository.TaxRateRepository) *TaxRateUseCase {
	return &TaxRateUseCase{repo: repo}
}

func (uc *TaxRateUseCase) Create(ctx context.Context, in dto.TaxRateRequest) (*dto.TaxRateResponse, error) {
	now := time.Now()
	t := &entity.TaxRate{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Rate:      in.Rate,
		IsDefault: in.IsDefault,
		Status:    entity.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	if t.IsDefault {
		if err := uc.repo.ClearDefault(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	out := dto.FromTaxRate(t)
	return &out, nil
}

func (uc *TaxRateUseCase) List(ctx context.Context) ([]dto.TaxRateResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaxRateResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.FromTaxRate(t))
	}
	return out, nil
}

func (uc *TaxRateUseCase) Update(ctx context.Context, id string, in dto.UpdateTaxRateRequest) (*dto.TaxRateResponse, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Rate != nil {
		if in.Rate.IsNegative() || in.Rate.GreaterThan(hundred) {
			return nil, domain.NewBusinessError(domain.ErrInvalidInput, "rate debe estar entre 0 y 100")
		}
		t.Rate = *in.Rate
	}
	if in.IsDefault != nil {
		t.IsDefault = *in.IsDefault
	}
	if in.Status != nil {
		t.Status = *in.Status
		if t.Status == entity.StatusInactive {
			t.IsDefault = false
		}
	}
	t.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	if t.IsDefault {
		if err := uc.repo.ClearDefault(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	out := dto.FromTaxRate(t)
	return &out, nil
}

// Deactivate baja lógica idempotente.
func (uc *TaxRateUseCase) Deactivate(ctx context.Context, id string) (*dto.TaxRateResponse, error) {
	inactive := entity.StatusInactive
	return uc.Update(ctx, id, dto.UpdateTaxRateRequest{Status: &inactive})
}

// ──────────────────────────────────────────────────────────────────────────────
// Métodos de pago
// ──────────────────────────────────────────────────────────────────────────────

// PaymentMethodUseCase catálogo de métodos de pago.
type PaymentMethodUseCase struct {
	repo repository.PaymentMethodRepository
}

func NewPaymentMethodUseCase(repo repository.PaymentMethodRepository) *PaymentMethodUseCase {
	return &PaymentMethodUseCase{repo: repo}
}

func (uc *PaymentMethodUseCase) Create(ctx context.Context, in dto.PaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	now := time.Now()
	m := &entity.PaymentMethod{
		ID:                uuid.NewString(),
		Code:              strings.ToLower(strings.TrimSpace(in.Code)),
		Name:              in.Name,
		IsActive:          true,
		RequiresReference: in.RequiresReference,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	out := dto.FromPaymentMethod(m)
	return &out, nil
}

func (uc *PaymentMethodUseCase) List(ctx context.Context, onlyActive bool) ([]dto.PaymentMethodResponse, error) {
	list, err := uc.repo.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentMethodResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromPaymentMethod(m))
	}
	return out, nil
}

func (uc *PaymentMethodUseCase) Update(ctx context.Context, id string, in dto.UpdatePaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	if in.RequiresReference != nil {
		m.RequiresReference = *in.RequiresReference
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	out := dto.FromPaymentMethod(m)
	return &out, nil
}

// Toggle invierte is_active.
func (uc *PaymentMethodUseCase) Toggle(ctx context.Context, id string) (*dto.PaymentMethodResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	active := !m.IsActive
	return uc.Update(ctx, id, dto.UpdatePaymentMethodRequest{IsActive: &active})
}

// ──────────────────────────────────────────────────────────────────────────────
// Settings
// ──────────────────────────────────────────────────────────────────────────────

var _ ports.SettingsReader = (*SettingsUseCase)(nil)

// SettingsUseCase configuración clave/valor; también sirve lecturas tipadas al resto de casos de uso.
type SettingsUseCase struct {
	repo repository.SettingRepository
}

func NewSettingsUseCase(repo repository.SettingRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

func (uc *SettingsUseCase) List(ctx context.Context) ([]dto.SettingResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromSetting(s))
	}
	return out, nil
}

func (uc *SettingsUseCase) Get(ctx context.Context, key string) (*dto.SettingResponse, error) {
	s, err := uc.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromSetting(s)
	return &out, nil
}

// Put crea o reemplaza el valor; debe ser JSON válido.
func (uc *SettingsUseCase) Put(ctx context.Context, key string, in dto.UpdateSettingRequest) (*dto.SettingResponse, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > 100 {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "clave inválida")
	}
	if !json.Valid(in.Value) {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "value debe ser JSON válido")
	}
	s, err := uc.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &entity.Setting{Key: key}
	}
	s.Value = in.Value
	if in.Description != nil {
		s.Description = *in.Description
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Upsert(ctx, s); err != nil {
		return nil, err
	}
	out := dto.FromSetting(s)
	return &out, nil
}

// Decimal lee un número (o string numérico) JSON; def si falta o no se puede interpretar.
func (uc *SettingsUseCase) Decimal(ctx context.Context, key string, def decimal.Decimal) decimal.Decimal {
	raw := uc.raw(ctx, key)
	if raw == "" {
		return def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return def
	}
	return d
}

// String lee un string JSON (o el literal si no es string).
func (uc *SettingsUseCase) String(ctx context.Context, key, def string) string {
	raw := uc.raw(ctx, key)
	if raw == "" {
		return def
	}
	return raw
}

// Int lee un entero.
func (uc *SettingsUseCase) Int(ctx context.Context, key string, def int) int {
	raw := uc.raw(ctx, key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func (uc *SettingsUseCase) raw(ctx context.Context, key string) string {
	s, err := uc.repo.Get(ctx, key)
	if err != nil || s == nil || len(s.Value) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(s.Value, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return strings.TrimSpace(string(s.Value))
	}
}
