// Package setup siembra los datos mínimos para operar una tienda recién instalada.
// Cada paso es idempotente: volver a ejecutarlo no duplica ni pisa datos.
package setup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// AdminSeed credenciales del administrador inicial.
type AdminSeed struct {
	Username   string
	Email      string
	Password   string
	BcryptCost int
}

// Seeder agrupa los repositorios que se siembran.
type Seeder struct {
	Users     repository.UserRepository
	Methods   repository.PaymentMethodRepository
	Settings  repository.SettingRepository
	TaxRates  repository.TaxRateRepository
	Locations repository.LocationRepository
	Log       *logger.Logger
}

type methodSeed struct {
	code, name  string
	requiresRef bool
}

var defaultMethods = []methodSeed{
	{entity.MethodCash, "Efectivo", false},
	{entity.MethodCard, "Tarjeta", false},
	{entity.MethodDigitalWallet, "Billetera digital", false},
	{entity.MethodBankTransfer, "Transferencia bancaria", true},
	{entity.MethodStoreCredit, "Crédito de tienda", false},
}

type settingSeed struct {
	key   string
	value any
	desc  string
}

var defaultSettings = []settingSeed{
	{entity.SettingStoreName, "Mi Tienda", "Nombre de la tienda en recibos y mensajes"},
	{entity.SettingCurrency, "USD", "Moneda ISO 4217"},
	{entity.SettingDefaultTaxRate, 0, "Tarifa de impuesto (%) para ítems sin tarifa"},
	{entity.SettingLoyaltyPointsRate, 1, "Puntos por unidad de moneda vendida"},
	{entity.SettingLowStockThreshold, 5, "Umbral por defecto de stock bajo"},
	{entity.SettingReceiptFooter, "Gracias por su compra", "Pie de los recibos"},
}

// Run ejecuta todos los pasos en orden.
func (s *Seeder) Run(ctx context.Context, admin AdminSeed) error {
	log := s.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("seed")
	now := time.Now()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"admin", func() error { return s.seedAdmin(ctx, admin, now) }},
		{"payment_methods", func() error { return s.seedMethods(ctx, now) }},
		{"settings", func() error { return s.seedSettings(ctx, now) }},
		{"tax_rate", func() error { return s.seedTaxRate(ctx, now) }},
		{"main_location", func() error { return s.seedLocation(ctx, now) }},
	}
	for _, st := range steps {
		if err := st.fn(); err != nil {
			return fmt.Errorf("seed %s: %w", st.name, err)
		}
		log.Debug().Str("step", st.name).Msg("semilla aplicada")
	}
	log.Info().Msg("datos iniciales verificados")
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context, admin AdminSeed, now time.Time) error {
	existing, err := s.Users.GetByUsername(ctx, admin.Username)
	if err != nil || existing != nil {
		return err
	}
	hash, err := auth.HashPassword(admin.Password, admin.BcryptCost)
	if err != nil {
		return err
	}
	return s.Users.Create(ctx, &entity.User{
		ID:           uuid.NewString(),
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: hash,
		FirstName:    "Administrador",
		Role:         entity.RoleAdmin,
		Permissions:  entity.PermissionSet{},
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *Seeder) seedMethods(ctx context.Context, now time.Time) error {
	for _, m := range defaultMethods {
		existing, err := s.Methods.GetByCode(ctx, m.code)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := s.Methods.Create(ctx, &entity.PaymentMethod{
			ID:                uuid.NewString(),
			Code:              m.code,
			Name:              m.name,
			IsActive:          true,
			RequiresReference: m.requiresRef,
			CreatedAt:         now,
			UpdatedAt:         now,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedSettings(ctx context.Context, now time.Time) error {
	for _, st := range defaultSettings {
		raw, err := json.Marshal(st.value)
		if err != nil {
			return err
		}
		if err := s.Settings.InsertIfMissing(ctx, &entity.Setting{
			Key:         st.key,
			Value:       raw,
			Description: st.desc,
			UpdatedAt:   now,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedTaxRate(ctx context.Context, now time.Time) error {
	list, err := s.TaxRates.List(ctx)
	if err != nil || len(list) > 0 {
		return err
	}
	return s.TaxRates.Create(ctx, &entity.TaxRate{
		ID:        uuid.NewString(),
		Name:      "Exento",
		Rate:      decimal.Zero,
		IsDefault: true,
		Status:    entity.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *Seeder) seedLocation(ctx context.Context, now time.Time) error {
	list, err := s.Locations.List(ctx, "")
	if err != nil || len(list) > 0 {
		return err
	}
	return s.Locations.Create(ctx, &entity.Location{
		ID:        uuid.NewString(),
		Name:      "Principal",
		IsMain:    true,
		Status:    entity.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
}
