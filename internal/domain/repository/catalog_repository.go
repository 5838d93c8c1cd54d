package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// TaxRateRepository tarifas de impuesto.
type TaxRateRepository interface {
	Create(ctx context.Context, t *entity.TaxRate) error
	GetByID(ctx context.Context, id string) (*entity.TaxRate, error)
	GetDefault(ctx context.Context) (*entity.TaxRate, error)
	List(ctx context.Context) ([]*entity.TaxRate, error)
	Update(ctx context.Context, t *entity.TaxRate) error
	// ClearDefault quita la marca is_default de todas las tarifas excepto exceptID.
	ClearDefault(ctx context.Context, exceptID string) error
}

// PaymentMethodRepository catálogo de métodos de pago.
type PaymentMethodRepository interface {
	Create(ctx context.Context, m *entity.PaymentMethod) error
	GetByID(ctx context.Context, id string) (*entity.PaymentMethod, error)
	GetByCode(ctx context.Context, code string) (*entity.PaymentMethod, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.PaymentMethod, error)
	Update(ctx context.Context, m *entity.PaymentMethod) error
}

// SettingRepository configuración clave/valor.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*entity.Setting, error)
	List(ctx context.Context) ([]*entity.Setting, error)
	Upsert(ctx context.Context, s *entity.Setting) error
	// InsertIfMissing no pisa valores existentes (semillas).
	InsertIfMissing(ctx context.Context, s *entity.Setting) error
}

// MessageLogRepository registro de mensajes salientes.
type MessageLogRepository interface {
	Create(ctx context.Context, m *entity.MessageLog) error
	List(ctx context.Context, f MessageLogFilter) ([]*entity.MessageLog, int, error)
}
