package postgres

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.TaxRateRepository       = (*TaxRateRepo)(nil)
	_ repository.PaymentMethodRepository = (*PaymentMethodRepo)(nil)
	_ repository.SettingRepository       = (*SettingRepo)(nil)
	_ repository.MessageLogRepository    = (*MessageLogRepo)(nil)
)

// TaxRateRepo tarifas de impuesto.
type TaxRateRepo struct {
	q Querier
}

// NewTaxRateRepository construye el adaptador.
func NewTaxRateRepository(q Querier) *TaxRateRepo {
	return &TaxRateRepo{q: q}
}

const taxRateColumns = `id, name, rate, is_default, status, created_at, updated_at`

func scanTaxRate(row scanner) (*entity.TaxRate, error) {
	var t entity.TaxRate
	err := row.Scan(&t.ID, &t.Name, &t.Rate, &t.IsDefault, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *TaxRateRepo) Create(ctx context.Context, t *entity.TaxRate) error {
	_, err := r.q.Exec(ctx, `INSERT INTO tax_rates (`+taxRateColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Name, t.Rate, t.IsDefault, t.Status, t.CreatedAt, t.UpdatedAt)
	return writeErr("insert tax rate", err)
}

func (r *TaxRateRepo) GetByID(ctx context.Context, id string) (*entity.TaxRate, error) {
	return getOne(ctx, r.q, "get tax rate", scanTaxRate, `SELECT `+taxRateColumns+` FROM tax_rates WHERE id = $1`, id)
}

// GetDefault tarifa activa marcada como predeterminada.
func (r *TaxRateRepo) GetDefault(ctx context.Context) (*entity.TaxRate, error) {
	return getOne(ctx, r.q, "get default tax rate", scanTaxRate,
		`SELECT `+taxRateColumns+` FROM tax_rates WHERE is_default AND status = $1 ORDER BY created_at LIMIT 1`, entity.StatusActive)
}

func (r *TaxRateRepo) List(ctx context.Context) ([]*entity.TaxRate, error) {
	return getMany(ctx, r.q, "list tax rates", scanTaxRate, `SELECT `+taxRateColumns+` FROM tax_rates ORDER BY rate, name`)
}

func (r *TaxRateRepo) Update(ctx context.Context, t *entity.TaxRate) error {
	tag, err := r.q.Exec(ctx, `UPDATE tax_rates SET name = $2, rate = $3, is_default = $4, status = $5, updated_at = $6 WHERE id = $1`,
		t.ID, t.Name, t.Rate, t.IsDefault, t.Status, t.UpdatedAt)
	return mustAffect("update tax rate", tag, err)
}

func (r *TaxRateRepo) ClearDefault(ctx context.Context, exceptID string) error {
	_, err := r.q.Exec(ctx, `UPDATE tax_rates SET is_default = FALSE WHERE is_default AND id <> $1`, exceptID)
	return writeErr("clear default tax rate", err)
}

// PaymentMethodRepo catálogo de métodos de pago.
type PaymentMethodRepo struct {
	q Querier
}

// NewPaymentMethodRepository construye el adaptador.
func NewPaymentMethodRepository(q Querier) *PaymentMethodRepo {
	return &PaymentMethodRepo{q: q}
}

const paymentMethodColumns = `id, code, name, is_active, requires_reference, created_at, updated_at`

func scanPaymentMethod(row scanner) (*entity.PaymentMethod, error) {
	var m entity.PaymentMethod
	err := row.Scan(&m.ID, &m.Code, &m.Name, &m.IsActive, &m.RequiresReference, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *PaymentMethodRepo) Create(ctx context.Context, m *entity.PaymentMethod) error {
	_, err := r.q.Exec(ctx, `INSERT INTO payment_methods (`+paymentMethodColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Code, m.Name, m.IsActive, m.RequiresReference, m.CreatedAt, m.UpdatedAt)
	return writeErr("insert payment method", err)
}

func (r *PaymentMethodRepo) GetByID(ctx context.Context, id string) (*entity.PaymentMethod, error) {
	return getOne(ctx, r.q, "get payment method", scanPaymentMethod, `SELECT `+paymentMethodColumns+` FROM payment_methods WHERE id = $1`, id)
}

func (r *PaymentMethodRepo) GetByCode(ctx context.Context, code string) (*entity.PaymentMethod, error) {
	return getOne(ctx, r.q, "get payment method by code", scanPaymentMethod,
		`SELECT `+paymentMethodColumns+` FROM payment_methods WHERE LOWER(code) = LOWER($1)`, code)
}

func (r *PaymentMethodRepo) List(ctx context.Context, onlyActive bool) ([]*entity.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods`
	if onlyActive {
		query += ` WHERE is_active`
	}
	return getMany(ctx, r.q, "list payment methods", scanPaymentMethod, query+` ORDER BY created_at`)
}

// Update nombre, activo y si exige referencia; el código es inmutable.
func (r *PaymentMethodRepo) Update(ctx context.Context, m *entity.PaymentMethod) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE payment_methods SET name = $2, is_active = $3, requires_reference = $4, updated_at = $5 WHERE id = $1`,
		m.ID, m.Name, m.IsActive, m.RequiresReference, m.UpdatedAt)
	return mustAffect("update payment method", tag, err)
}

// SettingRepo configuración clave/valor en JSONB.
type SettingRepo struct {
	q Querier
}

// NewSettingRepository construye el adaptador.
func NewSettingRepository(q Querier) *SettingRepo {
	return &SettingRepo{q: q}
}

func scanSetting(row scanner) (*entity.Setting, error) {
	var s entity.Setting
	var value []byte
	if err := row.Scan(&s.Key, &value, &s.Description, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Value = value
	return &s, nil
}

func (r *SettingRepo) Get(ctx context.Context, key string) (*entity.Setting, error) {
	return getOne(ctx, r.q, "get setting", scanSetting, `SELECT key, value, description, updated_at FROM settings WHERE key = $1`, key)
}

func (r *SettingRepo) List(ctx context.Context) ([]*entity.Setting, error) {
	return getMany(ctx, r.q, "list settings", scanSetting, `SELECT key, value, description, updated_at FROM settings ORDER BY key`)
}

// Upsert reemplaza el valor; una descripción vacía conserva la existente.
func (r *SettingRepo) Upsert(ctx context.Context, s *entity.Setting) error {
	const query = `
		INSERT INTO settings (key, value, description, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			description = CASE WHEN EXCLUDED.description = '' THEN settings.description ELSE EXCLUDED.description END,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, s.Key, []byte(s.Value), s.Description, s.UpdatedAt)
	return writeErr("upsert setting", err)
}

func (r *SettingRepo) InsertIfMissing(ctx context.Context, s *entity.Setting) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO settings (key, value, description, updated_at) VALUES ($1, $2, $3, $4) ON CONFLICT (key) DO NOTHING`,
		s.Key, []byte(s.Value), s.Description, s.UpdatedAt)
	return writeErr("seed setting", err)
}

// MessageLogRepo registro de SMS/WhatsApp enviados.
type MessageLogRepo struct {
	q Querier
}

// NewMessageLogRepository construye el adaptador.
func NewMessageLogRepository(q Querier) *MessageLogRepo {
	return &MessageLogRepo{q: q}
}

const messageLogColumns = `id, customer_id, phone, channel, template, body, status, provider_id, error, sent_by, created_at`

func scanMessageLog(row scanner) (*entity.MessageLog, error) {
	var m entity.MessageLog
	err := row.Scan(&m.ID, &m.CustomerID, &m.Phone, &m.Channel, &m.Template, &m.Body, &m.Status, &m.ProviderID, &m.Error, &m.SentBy, &m.CreatedAt)
	return &m, err
}

func (r *MessageLogRepo) Create(ctx context.Context, m *entity.MessageLog) error {
	_, err := r.q.Exec(ctx, `INSERT INTO message_logs (`+messageLogColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.CustomerID, m.Phone, m.Channel, m.Template, m.Body, m.Status, m.ProviderID, m.Error, m.SentBy, m.CreatedAt)
	return writeErr("insert message log", err)
}

func (r *MessageLogRepo) List(ctx context.Context, f repository.MessageLogFilter) ([]*entity.MessageLog, int, error) {
	w := &where{}
	if f.CustomerID != "" {
		w.and("customer_id = " + w.arg(f.CustomerID))
	}
	if f.Channel != "" {
		w.and("channel = " + w.arg(f.Channel))
	}
	if f.Status != "" {
		w.and("status = " + w.arg(f.Status))
	}
	return list(ctx, r.q, "list message logs", "message_logs", messageLogColumns, "created_at DESC", w, f.Page, scanMessageLog)
}
