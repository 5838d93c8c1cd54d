package mysql

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

type TaxRateRepo struct {
	q Querier
}

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
	_, err := r.q.ExecContext(ctx, `INSERT INTO tax_rates (`+taxRateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Rate, t.IsDefault, t.Status, t.CreatedAt, t.UpdatedAt)
	return writeErr("insert tax rate", err)
}

func (r *TaxRateRepo) GetByID(ctx context.Context, id string) (*entity.TaxRate, error) {
	return getOne(ctx, r.q, "get tax rate", scanTaxRate, `SELECT `+taxRateColumns+` FROM tax_rates WHERE id = ?`, id)
}

func (r *TaxRateRepo) GetDefault(ctx context.Context) (*entity.TaxRate, error) {
	return getOne(ctx, r.q, "get default tax rate", scanTaxRate,
		`SELECT `+taxRateColumns+` FROM tax_rates WHERE is_default = TRUE AND status = ? ORDER BY created_at LIMIT 1`, entity.StatusActive)
}

func (r *TaxRateRepo) List(ctx context.Context) ([]*entity.TaxRate, error) {
	return getMany(ctx, r.q, "list tax rates", scanTaxRate, `SELECT `+taxRateColumns+` FROM tax_rates ORDER BY rate, name`)
}

func (r *TaxRateRepo) Update(ctx context.Context, t *entity.TaxRate) error {
	res, err := r.q.ExecContext(ctx, `UPDATE tax_rates SET name = ?, rate = ?, is_default = ?, status = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Rate, t.IsDefault, t.Status, t.UpdatedAt, t.ID)
	return mustAffect("update tax rate", res, err)
}

func (r *TaxRateRepo) ClearDefault(ctx context.Context, exceptID string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE tax_rates SET is_default = FALSE WHERE is_default = TRUE AND id <> ?`, exceptID)
	return writeErr("clear default tax rate", err)
}

type PaymentMethodRepo struct {
	q Querier
}

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
	_, err := r.q.ExecContext(ctx, `INSERT INTO payment_methods (`+paymentMethodColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Code, m.Name, m.IsActive, m.RequiresReference, m.CreatedAt, m.UpdatedAt)
	return writeErr("insert payment method", err)
}

func (r *PaymentMethodRepo) GetByID(ctx context.Context, id string) (*entity.PaymentMethod, error) {
	return getOne(ctx, r.q, "get payment method", scanPaymentMethod, `SELECT `+paymentMethodColumns+` FROM payment_methods WHERE id = ?`, id)
}

func (r *PaymentMethodRepo) GetByCode(ctx context.Context, code string) (*entity.PaymentMethod, error) {
	return getOne(ctx, r.q, "get payment method by code", scanPaymentMethod,
		`SELECT `+paymentMethodColumns+` FROM payment_methods WHERE code = ?`, code)
}

func (r *PaymentMethodRepo) List(ctx context.Context, onlyActive bool) ([]*entity.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods`
	if onlyActive {
		query += ` WHERE is_active = TRUE`
	}
	return getMany(ctx, r.q, "list payment methods", scanPaymentMethod, query+` ORDER BY created_at`)
}

func (r *PaymentMethodRepo) Update(ctx context.Context, m *entity.PaymentMethod) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE payment_methods SET name = ?, is_active = ?, requires_reference = ?, updated_at = ? WHERE id = ?`,
		m.Name, m.IsActive, m.RequiresReference, m.UpdatedAt, m.ID)
	return mustAffect("update payment method", res, err)
}

// SettingRepo clave/valor; "key" es palabra reservada en MySQL.
type SettingRepo struct {
	q Querier
}

func NewSettingRepository(q Querier) *SettingRepo {
	return &SettingRepo{q: q}
}

const settingColumns = "`key`, value, description, updated_at"

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
	return getOne(ctx, r.q, "get setting", scanSetting, "SELECT "+settingColumns+" FROM settings WHERE `key` = ?", key)
}

func (r *SettingRepo) List(ctx context.Context) ([]*entity.Setting, error) {
	return getMany(ctx, r.q, "list settings", scanSetting, "SELECT "+settingColumns+" FROM settings ORDER BY `key`")
}

// Upsert una descripción vacía conserva la existente.
func (r *SettingRepo) Upsert(ctx context.Context, s *entity.Setting) error {
	const query = "INSERT INTO settings (" + settingColumns + ") VALUES (?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE value = VALUES(value), " +
		"description = IF(VALUES(description) = '', description, VALUES(description)), " +
		"updated_at = VALUES(updated_at)"
	_, err := r.q.ExecContext(ctx, query, s.Key, string(s.Value), s.Description, s.UpdatedAt)
	return writeErr("upsert setting", err)
}

func (r *SettingRepo) InsertIfMissing(ctx context.Context, s *entity.Setting) error {
	_, err := r.q.ExecContext(ctx, "INSERT IGNORE INTO settings ("+settingColumns+") VALUES (?, ?, ?, ?)",
		s.Key, string(s.Value), s.Description, s.UpdatedAt)
	return writeErr("seed setting", err)
}

type MessageLogRepo struct {
	q Querier
}

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
	_, err := r.q.ExecContext(ctx, `INSERT INTO message_logs (`+messageLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
