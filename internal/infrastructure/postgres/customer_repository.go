package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.PartnerRepository  = (*PartnerRepo)(nil)
)

const customerColumns = `id, customer_code, first_name, last_name, email, phone, address, city, notes,
	loyalty_points, total_spent, visit_count, last_visit, marketing_opt_in, status, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row scanner) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.CustomerCode, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.City, &c.Notes,
		&c.LoyaltyPoints, &c.TotalSpent, &c.VisitCount, &c.LastVisit, &c.MarketingOptIn, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return &c, err
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	const query = `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CustomerCode, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.City, c.Notes,
		c.LoyaltyPoints, c.TotalSpent, c.VisitCount, c.LastVisit, c.MarketingOptIn, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	return writeErr("insert customer", err)
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return getOne(ctx, r.q, "get customer", scanCustomer, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del cliente hasta el fin de la transacción.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return getOne(ctx, r.q, "get customer for update", scanCustomer,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id)
}

// GetByCode obtiene un cliente por su código (sin distinguir mayúsculas).
func (r *CustomerRepo) GetByCode(ctx context.Context, code string) (*entity.Customer, error) {
	return getOne(ctx, r.q, "get customer by code", scanCustomer,
		`SELECT `+customerColumns+` FROM customers WHERE UPPER(customer_code) = UPPER($1)`, code)
}

// List clientes filtrados por estado y texto libre, más recientes primero.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	w := &where{}
	if f.Status != "" {
		w.and("status = " + w.arg(f.Status))
	}
	w.like(f.Search, "first_name || ' ' || last_name", "email", "phone", "customer_code")
	return list(ctx, r.q, "list customers", "customers", customerColumns, "created_at DESC", w, f.Page, scanCustomer)
}

// Update datos de contacto y estado; los acumulados de lealtad no se tocan aquí.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	const query = `
		UPDATE customers SET customer_code = $2, first_name = $3, last_name = $4, email = $5, phone = $6,
			address = $7, city = $8, notes = $9, marketing_opt_in = $10, status = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.CustomerCode, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.City, c.Notes,
		c.MarketingOptIn, c.Status, c.UpdatedAt,
	)
	return mustAffect("update customer", tag, err)
}

// UpdateLoyalty persiste puntos y métricas de compra.
func (r *CustomerRepo) UpdateLoyalty(ctx context.Context, c *entity.Customer) error {
	const query = `
		UPDATE customers SET loyalty_points = $2, total_spent = $3, visit_count = $4, last_visit = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.LoyaltyPoints, c.TotalSpent, c.VisitCount, c.LastVisit, c.UpdatedAt)
	return mustAffect("update loyalty", tag, err)
}

// AddLoyaltyPoints ajuste relativo; la condición del WHERE impide dejar el saldo negativo.
func (r *CustomerRepo) AddLoyaltyPoints(ctx context.Context, id string, delta int, at time.Time) error {
	const query = `
		UPDATE customers SET loyalty_points = loyalty_points + $2, updated_at = $3
		WHERE id = $1 AND loyalty_points + $2 >= 0`
	tag, err := r.q.Exec(ctx, query, id, delta, at)
	if err != nil {
		return writeErr("add loyalty points", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("add loyalty points: %w", err)
	}
	if !exists {
		return fmt.Errorf("add loyalty points: %w", domain.ErrNotFound)
	}
	return domain.ErrInsufficientPoints
}

// PartnerRepo socios e inversiones.
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador.
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

const partnerColumns = `id, name, email, phone, ownership_pct, status, notes, created_at, updated_at`

func scanPartner(row scanner) (*entity.Partner, error) {
	var p entity.Partner
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.OwnershipPct, &p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *PartnerRepo) Create(ctx context.Context, p *entity.Partner) error {
	const query = `INSERT INTO partners (` + partnerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Email, p.Phone, p.OwnershipPct, p.Status, p.Notes, p.CreatedAt, p.UpdatedAt)
	return writeErr("insert partner", err)
}

func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	return getOne(ctx, r.q, "get partner", scanPartner, `SELECT `+partnerColumns+` FROM partners WHERE id = $1`, id)
}

func (r *PartnerRepo) List(ctx context.Context, status string) ([]*entity.Partner, error) {
	if status == "" {
		return getMany(ctx, r.q, "list partners", scanPartner, `SELECT `+partnerColumns+` FROM partners ORDER BY name`)
	}
	return getMany(ctx, r.q, "list partners", scanPartner,
		`SELECT `+partnerColumns+` FROM partners WHERE status = $1 ORDER BY name`, status)
}

func (r *PartnerRepo) Update(ctx context.Context, p *entity.Partner) error {
	const query = `
		UPDATE partners SET name = $2, email = $3, phone = $4, ownership_pct = $5, status = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Email, p.Phone, p.OwnershipPct, p.Status, p.Notes, p.UpdatedAt)
	return mustAffect("update partner", tag, err)
}

const investmentColumns = `id, partner_id, amount, invested_at, notes, created_by, created_at`

func scanInvestment(row scanner) (*entity.Investment, error) {
	var inv entity.Investment
	err := row.Scan(&inv.ID, &inv.PartnerID, &inv.Amount, &inv.InvestedAt, &inv.Notes, &inv.CreatedBy, &inv.CreatedAt)
	return &inv, err
}

func (r *PartnerRepo) CreateInvestment(ctx context.Context, inv *entity.Investment) error {
	const query = `INSERT INTO investments (` + investmentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, inv.ID, inv.PartnerID, inv.Amount, inv.InvestedAt, inv.Notes, inv.CreatedBy, inv.CreatedAt)
	return writeErr("insert investment", err)
}

func (r *PartnerRepo) ListInvestments(ctx context.Context, partnerID string) ([]*entity.Investment, error) {
	return getMany(ctx, r.q, "list investments", scanInvestment,
		`SELECT `+investmentColumns+` FROM investments WHERE partner_id = $1 ORDER BY invested_at DESC`, partnerID)
}

// TotalInvested suma de aportes del socio; cero si no tiene.
func (r *PartnerRepo) TotalInvested(ctx context.Context, partnerID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM investments WHERE partner_id = $1`, partnerID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total invested: %w", err)
	}
	return total, nil
}
