package mysql

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

// CustomerRepo clientes y sus acumulados de lealtad.
type CustomerRepo struct {
	q Querier
}

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

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	const query = `
		INSERT INTO customers (` + customerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		c.ID, c.CustomerCode, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.City, c.Notes,
		c.LoyaltyPoints, c.TotalSpent, c.VisitCount, c.LastVisit, c.MarketingOptIn, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	return writeErr("insert customer", err)
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return getOne(ctx, r.q, "get customer", scanCustomer, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
}

// GetForUpdate bloqueo de fila InnoDB; solo dentro de RunSale.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return getOne(ctx, r.q, "get customer for update", scanCustomer,
		`SELECT `+customerColumns+` FROM customers WHERE id = ? FOR UPDATE`, id)
}

func (r *CustomerRepo) GetByCode(ctx context.Context, code string) (*entity.Customer, error) {
	return getOne(ctx, r.q, "get customer by code", scanCustomer,
		`SELECT `+customerColumns+` FROM customers WHERE customer_code = ?`, code)
}

func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	w := &where{}
	if f.Status != "" {
		w.and("status = " + w.arg(f.Status))
	}
	w.like(f.Search, "CONCAT(first_name, ' ', last_name)", "email", "phone", "customer_code")
	return list(ctx, r.q, "list customers", "customers", customerColumns, "created_at DESC", w, f.Page, scanCustomer)
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	const query = `
		UPDATE customers SET customer_code = ?, first_name = ?, last_name = ?, email = ?, phone = ?,
			address = ?, city = ?, notes = ?, marketing_opt_in = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query,
		c.CustomerCode, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.City, c.Notes,
		c.MarketingOptIn, c.Status, c.UpdatedAt, c.ID,
	)
	return mustAffect("update customer", res, err)
}

func (r *CustomerRepo) UpdateLoyalty(ctx context.Context, c *entity.Customer) error {
	const query = `
		UPDATE customers SET loyalty_points = ?, total_spent = ?, visit_count = ?, last_visit = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query, c.LoyaltyPoints, c.TotalSpent, c.VisitCount, c.LastVisit, c.UpdatedAt, c.ID)
	return mustAffect("update loyalty", res, err)
}

// AddLoyaltyPoints ajuste relativo; la condición del WHERE impide dejar el saldo negativo.
func (r *CustomerRepo) AddLoyaltyPoints(ctx context.Context, id string, delta int, at time.Time) error {
	const query = `
		UPDATE customers SET loyalty_points = loyalty_points + ?, updated_at = ?
		WHERE id = ? AND loyalty_points + ? >= 0`
	res, err := r.q.ExecContext(ctx, query, delta, at, id, delta)
	if err != nil {
		return writeErr("add loyalty points", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add loyalty points: %w", err)
	}
	if n == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = ?)`, id).Scan(&exists); err != nil {
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
	_, err := r.q.ExecContext(ctx, `INSERT INTO partners (`+partnerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.Phone, p.OwnershipPct, p.Status, p.Notes, p.CreatedAt, p.UpdatedAt)
	return writeErr("insert partner", err)
}

func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	return getOne(ctx, r.q, "get partner", scanPartner, `SELECT `+partnerColumns+` FROM partners WHERE id = ?`, id)
}

func (r *PartnerRepo) List(ctx context.Context, status string) ([]*entity.Partner, error) {
	w := &where{}
	if status != "" {
		w.and("status = " + w.arg(status))
	}
	return getMany(ctx, r.q, "list partners", scanPartner,
		`SELECT `+partnerColumns+` FROM partners`+w.sql()+` ORDER BY name`, w.args...)
}

func (r *PartnerRepo) Update(ctx context.Context, p *entity.Partner) error {
	const query = `
		UPDATE partners SET name = ?, email = ?, phone = ?, ownership_pct = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query, p.Name, p.Email, p.Phone, p.OwnershipPct, p.Status, p.Notes, p.UpdatedAt, p.ID)
	return mustAffect("update partner", res, err)
}

const investmentColumns = `id, partner_id, amount, invested_at, notes, created_by, created_at`

func scanInvestment(row scanner) (*entity.Investment, error) {
	var inv entity.Investment
	err := row.Scan(&inv.ID, &inv.PartnerID, &inv.Amount, &inv.InvestedAt, &inv.Notes, &inv.CreatedBy, &inv.CreatedAt)
	return &inv, err
}

func (r *PartnerRepo) CreateInvestment(ctx context.Context, inv *entity.Investment) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO investments (`+investmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.PartnerID, inv.Amount, inv.InvestedAt, inv.Notes, inv.CreatedBy, inv.CreatedAt)
	return writeErr("insert investment", err)
}

func (r *PartnerRepo) ListInvestments(ctx context.Context, partnerID string) ([]*entity.Investment, error) {
	return getMany(ctx, r.q, "list investments", scanInvestment,
		`SELECT `+investmentColumns+` FROM investments WHERE partner_id = ? ORDER BY invested_at DESC`, partnerID)
}

func (r *PartnerRepo) TotalInvested(ctx context.Context, partnerID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM investments WHERE partner_id = ?`, partnerID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total invested: %w", err)
	}
	return total, nil
}
