package mysql

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.SaleRepository    = (*SaleRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
	_ repository.RefundRepository  = (*RefundRepo)(nil)
)

const saleColumns = `id, invoice_number, customer_id, location_id, user_id, subtotal, tax_amount, discount_amount,
	total, paid_amount, payment_status, status, notes, loyalty_points_earned, created_at, updated_at`

const saleItemColumns = `id, sale_id, item_id, sku, name, quantity, unit_price, unit_cost, discount,
	tax_rate, tax_amount, line_total`

// SaleRepo cabeceras y líneas de venta.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row scanner) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.InvoiceNumber, &s.CustomerID, &s.LocationID, &s.UserID, &s.Subtotal, &s.TaxAmount, &s.DiscountAmount,
		&s.Total, &s.PaidAmount, &s.PaymentStatus, &s.Status, &s.Notes, &s.LoyaltyPointsEarned, &s.CreatedAt, &s.UpdatedAt,
	)
	return &s, err
}

func scanSaleItem(row scanner) (*entity.SaleItem, error) {
	var it entity.SaleItem
	err := row.Scan(
		&it.ID, &it.SaleID, &it.ItemID, &it.SKU, &it.Name, &it.Quantity, &it.UnitPrice, &it.UnitCost, &it.Discount,
		&it.TaxRate, &it.TaxAmount, &it.LineTotal,
	)
	return &it, err
}

// Create inserta cabecera y líneas; llamar dentro de RunSale.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if _, err := r.q.ExecContext(ctx,
		`INSERT INTO sales (`+saleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.InvoiceNumber, s.CustomerID, s.LocationID, s.UserID, s.Subtotal, s.TaxAmount, s.DiscountAmount,
		s.Total, s.PaidAmount, s.PaymentStatus, s.Status, s.Notes, s.LoyaltyPointsEarned, s.CreatedAt, s.UpdatedAt,
	); err != nil {
		return writeErr("insert sale", err)
	}

	const line = `INSERT INTO sales_items (` + saleItemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, it := range s.Items {
		if _, err := r.q.ExecContext(ctx, line,
			it.ID, s.ID, it.ItemID, it.SKU, it.Name, it.Quantity, it.UnitPrice, it.UnitCost, it.Discount,
			it.TaxRate, it.TaxAmount, it.LineTotal,
		); err != nil {
			return writeErr("insert sale item", err)
		}
	}
	return nil
}

func (r *SaleRepo) withItems(ctx context.Context, s *entity.Sale, err error) (*entity.Sale, error) {
	if err != nil || s == nil {
		return s, err
	}
	items, err := getMany(ctx, r.q, "list sale items", scanSaleItem,
		`SELECT `+saleItemColumns+` FROM sales_items WHERE sale_id = ? ORDER BY sku, id`, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = deref(items)
	return s, nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := getOne(ctx, r.q, "get sale", scanSale, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id)
	return r.withItems(ctx, s, err)
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := getOne(ctx, r.q, "get sale for update", scanSale, `SELECT `+saleColumns+` FROM sales WHERE id = ? FOR UPDATE`, id)
	return r.withItems(ctx, s, err)
}

func (r *SaleRepo) GetByInvoiceNumber(ctx context.Context, number string) (*entity.Sale, error) {
	s, err := getOne(ctx, r.q, "get sale by invoice", scanSale, `SELECT `+saleColumns+` FROM sales WHERE invoice_number = ?`, number)
	return r.withItems(ctx, s, err)
}

func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	w := &where{}
	if f.From != nil {
		w.and("created_at >= " + w.arg(*f.From))
	}
	if f.To != nil {
		w.and("created_at <= " + w.arg(*f.To))
	}
	if f.Status != "" {
		w.and("status = " + w.arg(f.Status))
	}
	if f.PaymentStatus != "" {
		w.and("payment_status = " + w.arg(f.PaymentStatus))
	}
	if f.CustomerID != "" {
		w.and("customer_id = " + w.arg(f.CustomerID))
	}
	if f.LocationID != "" {
		w.and("location_id = " + w.arg(f.LocationID))
	}
	return list(ctx, r.q, "list sales", "sales", saleColumns, "created_at DESC", w, f.Page, scanSale)
}

func (r *SaleRepo) UpdatePayment(ctx context.Context, s *entity.Sale) error {
	res, err := r.q.ExecContext(ctx, `UPDATE sales SET paid_amount = ?, payment_status = ?, updated_at = ? WHERE id = ?`,
		s.PaidAmount, s.PaymentStatus, s.UpdatedAt, s.ID)
	return mustAffect("update sale payment", res, err)
}

func (r *SaleRepo) UpdateStatus(ctx context.Context, s *entity.Sale) error {
	res, err := r.q.ExecContext(ctx, `UPDATE sales SET status = ?, notes = ?, updated_at = ? WHERE id = ?`,
		s.Status, s.Notes, s.UpdatedAt, s.ID)
	return mustAffect("update sale status", res, err)
}

type PaymentRepo struct {
	q Querier
}

func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, sale_id, payment_method_id, method, amount, refunded_amount, status, reference,
	external_id, processed_by, created_at, updated_at`

func scanPayment(row scanner) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID, &p.SaleID, &p.PaymentMethodID, &p.Method, &p.Amount, &p.RefundedAmount, &p.Status, &p.Reference,
		&p.ExternalID, &p.ProcessedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	return &p, err
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SaleID, p.PaymentMethodID, p.Method, p.Amount, p.RefundedAmount, p.Status, p.Reference,
		p.ExternalID, p.ProcessedBy, p.CreatedAt, p.UpdatedAt,
	)
	return writeErr("insert payment", err)
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return getOne(ctx, r.q, "get payment", scanPayment, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)
}

func (r *PaymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return getOne(ctx, r.q, "get payment for update", scanPayment, `SELECT `+paymentColumns+` FROM payments WHERE id = ? FOR UPDATE`, id)
}

func (r *PaymentRepo) GetByExternalID(ctx context.Context, externalID string) (*entity.Payment, error) {
	if externalID == "" {
		return nil, nil
	}
	return getOne(ctx, r.q, "get payment by external id", scanPayment,
		`SELECT `+paymentColumns+` FROM payments WHERE external_id = ?`, externalID)
}

func (r *PaymentRepo) List(ctx context.Context, f repository.PaymentFilter) ([]*entity.Payment, int, error) {
	w := &where{}
	if f.SaleID != "" {
		w.and("sale_id = " + w.arg(f.SaleID))
	}
	if f.Method != "" {
		w.and("method = " + w.arg(f.Method))
	}
	if f.Status != "" {
		w.and("status = " + w.arg(f.Status))
	}
	if f.From != nil {
		w.and("created_at >= " + w.arg(*f.From))
	}
	if f.To != nil {
		w.and("created_at <= " + w.arg(*f.To))
	}
	return list(ctx, r.q, "list payments", "payments", paymentColumns, "created_at DESC", w, f.Page, scanPayment)
}

func (r *PaymentRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.Payment, error) {
	return getMany(ctx, r.q, "list sale payments", scanPayment,
		`SELECT `+paymentColumns+` FROM payments WHERE sale_id = ? ORDER BY created_at`, saleID)
}

func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE payments SET status = ?, refunded_amount = ?, external_id = ?, updated_at = ? WHERE id = ?`,
		p.Status, p.RefundedAmount, p.ExternalID, p.UpdatedAt, p.ID)
	return mustAffect("update payment", res, err)
}

type RefundRepo struct {
	q Querier
}

func NewRefundRepository(q Querier) *RefundRepo {
	return &RefundRepo{q: q}
}

const refundColumns = `id, payment_id, sale_id, amount, reason, status, external_id, processed_by, created_at`

func scanRefund(row scanner) (*entity.Refund, error) {
	var rf entity.Refund
	err := row.Scan(&rf.ID, &rf.PaymentID, &rf.SaleID, &rf.Amount, &rf.Reason, &rf.Status, &rf.ExternalID, &rf.ProcessedBy, &rf.CreatedAt)
	return &rf, err
}

func (r *RefundRepo) Create(ctx context.Context, rf *entity.Refund) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO refunds (`+refundColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rf.ID, rf.PaymentID, rf.SaleID, rf.Amount, rf.Reason, rf.Status, rf.ExternalID, rf.ProcessedBy, rf.CreatedAt)
	return writeErr("insert refund", err)
}

func (r *RefundRepo) List(ctx context.Context, paymentID string, p repository.Page) ([]*entity.Refund, int, error) {
	w := &where{}
	if paymentID != "" {
		w.and("payment_id = " + w.arg(paymentID))
	}
	return list(ctx, r.q, "list refunds", "refunds", refundColumns, "created_at DESC", w, p, scanRefund)
}
