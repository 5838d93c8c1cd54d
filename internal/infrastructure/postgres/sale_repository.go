package postgres

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

// SaleRepo cabeceras (sales) y líneas (sales_items).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
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

// Create inserta la cabecera y sus líneas. Debe llamarse dentro de RunSale.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	const header = `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	if _, err := r.q.Exec(ctx, header,
		s.ID, s.InvoiceNumber, s.CustomerID, s.LocationID, s.UserID, s.Subtotal, s.TaxAmount, s.DiscountAmount,
		s.Total, s.PaidAmount, s.PaymentStatus, s.Status, s.Notes, s.LoyaltyPointsEarned, s.CreatedAt, s.UpdatedAt,
	); err != nil {
		return writeErr("insert sale", err)
	}

	const line = `
		INSERT INTO sales_items (` + saleItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, it := range s.Items {
		if _, err := r.q.Exec(ctx, line,
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
		`SELECT `+saleItemColumns+` FROM sales_items WHERE sale_id = $1 ORDER BY sku, id`, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = make([]entity.SaleItem, 0, len(items))
	for _, it := range items {
		s.Items = append(s.Items, *it)
	}
	return s, nil
}

// GetByID venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := getOne(ctx, r.q, "get sale", scanSale, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	return r.withItems(ctx, s, err)
}

// GetForUpdate bloquea la cabecera; las líneas son inmutables.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := getOne(ctx, r.q, "get sale for update", scanSale, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
	return r.withItems(ctx, s, err)
}

func (r *SaleRepo) GetByInvoiceNumber(ctx context.Context, number string) (*entity.Sale, error) {
	s, err := getOne(ctx, r.q, "get sale by invoice", scanSale, `SELECT `+saleColumns+` FROM sales WHERE invoice_number = $1`, number)
	return r.withItems(ctx, s, err)
}

// List cabeceras sin líneas, más recientes primero.
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
	tag, err := r.q.Exec(ctx, `UPDATE sales SET paid_amount = $2, payment_status = $3, updated_at = $4 WHERE id = $1`,
		s.ID, s.PaidAmount, s.PaymentStatus, s.UpdatedAt)
	return mustAffect("update sale payment", tag, err)
}

func (r *SaleRepo) UpdateStatus(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx, `UPDATE sales SET status = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		s.ID, s.Status, s.Notes, s.UpdatedAt)
	return mustAffect("update sale status", tag, err)
}

// PaymentRepo pagos contra ventas.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
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
	const query = `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SaleID, p.PaymentMethodID, p.Method, p.Amount, p.RefundedAmount, p.Status, p.Reference,
		p.ExternalID, p.ProcessedBy, p.CreatedAt, p.UpdatedAt,
	)
	return writeErr("insert payment", err)
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return getOne(ctx, r.q, "get payment", scanPayment, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r *PaymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return getOne(ctx, r.q, "get payment for update", scanPayment, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
}

// GetByExternalID pago asociado a un PaymentIntent del procesador.
func (r *PaymentRepo) GetByExternalID(ctx context.Context, externalID string) (*entity.Payment, error) {
	if externalID == "" {
		return nil, nil
	}
	return getOne(ctx, r.q, "get payment by external id", scanPayment,
		`SELECT `+paymentColumns+` FROM payments WHERE external_id = $1`, externalID)
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
		`SELECT `+paymentColumns+` FROM payments WHERE sale_id = $1 ORDER BY created_at`, saleID)
}

func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE payments SET status = $2, refunded_amount = $3, external_id = $4, updated_at = $5 WHERE id = $1`,
		p.ID, p.Status, p.RefundedAmount, p.ExternalID, p.UpdatedAt)
	return mustAffect("update payment", tag, err)
}

// RefundRepo reembolsos.
type RefundRepo struct {
	q Querier
}

// NewRefundRepository construye el adaptador.
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
	_, err := r.q.Exec(ctx, `INSERT INTO refunds (`+refundColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rf.ID, rf.PaymentID, rf.SaleID, rf.Amount, rf.Reason, rf.Status, rf.ExternalID, rf.ProcessedBy, rf.CreatedAt)
	return writeErr("insert refund", err)
}

// List reembolsos más recientes primero; paymentID vacío = todos.
func (r *RefundRepo) List(ctx context.Context, paymentID string, p repository.Page) ([]*entity.Refund, int, error) {
	w := &where{}
	if paymentID != "" {
		w.and("payment_id = " + w.arg(paymentID))
	}
	return list(ctx, r.q, "list refunds", "refunds", refundColumns, "created_at DESC", w, p, scanRefund)
}
