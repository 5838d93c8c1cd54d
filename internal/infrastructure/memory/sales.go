package memory

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct{ s *Store }

// Sales repositorio de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func cloneSale(s entity.Sale, withItems bool) *entity.Sale {
	if withItems {
		s.Items = append([]entity.SaleItem(nil), s.Items...)
	} else {
		s.Items = nil
	}
	return &s
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	defer r.s.writeLock()()
	for _, o := range r.s.d.sales.rows {
		if o.InvoiceNumber == sale.InvoiceNumber {
			return duplicate("invoice_number")
		}
	}
	put(r.s, r.s.d.sales, sale.ID, *cloneSale(*sale, true))
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	defer r.s.lock()()
	s, ok := r.s.d.sales.get(id)
	if !ok {
		return nil, nil
	}
	return cloneSale(s, true), nil
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) GetByInvoiceNumber(_ context.Context, number string) (*entity.Sale, error) {
	defer r.s.lock()()
	for _, s := range r.s.d.sales.rows {
		if s.InvoiceNumber == number {
			return cloneSale(s, true), nil
		}
	}
	return nil, nil
}

func saleMatches(s entity.Sale, f repository.SaleFilter) bool {
	if f.From != nil && s.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && s.CreatedAt.After(*f.To) {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.PaymentStatus != "" && s.PaymentStatus != f.PaymentStatus {
		return false
	}
	if f.CustomerID != "" && (s.CustomerID == nil || *s.CustomerID != f.CustomerID) {
		return false
	}
	if f.LocationID != "" && (s.LocationID == nil || *s.LocationID != f.LocationID) {
		return false
	}
	return true
}

// List sin líneas, más recientes primero.
func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	defer r.s.lock()()
	var rows []*entity.Sale
	for _, s := range r.s.d.sales.newest() {
		if saleMatches(s, f) {
			rows = append(rows, cloneSale(s, false))
		}
	}
	page, total := paginate(rows, f.Page)
	return page, total, nil
}

func (r *SaleRepo) UpdatePayment(_ context.Context, sale *entity.Sale) error {
	defer r.s.writeLock()()
	s, ok := r.s.d.sales.get(sale.ID)
	if !ok {
		return notFound("sale")
	}
	s.PaidAmount, s.PaymentStatus, s.UpdatedAt = sale.PaidAmount, sale.PaymentStatus, sale.UpdatedAt
	put(r.s, r.s.d.sales, s.ID, s)
	return nil
}

func (r *SaleRepo) UpdateStatus(_ context.Context, sale *entity.Sale) error {
	defer r.s.writeLock()()
	s, ok := r.s.d.sales.get(sale.ID)
	if !ok {
		return notFound("sale")
	}
	s.Status, s.Notes, s.UpdatedAt = sale.Status, sale.Notes, sale.UpdatedAt
	put(r.s, r.s.d.sales, s.ID, s)
	return nil
}

// PaymentRepo implementa repository.PaymentRepository.
type PaymentRepo struct{ s *Store }

// Payments repositorio de pagos.
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s: s} }

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	defer r.s.writeLock()()
	if _, ok := r.s.d.sales.get(p.SaleID); !ok {
		return notFound("sale")
	}
	put(r.s, r.s.d.payments, p.ID, *p)
	return nil
}

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	defer r.s.lock()()
	p, ok := r.s.d.payments.get(id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PaymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r *PaymentRepo) GetByExternalID(_ context.Context, externalID string) (*entity.Payment, error) {
	defer r.s.lock()()
	for _, p := range r.s.d.payments.rows {
		if externalID != "" && p.ExternalID == externalID {
			return ptr(p), nil
		}
	}
	return nil, nil
}

func (r *PaymentRepo) List(_ context.Context, f repository.PaymentFilter) ([]*entity.Payment, int, error) {
	defer r.s.lock()()
	var rows []entity.Payment
	for _, p := range r.s.d.payments.newest() {
		if f.SaleID != "" && p.SaleID != f.SaleID {
			continue
		}
		if f.Method != "" && p.Method != f.Method {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.From != nil && p.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && p.CreatedAt.After(*f.To) {
			continue
		}
		rows = append(rows, p)
	}
	page, total := paginate(rows, f.Page)
	return ptrs(page), total, nil
}

func (r *PaymentRepo) ListBySale(_ context.Context, saleID string) ([]*entity.Payment, error) {
	defer r.s.lock()()
	var rows []entity.Payment
	for _, p := range r.s.d.payments.oldest() {
		if p.SaleID == saleID {
			rows = append(rows, p)
		}
	}
	return ptrs(rows), nil
}

func (r *PaymentRepo) Update(_ context.Context, p *entity.Payment) error {
	defer r.s.writeLock()()
	old, ok := r.s.d.payments.get(p.ID)
	if !ok {
		return notFound("payment")
	}
	old.Status, old.RefundedAmount, old.ExternalID, old.UpdatedAt = p.Status, p.RefundedAmount, p.ExternalID, p.UpdatedAt
	put(r.s, r.s.d.payments, p.ID, old)
	return nil
}

// RefundRepo implementa repository.RefundRepository.
type RefundRepo struct{ s *Store }

// Refunds repositorio de reembolsos.
func (s *Store) Refunds() *RefundRepo { return &RefundRepo{s: s} }

var _ repository.RefundRepository = (*RefundRepo)(nil)

func (r *RefundRepo) Create(_ context.Context, rf *entity.Refund) error {
	defer r.s.writeLock()()
	if _, ok := r.s.d.payments.get(rf.PaymentID); !ok {
		return notFound("payment")
	}
	put(r.s, r.s.d.refunds, rf.ID, *rf)
	return nil
}

func (r *RefundRepo) List(_ context.Context, paymentID string, p repository.Page) ([]*entity.Refund, int, error) {
	defer r.s.lock()()
	var rows []entity.Refund
	for _, rf := range r.s.d.refunds.newest() {
		if paymentID == "" || rf.PaymentID == paymentID {
			rows = append(rows, rf)
		}
	}
	page, total := paginate(rows, p)
	return ptrs(page), total, nil
}
