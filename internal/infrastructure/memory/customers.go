package memory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// CustomerRepo implementa repository.CustomerRepository.
type CustomerRepo struct{ s *Store }

// Customers repositorio de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

func (r *CustomerRepo) unique(c *entity.Customer) error {
	for _, o := range r.s.d.customers.rows {
		if o.ID != c.ID && strings.EqualFold(o.CustomerCode, c.CustomerCode) {
			return duplicate("customer_code")
		}
	}
	return nil
}

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	defer r.s.writeLock()()
	if err := r.unique(c); err != nil {
		return err
	}
	put(r.s, r.s.d.customers, c.ID, *c)
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	defer r.s.lock()()
	c, ok := r.s.d.customers.get(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *CustomerRepo) GetByCode(_ context.Context, code string) (*entity.Customer, error) {
	defer r.s.lock()()
	for _, c := range r.s.d.customers.rows {
		if strings.EqualFold(c.CustomerCode, code) {
			return ptr(c), nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	defer r.s.lock()()
	var rows []entity.Customer
	for _, c := range r.s.d.customers.newest() {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if !contains(f.Search, c.FirstName+" "+c.LastName, c.Email, c.Phone, c.CustomerCode) {
			continue
		}
		rows = append(rows, c)
	}
	page, total := paginate(rows, f.Page)
	return ptrs(page), total, nil
}

// Update persiste los datos de contacto; los acumulados de lealtad solo cambian con UpdateLoyalty.
func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	defer r.s.writeLock()()
	old, ok := r.s.d.customers.get(c.ID)
	if !ok {
		return notFound("customer")
	}
	if err := r.unique(c); err != nil {
		return err
	}
	next := *c
	next.LoyaltyPoints, next.TotalSpent, next.VisitCount, next.LastVisit = old.LoyaltyPoints, old.TotalSpent, old.VisitCount, old.LastVisit
	next.CreatedAt = old.CreatedAt
	put(r.s, r.s.d.customers, c.ID, next)
	return nil
}

func (r *CustomerRepo) UpdateLoyalty(_ context.Context, c *entity.Customer) error {
	defer r.s.writeLock()()
	old, ok := r.s.d.customers.get(c.ID)
	if !ok {
		return notFound("customer")
	}
	old.LoyaltyPoints, old.TotalSpent, old.VisitCount, old.LastVisit = c.LoyaltyPoints, c.TotalSpent, c.VisitCount, c.LastVisit
	old.UpdatedAt = c.UpdatedAt
	put(r.s, r.s.d.customers, c.ID, old)
	return nil
}

func (r *CustomerRepo) AddLoyaltyPoints(_ context.Context, id string, delta int, at time.Time) error {
	defer r.s.writeLock()()
	c, ok := r.s.d.customers.get(id)
	if !ok {
		return notFound("customer")
	}
	if c.LoyaltyPoints+delta < 0 {
		return domain.ErrInsufficientPoints
	}
	c.LoyaltyPoints += delta
	c.UpdatedAt = at
	put(r.s, r.s.d.customers, id, c)
	return nil
}

// PartnerRepo implementa repository.PartnerRepository.
type PartnerRepo struct{ s *Store }

// Partners repositorio de socios.
func (s *Store) Partners() *PartnerRepo { return &PartnerRepo{s: s} }

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

func (r *PartnerRepo) Create(_ context.Context, p *entity.Partner) error {
	defer r.s.writeLock()()
	put(r.s, r.s.d.partners, p.ID, *p)
	return nil
}

func (r *PartnerRepo) GetByID(_ context.Context, id string) (*entity.Partner, error) {
	defer r.s.lock()()
	p, ok := r.s.d.partners.get(id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PartnerRepo) List(_ context.Context, status string) ([]*entity.Partner, error) {
	defer r.s.lock()()
	var rows []entity.Partner
	for _, p := range r.s.d.partners.oldest() {
		if status == "" || p.Status == status {
			rows = append(rows, p)
		}
	}
	sortBy(rows, func(a, b entity.Partner) bool { return a.Name < b.Name })
	return ptrs(rows), nil
}

func (r *PartnerRepo) Update(_ context.Context, p *entity.Partner) error {
	defer r.s.writeLock()()
	old, ok := r.s.d.partners.get(p.ID)
	if !ok {
		return notFound("partner")
	}
	next := *p
	next.CreatedAt = old.CreatedAt
	put(r.s, r.s.d.partners, p.ID, next)
	return nil
}

func (r *PartnerRepo) CreateInvestment(_ context.Context, inv *entity.Investment) error {
	defer r.s.writeLock()()
	if _, ok := r.s.d.partners.get(inv.PartnerID); !ok {
		return notFound("partner")
	}
	put(r.s, r.s.d.investments, inv.ID, *inv)
	return nil
}

func (r *PartnerRepo) ListInvestments(_ context.Context, partnerID string) ([]*entity.Investment, error) {
	defer r.s.lock()()
	var rows []entity.Investment
	for _, inv := range r.s.d.investments.newest() {
		if inv.PartnerID == partnerID {
			rows = append(rows, inv)
		}
	}
	sortBy(rows, func(a, b entity.Investment) bool { return a.InvestedAt.After(b.InvestedAt) })
	return ptrs(rows), nil
}

func (r *PartnerRepo) TotalInvested(_ context.Context, partnerID string) (decimal.Decimal, error) {
	defer r.s.lock()()
	total := decimal.Zero
	for _, inv := range r.s.d.investments.rows {
		if inv.PartnerID == partnerID {
			total = total.Add(inv.Amount)
		}
	}
	return total, nil
}
