package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/pricing"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/logger"
)

const invoiceAttempts = 3

// SaleUseCase registra ventas de forma transaccional: líneas, impuestos, stock, lealtad y pago inicial.
type SaleUseCase struct {
	txRunner     BillingTxRunner
	saleRepo     repository.SaleRepository
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
	locationRepo repository.LocationRepository
	taxRepo      repository.TaxRateRepository
	methodRepo   repository.PaymentMethodRepository
	settings     ports.SettingsReader
	events       ports.EventPublisher
	log          *logger.Logger
	now          func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner BillingTxRunner,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	locationRepo repository.LocationRepository,
	taxRepo repository.TaxRateRepository,
	methodRepo repository.PaymentMethodRepository,
	settings ports.SettingsReader,
	events ports.EventPublisher,
	log *logger.Logger,
) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{
		txRunner:     txRunner,
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		locationRepo: locationRepo,
		taxRepo:      taxRepo,
		methodRepo:   methodRepo,
		settings:     settings,
		events:       events,
		log:          log.Component("sales"),
		now:          time.Now,
	}
}

// Create calcula totales, descuenta stock (acotado en cero), acumula lealtad y registra el pago inicial,
// todo en una transacción. El número de factura se regenera si colisiona.
func (uc *SaleUseCase) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "la venta debe tener al menos un ítem")
	}
	for _, l := range in.Items {
		if l.Quantity <= 0 {
			return nil, domain.NewBusinessError(domain.ErrInvalidInput, "quantity debe ser mayor que 0")
		}
		if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
			return nil, domain.NewBusinessError(domain.ErrInvalidInput, "unit_price no puede ser negativo")
		}
	}
	if in.CustomerID != "" {
		c, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.NewBusinessError(domain.ErrNotFound, "el cliente no existe")
		}
		if c.Status != entity.StatusActive {
			return nil, domain.NewBusinessError(domain.ErrConflict, "el cliente está inactivo")
		}
	}
	if in.LocationID != "" {
		l, err := uc.locationRepo.GetByID(ctx, in.LocationID)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, domain.NewBusinessError(domain.ErrNotFound, "la ubicación no existe")
		}
	}
	var methodID *string
	if in.Payment != nil {
		id, err := resolveMethod(ctx, uc.methodRepo, in.Payment.PaymentMethodID, in.Payment.Method, in.Payment.Reference)
		if err != nil {
			return nil, err
		}
		methodID = id
	}
	rates, err := uc.newRateResolver(ctx)
	if err != nil {
		return nil, err
	}
	pointsRate := uc.settings.Decimal(ctx, entity.SettingLoyaltyPointsRate, decimal.Zero)

	var (
		sale    *entity.Sale
		payment *entity.Payment
		earned  int
	)
	for attempt := 1; attempt <= invoiceAttempts; attempt++ {
		sale, payment, earned, err = uc.createOnce(ctx, userID, in, methodID, rates, pointsRate)
		if err == nil || !errors.Is(err, errDuplicateInvoice) {
			break
		}
		uc.log.Warn().Int("attempt", attempt).Msg("número de factura duplicado, se regenera")
	}
	if errors.Is(err, errDuplicateInvoice) {
		return nil, domain.NewBusinessError(domain.ErrConflict, "no se pudo generar un número de factura único")
	}
	if err != nil {
		return nil, err
	}

	out := dto.FromSale(sale)
	out.LoyaltyEarned = earned
	if payment != nil {
		out.Payments = []dto.PaymentResponse{dto.FromPayment(payment)}
	}
	uc.publish(ctx, ports.EventSaleCreated, out)
	if payment != nil {
		uc.publish(ctx, ports.EventPaymentRecorded, dto.FromPayment(payment))
	}
	uc.log.Info().Str("sale_id", sale.ID).Str("invoice", sale.InvoiceNumber).Str("total", sale.Total.StringFixed(2)).Msg("venta registrada")
	return &out, nil
}

var errDuplicateInvoice = errors.New("número de factura duplicado")

func (uc *SaleUseCase) createOnce(
	ctx context.Context, userID string, in dto.CreateSaleRequest, methodID *string, rates *rateResolver, pointsRate decimal.Decimal,
) (*entity.Sale, *entity.Payment, int, error) {
	now := uc.now()
	sale := &entity.Sale{
		ID:            uuid.NewString(),
		InvoiceNumber: pricing.InvoiceNumber(now),
		CustomerID:    optional(in.CustomerID),
		LocationID:    optional(in.LocationID),
		UserID:        userID,
		PaidAmount:    decimal.Zero,
		Status:        entity.SaleStatusCompleted,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var (
		payment *entity.Payment
		earned  int
	)
	err := uc.txRunner.RunSale(ctx, func(r SaleTxRepos) error {
		lines := make([]pricing.Line, 0, len(in.Items))
		for _, l := range in.Items {
			item, err := r.Items.GetForUpdate(ctx, l.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.NewBusinessError(domain.ErrNotFound, fmt.Sprintf("el ítem %s no existe", l.ItemID))
			}
			if item.Status != entity.StatusActive {
				return domain.NewBusinessError(domain.ErrConflict, fmt.Sprintf("el ítem %s está inactivo", item.SKU))
			}
			price := item.Price
			if l.UnitPrice != nil {
				price = *l.UnitPrice
			}
			rate, err := rates.rateFor(ctx, item)
			if err != nil {
				return err
			}
			line := pricing.ComputeLine(pricing.LineInput{Quantity: l.Quantity, UnitPrice: price, Discount: l.Discount, TaxRate: rate})
			lines = append(lines, line)
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:        uuid.NewString(),
				SaleID:    sale.ID,
				ItemID:    item.ID,
				SKU:       item.SKU,
				Name:      item.Name,
				Quantity:  l.Quantity,
				UnitPrice: price,
				UnitCost:  item.Cost,
				Discount:  line.Discount,
				TaxRate:   rate,
				TaxAmount: line.TaxAmount,
				LineTotal: line.Total,
			})

			newQty, _ := entity.SubtractFloor(item.Quantity, l.Quantity)
			if err := r.Items.UpdateQuantity(ctx, item.ID, newQty, now); err != nil {
				return err
			}
			if sale.LocationID != nil {
				if err := subtractLocationStock(ctx, r.Stock, *sale.LocationID, item.ID, l.Quantity, now); err != nil {
					return err
				}
			}
		}
		totals := pricing.Summarize(lines, in.Discount)
		sale.Subtotal, sale.TaxAmount, sale.DiscountAmount, sale.Total = totals.Subtotal, totals.Tax, totals.Discount, totals.Total
		sale.PaymentStatus = entity.DerivePaymentStatus(sale.PaidAmount, sale.Total)

		if in.Payment != nil {
			if in.Payment.Amount.GreaterThan(sale.Total) {
				return exceedsBalance(in.Payment.Amount, sale.Total)
			}
			payment = &entity.Payment{
				ID:              uuid.NewString(),
				SaleID:          sale.ID,
				PaymentMethodID: methodID,
				Method:          in.Payment.Method,
				Amount:          in.Payment.Amount,
				RefundedAmount:  decimal.Zero,
				Status:          entity.InitialStatus(in.Payment.Method),
				Reference:       in.Payment.Reference,
				ProcessedBy:     userID,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if payment.Counts() {
				sale.ApplyPayment(payment.Amount, now)
			}
		}

		if sale.CustomerID != nil {
			c, err := r.Customers.GetForUpdate(ctx, *sale.CustomerID)
			if err != nil {
				return err
			}
			if c != nil {
				earned = pricing.LoyaltyPoints(sale.Total, pointsRate)
				sale.LoyaltyPointsEarned = earned
				c.LoyaltyPoints += earned
				c.TotalSpent = c.TotalSpent.Add(sale.Total)
				c.VisitCount++
				c.LastVisit = &now
				c.UpdatedAt = now
				if err := r.Customers.UpdateLoyalty(ctx, c); err != nil {
					return err
				}
			}
		}

		if err := r.Sales.Create(ctx, sale); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return errDuplicateInvoice
			}
			return err
		}
		if payment != nil {
			if err := r.Payments.Create(ctx, payment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, 0, err
	}
	return sale, payment, earned, nil
}

// Void anula una venta sin pagos aplicados y devuelve el stock vendido; revierte el acumulado del cliente.
func (uc *SaleUseCase) Void(ctx context.Context, id, userID string, in dto.VoidSaleRequest) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(r SaleTxRepos) error {
		var err error
		sale, err = r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusVoided {
			return domain.NewBusinessError(domain.ErrConflict, "la venta ya está anulada")
		}
		if sale.PaidAmount.IsPositive() {
			return domain.NewBusinessError(domain.ErrConflict, "no se puede anular una venta con pagos aplicados; reembolse primero")
		}
		now := uc.now()
		for _, line := range sale.Items {
			item, err := r.Items.GetForUpdate(ctx, line.ItemID)
			if err != nil {
				return err
			}
			if item != nil {
				if err := r.Items.UpdateQuantity(ctx, item.ID, item.Quantity+line.Quantity, now); err != nil {
					return err
				}
			}
			if sale.LocationID != nil {
				row, err := r.Stock.GetForUpdate(ctx, *sale.LocationID, line.ItemID)
				if err != nil {
					return err
				}
				if row == nil {
					row = &entity.LocationStock{LocationID: *sale.LocationID, ItemID: line.ItemID}
				}
				row.Quantity += line.Quantity
				row.UpdatedAt = now
				if err := r.Stock.Upsert(ctx, row); err != nil {
					return err
				}
			}
		}
		if sale.CustomerID != nil {
			c, err := r.Customers.GetForUpdate(ctx, *sale.CustomerID)
			if err != nil {
				return err
			}
			if c != nil {
				c.LoyaltyPoints -= sale.LoyaltyPointsEarned
				if c.LoyaltyPoints < 0 {
					c.LoyaltyPoints = 0
				}
				c.TotalSpent = decimal.Max(decimal.Zero, c.TotalSpent.Sub(sale.Total))
				if c.VisitCount > 0 {
					c.VisitCount--
				}
				c.UpdatedAt = now
				if err := r.Customers.UpdateLoyalty(ctx, c); err != nil {
					return err
				}
			}
		}
		sale.Status = entity.SaleStatusVoided
		if reason := strings.TrimSpace(in.Reason); reason != "" {
			sale.Notes = strings.TrimSpace(sale.Notes + "\n[anulada] " + reason)
		}
		sale.UpdatedAt = now
		return r.Sales.UpdateStatus(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromSale(sale)
	uc.publish(ctx, ports.EventSaleVoided, out)
	uc.log.Info().Str("sale_id", sale.ID).Str("user_id", userID).Msg("venta anulada")
	return &out, nil
}

// GetByID venta con líneas y pagos.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return uc.withPayments(ctx, sale)
}

// GetByInvoiceNumber venta por número de factura.
func (uc *SaleUseCase) GetByInvoiceNumber(ctx context.Context, number string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByInvoiceNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return uc.withPayments(ctx, sale)
}

// List listado con filtros de fecha, estado, cliente y ubicación.
func (uc *SaleUseCase) List(ctx context.Context, q dto.SaleListQuery) (*dto.ListResponse[dto.SaleResponse], error) {
	q.DefaultPage()
	from, to, err := optionalRange(q.StartDate, q.EndDate, uc.now())
	if err != nil {
		return nil, err
	}
	list, total, err := uc.saleRepo.List(ctx, repository.SaleFilter{
		From: from, To: to, Status: q.Status, PaymentStatus: q.PaymentStatus,
		CustomerID: q.CustomerID, LocationID: q.LocationID,
		Page: repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.FromSale(s))
	}
	out := dto.NewList(items, q.PageRequest, total)
	return &out, nil
}

func (uc *SaleUseCase) withPayments(ctx context.Context, sale *entity.Sale) (*dto.SaleResponse, error) {
	payments, err := uc.paymentRepo.ListBySale(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	out := dto.FromSale(sale)
	for _, p := range payments {
		out.Payments = append(out.Payments, dto.FromPayment(p))
	}
	return &out, nil
}

func (uc *SaleUseCase) publish(ctx context.Context, key string, payload any) {
	if err := uc.events.Publish(ctx, key, payload); err != nil {
		uc.log.Warn().Err(err).Str("event", key).Msg("no se pudo publicar evento")
	}
}

func subtractLocationStock(ctx context.Context, stock repository.LocationStockRepository, locationID, itemID string, qty int, now time.Time) error {
	row, err := stock.GetForUpdate(ctx, locationID, itemID)
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}
	row.Quantity, _ = entity.SubtractFloor(row.Quantity, qty)
	row.UpdatedAt = now
	return stock.Upsert(ctx, row)
}

// rateResolver resuelve la tarifa de impuesto de cada ítem con caché por venta.
type rateResolver struct {
	repo     repository.TaxRateRepository
	fallback decimal.Decimal
	cache    map[string]decimal.Decimal
}

func (uc *SaleUseCase) newRateResolver(ctx context.Context) (*rateResolver, error) {
	fallback := uc.settings.Decimal(ctx, entity.SettingDefaultTaxRate, decimal.Zero)
	def, err := uc.taxRepo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	if def != nil {
		fallback = def.Rate
	}
	return &rateResolver{repo: uc.taxRepo, fallback: fallback, cache: map[string]decimal.Decimal{}}, nil
}

func (r *rateResolver) rateFor(ctx context.Context, item *entity.Item) (decimal.Decimal, error) {
	if item.TaxRateID == nil {
		return r.fallback, nil
	}
	if rate, ok := r.cache[*item.TaxRateID]; ok {
		return rate, nil
	}
	t, err := r.repo.GetByID(ctx, *item.TaxRateID)
	if err != nil {
		return decimal.Zero, err
	}
	rate := r.fallback
	if t != nil && t.Status == entity.StatusActive {
		rate = t.Rate
	}
	r.cache[*item.TaxRateID] = rate
	return rate, nil
}

func exceedsBalance(amount, balance decimal.Decimal) error {
	return domain.NewBusinessError(domain.ErrPaymentExceedsBalance,
		fmt.Sprintf("el pago (%s) excede el saldo pendiente (%s)", amount.StringFixed(2), balance.StringFixed(2)))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optionalRange solo filtra por fecha si se envió alguno de los extremos.
func optionalRange(start, end string, now time.Time) (*time.Time, *time.Time, error) {
	if start == "" && end == "" {
		return nil, nil, nil
	}
	if start == "" {
		start = "2000-01-01"
	}
	from, to, err := dto.ParsePeriod(start, end, now)
	if err != nil {
		return nil, nil, err
	}
	return &from, &to, nil
}
