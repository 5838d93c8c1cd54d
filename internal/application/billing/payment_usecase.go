package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// PaymentUseCase registra pagos y reembolsos manteniendo consistentes el saldo y el estado de la venta.
type PaymentUseCase struct {
	txRunner    BillingTxRunner
	saleRepo    repository.SaleRepository
	paymentRepo repository.PaymentRepository
	refundRepo  repository.RefundRepository
	methodRepo  repository.PaymentMethodRepository
	gateway     ports.PaymentGateway
	settings    ports.SettingsReader
	events      ports.EventPublisher
	log         *logger.Logger
	now         func() time.Time
}

// NewPaymentUseCase construye el caso de uso. gateway puede ser nil.
func NewPaymentUseCase(
	txRunner BillingTxRunner,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	refundRepo repository.RefundRepository,
	methodRepo repository.PaymentMethodRepository,
	gateway ports.PaymentGateway,
	settings ports.SettingsReader,
	events ports.EventPublisher,
	log *logger.Logger,
) *PaymentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentUseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		paymentRepo: paymentRepo,
		refundRepo:  refundRepo,
		methodRepo:  methodRepo,
		gateway:     gateway,
		settings:    settings,
		events:      events,
		log:         log.Component("payments"),
		now:         time.Now,
	}
}

// Create registra un pago. Con tarjeta, token y pasarela habilitada el cobro se hace en la pasarela;
// en otro caso se registra con el estado inicial del método.
func (uc *PaymentUseCase) Create(ctx context.Context, userID string, in dto.CreatePaymentRequest) (*dto.PaymentResult, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "amount debe ser mayor que 0")
	}
	methodID, err := uc.checkMethod(ctx, in)
	if err != nil {
		return nil, err
	}
	if in.PaymentMethodToken != "" {
		if in.Method != entity.MethodCard {
			return nil, domain.NewBusinessError(domain.ErrInvalidInput, "payment_method_token solo aplica a pagos con tarjeta")
		}
		if uc.gateway == nil || !uc.gateway.Enabled() {
			return nil, domain.ErrGatewayUnavailable
		}
		return uc.charge(ctx, userID, in, methodID)
	}

	now := uc.now()
	payment := &entity.Payment{
		ID:              uuid.NewString(),
		SaleID:          in.SaleID,
		PaymentMethodID: methodID,
		Method:          in.Method,
		Amount:          in.Amount,
		RefundedAmount:  decimal.Zero,
		Status:          entity.InitialStatus(in.Method),
		Reference:       in.Reference,
		ProcessedBy:     userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	var sale *entity.Sale
	err = uc.txRunner.RunPayment(ctx, func(sales repository.SaleRepository, payments repository.PaymentRepository, _ repository.RefundRepository) error {
		var err error
		sale, err = payableSale(ctx, sales, in.SaleID, in.Amount)
		if err != nil {
			return err
		}
		if err := payments.Create(ctx, payment); err != nil {
			return err
		}
		if !payment.Counts() {
			return nil
		}
		sale.ApplyPayment(payment.Amount, now)
		return sales.UpdatePayment(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.recorded(ctx, payment)
	return paymentResult(payment, sale), nil
}

// charge cobra en la pasarela en tres pasos: reserva del pago pendiente, cobro fuera de transacción
// y confirmación. La clave de idempotencia es el id del pago.
func (uc *PaymentUseCase) charge(ctx context.Context, userID string, in dto.CreatePaymentRequest, methodID *string) (*dto.PaymentResult, error) {
	now := uc.now()
	payment := &entity.Payment{
		ID:              uuid.NewString(),
		SaleID:          in.SaleID,
		PaymentMethodID: methodID,
		Method:          in.Method,
		Amount:          in.Amount,
		RefundedAmount:  decimal.Zero,
		Status:          entity.PaymentPending,
		Reference:       in.Reference,
		ProcessedBy:     userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	var sale *entity.Sale
	err := uc.txRunner.RunPayment(ctx, func(sales repository.SaleRepository, payments repository.PaymentRepository, _ repository.RefundRepository) error {
		var err error
		sale, err = payableSale(ctx, sales, in.SaleID, in.Amount)
		if err != nil {
			return err
		}
		return payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	res, chargeErr := uc.gateway.Charge(ctx, ports.ChargeRequest{
		Amount:             in.Amount,
		Currency:           uc.settings.String(ctx, entity.SettingCurrency, "usd"),
		PaymentMethodToken: in.PaymentMethodToken,
		Description:        "Venta " + sale.InvoiceNumber,
		Metadata:           map[string]string{"sale_id": sale.ID, "payment_id": payment.ID},
		IdempotencyKey:     payment.ID,
	})

	status := entity.PaymentFailed
	if chargeErr == nil {
		payment.ExternalID = res.ExternalID
		switch res.Status {
		case ports.GatewaySucceeded:
			status = entity.PaymentCompleted
		case ports.GatewayPending:
			status = entity.PaymentPending
		}
	}
	err = uc.txRunner.RunPayment(ctx, func(sales repository.SaleRepository, payments repository.PaymentRepository, _ repository.RefundRepository) error {
		return uc.settle(ctx, sales, payments, payment, status)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("payment_id", payment.ID).Str("external_id", payment.ExternalID).
			Msg("cobro procesado en la pasarela pero no se pudo persistir el resultado")
		return nil, err
	}
	if chargeErr != nil {
		uc.log.Warn().Err(chargeErr).Str("payment_id", payment.ID).Msg("cobro rechazado por la pasarela")
		return nil, domain.NewBusinessError(domain.ErrGateway, "la pasarela rechazó el cobro: "+chargeErr.Error())
	}
	if status == entity.PaymentFailed {
		return nil, domain.NewBusinessError(domain.ErrGateway, "la pasarela rechazó el cobro ("+res.Raw+")")
	}
	uc.recorded(ctx, payment)
	updated, err := uc.saleRepo.GetByID(ctx, payment.SaleID)
	if err != nil {
		return nil, err
	}
	return paymentResult(payment, updated), nil
}

// settle fija el estado final de un pago pendiente y, si queda completado, lo aplica a la venta.
func (uc *PaymentUseCase) settle(
	ctx context.Context, sales repository.SaleRepository, payments repository.PaymentRepository, payment *entity.Payment, status string,
) error {
	now := uc.now()
	current, err := payments.GetForUpdate(ctx, payment.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	current.Status = status
	if payment.ExternalID != "" {
		current.ExternalID = payment.ExternalID
	}
	current.UpdatedAt = now
	if status == entity.PaymentCompleted {
		sale, err := sales.GetForUpdate(ctx, current.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		sale.ApplyPayment(current.Amount, now)
		if err := sales.UpdatePayment(ctx, sale); err != nil {
			return err
		}
	}
	*payment = *current
	return payments.Update(ctx, current)
}

// Confirm completa un pago pendiente (transferencia bancaria verificada).
func (uc *PaymentUseCase) Confirm(ctx context.Context, id string) (*dto.PaymentResult, error) {
	var (
		payment *entity.Payment
		sale    *entity.Sale
	)
	err := uc.txRunner.RunPayment(ctx, func(sales repository.SaleRepository, payments repository.PaymentRepository, _ repository.RefundRepository) error {
		var err error
		payment, err = payments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}
		if payment.Status != entity.PaymentPending {
			return domain.NewBusinessError(domain.ErrConflict, "solo se pueden confirmar pagos pendientes")
		}
		sale, err = payableSale(ctx, sales, payment.SaleID, payment.Amount)
		if err != nil {
			return err
		}
		now := uc.now()
		payment.Status = entity.PaymentCompleted
		payment.UpdatedAt = now
		if err := payments.Update(ctx, payment); err != nil {
			return err
		}
		sale.ApplyPayment(payment.Amount, now)
		return sales.UpdatePayment(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.recorded(ctx, payment)
	return paymentResult(payment, sale), nil
}

// Refund reembolsa parcial o totalmente un pago. Si el pago se cobró en la pasarela, el reembolso
// se solicita allí antes de persistirlo.
func (uc *PaymentUseCase) Refund(ctx context.Context, userID, paymentID string, in dto.RefundRequest) (*dto.RefundResult, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "amount debe ser mayor que 0")
	}
	payment, err := uc.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	if err := checkRefund(payment, in.Amount); err != nil {
		return nil, err
	}

	refund := &entity.Refund{
		ID:          uuid.NewString(),
		PaymentID:   payment.ID,
		SaleID:      payment.SaleID,
		Amount:      in.Amount,
		Reason:      in.Reason,
		Status:      entity.PaymentCompleted,
		ProcessedBy: userID,
		CreatedAt:   uc.now(),
	}
	if payment.ExternalID != "" && uc.gateway != nil && uc.gateway.Enabled() {
		extID, err := uc.gateway.Refund(ctx, ports.RefundRequest{
			ExternalID:     payment.ExternalID,
			Amount:         in.Amount,
			Currency:       uc.settings.String(ctx, entity.SettingCurrency, "usd"),
			IdempotencyKey: refund.ID,
		})
		if err != nil {
			uc.log.Warn().Err(err).Str("payment_id", payment.ID).Msg("reembolso rechazado por la pasarela")
			return nil, domain.NewBusinessError(domain.ErrGateway, "la pasarela rechazó el reembolso: "+err.Error())
		}
		refund.ExternalID = extID
	}

	var sale *entity.Sale
	err = uc.txRunner.RunPayment(ctx, func(sales repository.SaleRepository, payments repository.PaymentRepository, refunds repository.RefundRepository) error {
		p, err := payments.GetForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := checkRefund(p, in.Amount); err != nil {
			return err
		}
		sale, err = sales.GetForUpdate(ctx, p.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		now := uc.now()
		p.RefundedAmount = p.RefundedAmount.Add(in.Amount)
		if p.RefundedAmount.GreaterThanOrEqual(p.Amount) {
			p.Status = entity.PaymentRefunded
		} else {
			p.Status = entity.PaymentPartiallyRefunded
		}
		p.UpdatedAt = now
		if err := refunds.Create(ctx, refund); err != nil {
			return err
		}
		if err := payments.Update(ctx, p); err != nil {
			return err
		}
		sale.ApplyPayment(in.Amount.Neg(), now)
		payment = p
		return sales.UpdatePayment(ctx, sale)
	})
	if err != nil {
		if refund.ExternalID != "" {
			uc.log.Error().Err(err).Str("payment_id", paymentID).Str("refund_external_id", refund.ExternalID).
				Msg("reembolso aplicado en la pasarela pero no se pudo persistir")
		}
		return nil, err
	}

	out := &dto.RefundResult{
		Refund:        dto.FromRefund(refund),
		PaymentStatus: payment.Status,
		SalePaid:      sale.PaidAmount,
		SaleStatus:    sale.PaymentStatus,
	}
	uc.publish(ctx, ports.EventRefundCreated, out)
	uc.log.Info().Str("refund_id", refund.ID).Str("payment_id", payment.ID).Str("amount", in.Amount.StringFixed(2)).Msg("reembolso registrado")
	return out, nil
}

// HandleWebhook aplica un evento verificado de la pasarela a su pago pendiente.
// Eventos de pagos desconocidos o ya resueltos se ignoran.
func (uc *PaymentUseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if uc.gateway == nil || !uc.gateway.Enabled() {
		return domain.ErrGatewayUnavailable
	}
	ev, err := uc.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return domain.NewBusinessError(domain.ErrInvalidInput, "webhook inválido: "+err.Error())
	}
	var status string
	switch ev.Type {
	case ports.GatewayEventSucceeded:
		status = entity.PaymentCompleted
	case ports.GatewayEventFailed:
		status = entity.PaymentFailed
	default:
		uc.log.Debug().Str("type", ev.Type).Msg("evento de pasarela ignorado")
		return nil
	}
	payment, err := uc.paymentRepo.GetByExternalID(ctx, ev.ExternalID)
	if err != nil {
		return err
	}
	if payment == nil || payment.Status != entity.PaymentPending {
		return nil
	}
	err = uc.txRunner.RunPayment(ctx, func(sales repository.SaleRepository, payments repository.PaymentRepository, _ repository.RefundRepository) error {
		p, err := payments.GetForUpdate(ctx, payment.ID)
		if err != nil {
			return err
		}
		if p == nil || p.Status != entity.PaymentPending {
			return errAlreadySettled
		}
		return uc.settle(ctx, sales, payments, payment, status)
	})
	if errors.Is(err, errAlreadySettled) {
		return nil
	}
	if err != nil {
		return err
	}
	uc.log.Info().Str("payment_id", payment.ID).Str("status", status).Str("event", ev.ID).Msg("pago actualizado por webhook")
	if status == entity.PaymentCompleted {
		uc.recorded(ctx, payment)
	}
	return nil
}

var errAlreadySettled = errors.New("pago ya resuelto")

// GetByID obtiene un pago.
func (uc *PaymentUseCase) GetByID(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := uc.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromPayment(p)
	return &out, nil
}

// List pagos con filtros.
func (uc *PaymentUseCase) List(ctx context.Context, q dto.PaymentListQuery) (*dto.ListResponse[dto.PaymentResponse], error) {
	q.DefaultPage()
	from, to, err := optionalRange(q.StartDate, q.EndDate, uc.now())
	if err != nil {
		return nil, err
	}
	list, total, err := uc.paymentRepo.List(ctx, repository.PaymentFilter{
		SaleID: q.SaleID, Method: q.Method, Status: q.Status, From: from, To: to,
		Page: repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.FromPayment(p))
	}
	out := dto.NewList(items, q.PageRequest, total)
	return &out, nil
}

// ListRefunds reembolsos, opcionalmente de un pago.
func (uc *PaymentUseCase) ListRefunds(ctx context.Context, q dto.RefundListQuery) (*dto.ListResponse[dto.RefundResponse], error) {
	q.DefaultPage()
	list, total, err := uc.refundRepo.List(ctx, q.PaymentID, repository.Page{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.RefundResponse, 0, len(list))
	for _, r := range list {
		items = append(items, dto.FromRefund(r))
	}
	out := dto.NewList(items, q.PageRequest, total)
	return &out, nil
}

// checkMethod valida el método contra el catálogo cuando está registrado.
func (uc *PaymentUseCase) checkMethod(ctx context.Context, in dto.CreatePaymentRequest) (*string, error) {
	return resolveMethod(ctx, uc.methodRepo, in.PaymentMethodID, in.Method, in.Reference)
}

// resolveMethod busca el método por id (obligatorio que exista) o por código (opcional).
// Rechaza métodos inactivos y los que exigen referencia cuando no viene.
func resolveMethod(ctx context.Context, repo repository.PaymentMethodRepository, id, code, reference string) (*string, error) {
	var (
		m   *entity.PaymentMethod
		err error
	)
	if id != "" {
		if m, err = repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		if m == nil {
			return nil, domain.NewBusinessError(domain.ErrNotFound, "el método de pago no existe")
		}
	} else {
		if m, err = repo.GetByCode(ctx, code); err != nil {
			return nil, err
		}
		if m == nil {
			return nil, nil
		}
	}
	if !m.IsActive {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, fmt.Sprintf("el método de pago %s está inactivo", m.Code))
	}
	if m.RequiresReference && reference == "" {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "el método de pago requiere referencia")
	}
	return &m.ID, nil
}

func (uc *PaymentUseCase) recorded(ctx context.Context, p *entity.Payment) {
	uc.publish(ctx, ports.EventPaymentRecorded, dto.FromPayment(p))
	uc.log.Info().Str("payment_id", p.ID).Str("sale_id", p.SaleID).Str("status", p.Status).Str("amount", p.Amount.StringFixed(2)).Msg("pago registrado")
}

func (uc *PaymentUseCase) publish(ctx context.Context, key string, payload any) {
	if err := uc.events.Publish(ctx, key, payload); err != nil {
		uc.log.Warn().Err(err).Str("event", key).Msg("no se pudo publicar evento")
	}
}

// payableSale bloquea la venta y verifica que admita un pago del monto dado.
func payableSale(ctx context.Context, sales repository.SaleRepository, saleID string, amount decimal.Decimal) (*entity.Sale, error) {
	sale, err := sales.GetForUpdate(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NewBusinessError(domain.ErrNotFound, "la venta no existe")
	}
	if sale.Status != entity.SaleStatusCompleted {
		return nil, domain.NewBusinessError(domain.ErrSaleNotPayable, "la venta está anulada")
	}
	if amount.GreaterThan(sale.Balance()) {
		return nil, exceedsBalance(amount, sale.Balance())
	}
	return sale, nil
}

func checkRefund(p *entity.Payment, amount decimal.Decimal) error {
	if !p.CanRefund() {
		return domain.NewBusinessError(domain.ErrPaymentNotRefundable,
			fmt.Sprintf("el pago está en estado %s y no admite reembolsos", p.Status))
	}
	if amount.GreaterThan(p.Refundable()) {
		return domain.NewBusinessError(domain.ErrRefundExceedsPayment,
			fmt.Sprintf("el reembolso (%s) excede lo reembolsable (%s)", amount.StringFixed(2), p.Refundable().StringFixed(2)))
	}
	return nil
}

func paymentResult(p *entity.Payment, sale *entity.Sale) *dto.PaymentResult {
	out := &dto.PaymentResult{Payment: dto.FromPayment(p)}
	if sale != nil {
		out.SalePaid = sale.PaidAmount
		out.SaleBalance = sale.Balance()
		out.PaymentStatus = sale.PaymentStatus
	}
	return out
}
