// Package notifications envía mensajes SMS/WhatsApp a clientes a partir de plantillas
// y deja registro de cada intento.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
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

// NotificationUseCase orquesta plantilla, proveedor y log de mensajes.
type NotificationUseCase struct {
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	logRepo      repository.MessageLogRepository
	messenger    ports.Messenger
	settings     ports.SettingsReader
	log          *logger.Logger
	now          func() time.Time
}

// NewNotificationUseCase construye el caso de uso. messenger nil = proveedor no configurado.
func NewNotificationUseCase(
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	logRepo repository.MessageLogRepository,
	messenger ports.Messenger,
	settings ports.SettingsReader,
	log *logger.Logger,
) *NotificationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &NotificationUseCase{
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		logRepo:      logRepo,
		messenger:    messenger,
		settings:     settings,
		log:          log.Component("notifications"),
		now:          time.Now,
	}
}

// Send envía una plantilla a un cliente. Las variables de la petición tienen prioridad
// sobre las calculadas a partir del cliente.
func (uc *NotificationUseCase) Send(ctx context.Context, userID string, in dto.SendNotificationRequest) (*dto.MessageLogResponse, error) {
	body, ok := templates[in.Template]
	if !ok {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, fmt.Sprintf("plantilla desconocida: %s", in.Template))
	}
	c, err := uc.customer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	vars := uc.baseVars(ctx, c)
	for k, v := range in.Variables {
		vars[k] = v
	}
	return uc.deliver(ctx, userID, c, in.Channel, in.Template, Render(body, vars))
}

// SendReceipt envía el recibo de una venta a su cliente.
func (uc *NotificationUseCase) SendReceipt(ctx context.Context, userID, saleID string, in dto.SendReceiptRequest) (*dto.MessageLogResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CustomerID == nil {
		return nil, domain.NewBusinessError(domain.ErrInvalidInput, "la venta no tiene cliente asociado")
	}
	c, err := uc.customer(ctx, *sale.CustomerID)
	if err != nil {
		return nil, err
	}
	vars := uc.baseVars(ctx, c)
	vars["invoice_number"] = sale.InvoiceNumber
	vars["total"] = sale.Total.StringFixed(2)
	vars["balance"] = sale.Balance().StringFixed(2)

	channel := in.Channel
	if channel == "" {
		channel = entity.ChannelSMS
	}
	return uc.deliver(ctx, userID, c, channel, TemplateReceipt, Render(templates[TemplateReceipt], vars))
}

// Logs historial de mensajes.
func (uc *NotificationUseCase) Logs(ctx context.Context, q dto.MessageLogQuery) (*dto.ListResponse[dto.MessageLogResponse], error) {
	q.DefaultPage()
	list, total, err := uc.logRepo.List(ctx, repository.MessageLogFilter{
		CustomerID: q.CustomerID, Channel: q.Channel, Status: q.Status,
		Page: repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MessageLogResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.FromMessageLog(m))
	}
	out := dto.NewList(items, q.PageRequest, total)
	return &out, nil
}

// Templates plantillas disponibles ordenadas por nombre.
func (uc *NotificationUseCase) Templates() []dto.TemplateResponse {
	names := make([]string, 0, len(templates))
	for n := range templates {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]dto.TemplateResponse, 0, len(names))
	for _, n := range names {
		out = append(out, dto.TemplateResponse{Name: n, Body: templates[n], Placeholders: Placeholders(templates[n])})
	}
	return out
}

func (uc *NotificationUseCase) customer(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewBusinessError(domain.ErrNotFound, "el cliente no existe")
	}
	if c.Phone == "" {
		return nil, domain.ErrMissingPhone
	}
	return c, nil
}

func (uc *NotificationUseCase) baseVars(ctx context.Context, c *entity.Customer) map[string]string {
	return map[string]string{
		"customer_name": c.FullName(),
		"points":        strconv.Itoa(c.LoyaltyPoints),
		"store_name":    uc.settings.String(ctx, entity.SettingStoreName, "POS"),
		"total":         decimal.Zero.StringFixed(2),
		"balance":       decimal.Zero.StringFixed(2),
	}
}

// deliver envía y registra el intento, exitoso o no.
func (uc *NotificationUseCase) deliver(ctx context.Context, userID string, c *entity.Customer, channel, template, body string) (*dto.MessageLogResponse, error) {
	entry := &entity.MessageLog{
		ID:         uuid.NewString(),
		CustomerID: &c.ID,
		Phone:      c.Phone,
		Channel:    channel,
		Template:   template,
		Body:       body,
		SentBy:     userID,
		CreatedAt:  uc.now(),
	}

	var sendErr error
	if uc.messenger == nil {
		sendErr = domain.ErrGatewayUnavailable
	} else {
		entry.ProviderID, sendErr = uc.messenger.Send(ctx, channel, c.Phone, body)
	}
	if sendErr != nil {
		entry.Status = entity.MessageFailed
		entry.Error = sendErr.Error()
	} else {
		entry.Status = entity.MessageSent
	}

	if err := uc.logRepo.Create(ctx, entry); err != nil {
		uc.log.Error().Err(err).Str("customer_id", c.ID).Msg("no se pudo registrar el mensaje")
		if sendErr == nil {
			return nil, err
		}
	}
	if sendErr != nil {
		uc.log.Warn().Err(sendErr).Str("customer_id", c.ID).Str("channel", channel).Msg("envío fallido")
		if errors.Is(sendErr, domain.ErrGatewayUnavailable) {
			return nil, sendErr
		}
		return nil, domain.NewBusinessError(domain.ErrGateway, "el proveedor rechazó el mensaje: "+sendErr.Error())
	}
	uc.log.Info().Str("customer_id", c.ID).Str("channel", channel).Str("template", template).Msg("mensaje enviado")
	out := dto.FromMessageLog(entry)
	return &out, nil
}
