package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/notifications"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// NotificationHandler SMS/WhatsApp a clientes.
type NotificationHandler struct {
	uc  *notifications.NotificationUseCase
	log *logger.Logger
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notifications.NotificationUseCase, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{uc: uc, log: log}
}

// Send godoc
// @Summary      Enviar plantilla a un cliente
// @Description  Cada intento queda en message_logs. Error del proveedor → 502.
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendNotificationRequest  true  "customer_id, template, channel, variables"
// @Success      201   {object}  dto.MessageLogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/notifications/send [post]
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	var in dto.SendNotificationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Send(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SendReceipt godoc
// @Summary      Enviar recibo de una venta
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID de la venta"
// @Param        body  body  dto.SendReceiptRequest  false  "channel"
// @Success      201   {object}  dto.MessageLogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/notifications/sales/{id}/receipt [post]
func (h *NotificationHandler) SendReceipt(c *fiber.Ctx) error {
	var in dto.SendReceiptRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.SendReceipt(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Logs godoc
// @Summary      Historial de mensajes
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  false  "Cliente"
// @Param        channel      query  string  false  "sms|whatsapp"
// @Param        status       query  string  false  "sent|failed"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ListResponse[dto.MessageLogResponse]
// @Router       /api/notifications/logs [get]
func (h *NotificationHandler) Logs(c *fiber.Ctx) error {
	var q dto.MessageLogQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.Logs(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Templates godoc
// @Summary      Plantillas disponibles
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TemplateResponse
// @Router       /api/notifications/templates [get]
func (h *NotificationHandler) Templates(c *fiber.Ctx) error {
	return c.JSON(h.uc.Templates())
}
