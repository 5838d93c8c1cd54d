package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// SaleHandler ventas: alta, consulta y anulación.
type SaleHandler struct {
	uc       *billing.SaleUseCase
	payments *billing.PaymentUseCase
	log      *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *billing.SaleUseCase, payments *billing.PaymentUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, payments: payments, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Calcula totales e impuestos, descuenta stock y acumula lealtad en una transacción.
// @Description  El pago inicial opcional sigue las mismas reglas que POST /api/payments.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas, cliente, ubicación, descuento y pago"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start_date      query  string  false  "YYYY-MM-DD"
// @Param        end_date        query  string  false  "YYYY-MM-DD"
// @Param        status          query  string  false  "completed|voided"
// @Param        payment_status  query  string  false  "unpaid|partial|paid"
// @Param        customer_id     query  string  false  "Cliente"
// @Param        location_id     query  string  false  "Ubicación"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ListResponse[dto.SaleResponse]
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.SaleListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con líneas y pagos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByInvoice godoc
// @Summary      Obtener venta por número de factura
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "INV-YYYYMMDD-XXXXXX"
// @Success      200     {object}  dto.SaleResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/sales/invoice/{number} [get]
func (h *SaleHandler) GetByInvoice(c *fiber.Ctx) error {
	out, err := h.uc.GetByInvoiceNumber(c.UserContext(), c.Params("number"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Payments godoc
// @Summary      Pagos de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.ListResponse[dto.PaymentResponse]
// @Router       /api/sales/{id}/payments [get]
func (h *SaleHandler) Payments(c *fiber.Ctx) error {
	var q dto.PaymentListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	q.SaleID = c.Params("id")
	out, err := h.payments.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Void godoc
// @Summary      Anular venta
// @Description  Solo ventas sin pagos aplicados; el stock vendido se restituye.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID de la venta"
// @Param        body  body  dto.VoidSaleRequest  false  "reason"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/void [post]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	var in dto.VoidSaleRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Void(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
