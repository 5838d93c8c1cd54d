package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/integrations"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// IntegrationHandler proyecciones de solo lectura para sistemas externos.
type IntegrationHandler struct {
	uc  *integrations.IntegrationUseCase
	log *logger.Logger
}

// NewIntegrationHandler construye el handler.
func NewIntegrationHandler(uc *integrations.IntegrationUseCase, log *logger.Logger) *IntegrationHandler {
	return &IntegrationHandler{uc: uc, log: log}
}

// QuickBooksSales godoc
// @Summary      Ventas como SalesReceipt de QuickBooks
// @Description  format=json: QuickBooks Online. format=xml: qbXML SalesReceiptAddRq (Desktop).
// @Tags         integrations
// @Security     Bearer
// @Produce      json
// @Produce      xml
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Param        format      query  string  false  "json|xml"  default(json)
// @Success      200  {array}  dto.QBSalesReceipt
// @Router       /api/integrations/quickbooks/sales [get]
func (h *IntegrationHandler) QuickBooksSales(c *fiber.Ctx) error {
	var q dto.IntegrationQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	if q.Format == "xml" {
		body, err := h.uc.QuickBooksSalesXML(c.UserContext(), q)
		if err != nil {
			return respondError(c, h.log, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
		return c.Send(body)
	}
	out, err := h.uc.QuickBooksSales(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// WooCommerceProducts godoc
// @Summary      Ítems como productos WooCommerce
// @Tags         integrations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WooProduct
// @Router       /api/integrations/woocommerce/products [get]
func (h *IntegrationHandler) WooCommerceProducts(c *fiber.Ctx) error {
	out, err := h.uc.WooCommerceProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ShopifyProducts godoc
// @Summary      Ítems como productos Shopify
// @Tags         integrations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ShopifyProduct
// @Router       /api/integrations/shopify/products [get]
func (h *IntegrationHandler) ShopifyProducts(c *fiber.Ctx) error {
	out, err := h.uc.ShopifyProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// MailchimpMembers godoc
// @Summary      Clientes con email como miembros de Mailchimp
// @Tags         integrations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MailchimpMember
// @Router       /api/integrations/mailchimp/members [get]
func (h *IntegrationHandler) MailchimpMembers(c *fiber.Ctx) error {
	out, err := h.uc.MailchimpMembers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
