package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// CatalogHandler tarifas de impuesto, métodos de pago y configuración.
type CatalogHandler struct {
	taxes    *usecase.TaxRateUseCase
	methods  *usecase.PaymentMethodUseCase
	settings *usecase.SettingsUseCase
	log      *logger.Logger
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(taxes *usecase.TaxRateUseCase, methods *usecase.PaymentMethodUseCase, settings *usecase.SettingsUseCase, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{taxes: taxes, methods: methods, settings: settings, log: log}
}

// ListTaxRates godoc
// @Summary      Listar tarifas de impuesto
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TaxRateResponse
// @Router       /api/tax-rates [get]
func (h *CatalogHandler) ListTaxRates(c *fiber.Ctx) error {
	out, err := h.taxes.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateTaxRate godoc
// @Summary      Crear tarifa
// @Description  is_default=true quita la marca a la tarifa anterior.
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TaxRateRequest  true  "name, rate, is_default"
// @Success      201   {object}  dto.TaxRateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tax-rates [post]
func (h *CatalogHandler) CreateTaxRate(c *fiber.Ctx) error {
	var in dto.TaxRateRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.taxes.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateTaxRate godoc
// @Summary      Actualizar tarifa
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la tarifa"
// @Param        body  body  dto.UpdateTaxRateRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.TaxRateResponse
// @Router       /api/tax-rates/{id} [put]
func (h *CatalogHandler) UpdateTaxRate(c *fiber.Ctx) error {
	var in dto.UpdateTaxRateRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.taxes.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeactivateTaxRate godoc
// @Summary      Desactivar tarifa
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarifa"
// @Success      200  {object}  dto.TaxRateResponse
// @Router       /api/tax-rates/{id} [delete]
func (h *CatalogHandler) DeactivateTaxRate(c *fiber.Ctx) error {
	out, err := h.taxes.Deactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListPaymentMethods godoc
// @Summary      Listar métodos de pago
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Solo activos"
// @Success      200  {array}  dto.PaymentMethodResponse
// @Router       /api/payment-methods [get]
func (h *CatalogHandler) ListPaymentMethods(c *fiber.Ctx) error {
	out, err := h.methods.List(c.UserContext(), c.QueryBool("active"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreatePaymentMethod godoc
// @Summary      Crear método de pago
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentMethodRequest  true  "code, name, requires_reference"
// @Success      201   {object}  dto.PaymentMethodResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/payment-methods [post]
func (h *CatalogHandler) CreatePaymentMethod(c *fiber.Ctx) error {
	var in dto.PaymentMethodRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.methods.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePaymentMethod godoc
// @Summary      Actualizar método de pago
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del método"
// @Param        body  body  dto.UpdatePaymentMethodRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.PaymentMethodResponse
// @Router       /api/payment-methods/{id} [put]
func (h *CatalogHandler) UpdatePaymentMethod(c *fiber.Ctx) error {
	var in dto.UpdatePaymentMethodRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.methods.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// TogglePaymentMethod godoc
// @Summary      Activar/desactivar método de pago
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del método"
// @Success      200  {object}  dto.PaymentMethodResponse
// @Router       /api/payment-methods/{id}/toggle [patch]
func (h *CatalogHandler) TogglePaymentMethod(c *fiber.Ctx) error {
	out, err := h.methods.Toggle(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListSettings godoc
// @Summary      Listar configuración
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SettingResponse
// @Router       /api/settings [get]
func (h *CatalogHandler) ListSettings(c *fiber.Ctx) error {
	out, err := h.settings.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetSetting godoc
// @Summary      Obtener clave de configuración
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        key  path  string  true  "Clave"
// @Success      200  {object}  dto.SettingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [get]
func (h *CatalogHandler) GetSetting(c *fiber.Ctx) error {
	out, err := h.settings.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PutSetting godoc
// @Summary      Guardar clave de configuración
// @Description  value acepta cualquier JSON.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string                    true  "Clave"
// @Param        body  body  dto.UpdateSettingRequest  true  "value, description"
// @Success      200   {object}  dto.SettingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [put]
func (h *CatalogHandler) PutSetting(c *fiber.Ctx) error {
	var in dto.UpdateSettingRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.settings.Put(c.UserContext(), c.Params("key"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
