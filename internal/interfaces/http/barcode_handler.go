package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// BarcodeHandler búsqueda por código, asignación de EAN-13 e imagen PNG.
type BarcodeHandler struct {
	uc  *usecase.BarcodeUseCase
	log *logger.Logger
}

// NewBarcodeHandler construye el handler.
func NewBarcodeHandler(uc *usecase.BarcodeUseCase, log *logger.Logger) *BarcodeHandler {
	return &BarcodeHandler{uc: uc, log: log}
}

// Lookup godoc
// @Summary      Buscar ítem por código de barras o SKU
// @Tags         barcodes
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código de barras o SKU"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/barcodes/lookup/{code} [get]
func (h *BarcodeHandler) Lookup(c *fiber.Ctx) error {
	out, err := h.uc.Lookup(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Generate godoc
// @Summary      Asignar EAN-13 interno
// @Description  Idempotente: si el ítem ya tiene código se devuelve sin cambios.
// @Tags         barcodes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/barcodes/items/{id}/generate [post]
func (h *BarcodeHandler) Generate(c *fiber.Ctx) error {
	out, err := h.uc.Generate(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Image godoc
// @Summary      Imagen PNG del código
// @Tags         barcodes
// @Security     Bearer
// @Produce      png
// @Param        id      path   string  true   "ID del ítem"
// @Param        format  query  string  false  "code128|ean13"  default(code128)
// @Param        width   query  int     false  "Ancho px"       default(300)
// @Param        height  query  int     false  "Alto px"        default(100)
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/barcodes/items/{id}/image [get]
func (h *BarcodeHandler) Image(c *fiber.Ctx) error {
	format := c.Query("format")
	if format != "" && format != ports.BarcodeCode128 && format != ports.BarcodeEAN13 {
		return validationError(c, map[string]string{"format": "debe ser uno de: code128 ean13"})
	}
	png, err := h.uc.Image(c.UserContext(), c.Params("id"), format, c.QueryInt("width"), c.QueryInt("height"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
