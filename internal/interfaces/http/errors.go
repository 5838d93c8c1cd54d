package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/pkg/logger"
	"github.com/jhoicas/pos-api/pkg/validator"
)

// errorMapping sentinel → status y código. El orden importa: el primero que haga match gana.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusBadRequest, "DUPLICATE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrConflict, fiber.StatusBadRequest, "CONFLICT"},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrSameLocation, fiber.StatusBadRequest, "SAME_LOCATION"},
	{domain.ErrPaymentExceedsBalance, fiber.StatusBadRequest, "PAYMENT_EXCEEDS_BALANCE"},
	{domain.ErrRefundExceedsPayment, fiber.StatusBadRequest, "REFUND_EXCEEDS_PAYMENT"},
	{domain.ErrPaymentNotRefundable, fiber.StatusBadRequest, "PAYMENT_NOT_REFUNDABLE"},
	{domain.ErrSaleNotPayable, fiber.StatusBadRequest, "SALE_NOT_PAYABLE"},
	{domain.ErrInsufficientPoints, fiber.StatusBadRequest, "INSUFFICIENT_POINTS"},
	{domain.ErrShiftAlreadyOpen, fiber.StatusBadRequest, "SHIFT_ALREADY_OPEN"},
	{domain.ErrNoOpenShift, fiber.StatusBadRequest, "NO_OPEN_SHIFT"},
	{domain.ErrMissingPhone, fiber.StatusBadRequest, "MISSING_PHONE"},
	{domain.ErrGatewayUnavailable, fiber.StatusServiceUnavailable, "GATEWAY_UNAVAILABLE"},
	{domain.ErrGateway, fiber.StatusBadGateway, "GATEWAY_ERROR"},
}

// respondError traduce errores de dominio a HTTP. Lo no mapeado es 500 con mensaje genérico
// y se registra del lado del servidor.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorMapping {
		if !errors.Is(err, m.err) {
			continue
		}
		msg := m.err.Error()
		var be *domain.BusinessError
		if errors.As(err, &be) {
			msg = be.Message
		}
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", requestID(c)).
		Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func validationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "VALIDATION", Message: "datos inválidos", Fields: fields,
	})
}

// parseBody decodifica JSON y valida tags; escribe la respuesta 400 si falla.
// Devuelve false cuando ya se respondió.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validator.Struct(out); fields != nil {
		return false, validationError(c, fields)
	}
	return true, nil
}

// parseQuery igual que parseBody pero desde la query string.
func parseQuery(c *fiber.Ctx, out any) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	if fields := validator.Struct(out); fields != nil {
		return false, validationError(c, fields)
	}
	return true, nil
}
