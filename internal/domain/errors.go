package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrSameLocation          = errors.New("la ubicación de origen y destino deben ser distintas")
	ErrPaymentExceedsBalance = errors.New("el pago excede el saldo pendiente de la venta")
	ErrRefundExceedsPayment  = errors.New("el reembolso excede el monto reembolsable del pago")
	ErrPaymentNotRefundable  = errors.New("el pago no está en un estado reembolsable")
	ErrSaleNotPayable        = errors.New("la venta no admite pagos en su estado actual")
	ErrInsufficientPoints    = errors.New("puntos de lealtad insuficientes")
	ErrShiftAlreadyOpen      = errors.New("ya existe una jornada abierta")
	ErrNoOpenShift           = errors.New("no hay jornada abierta")
	ErrMissingPhone          = errors.New("el cliente no tiene teléfono registrado")
	ErrGatewayUnavailable    = errors.New("pasarela externa no configurada")
	ErrGateway               = errors.New("error del proveedor externo")
)

// BusinessError acompaña un sentinel con un mensaje descriptivo para el cliente.
// errors.Is(err, Sentinel) sigue funcionando.
type BusinessError struct {
	Sentinel error
	Message  string
}

func (e *BusinessError) Error() string { return e.Message }

func (e *BusinessError) Unwrap() error { return e.Sentinel }

// NewBusinessError construye un BusinessError.
func NewBusinessError(sentinel error, msg string) error {
	return &BusinessError{Sentinel: sentinel, Message: msg}
}
