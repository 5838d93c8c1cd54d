package repository

import "time"

// Page límites de paginación ya normalizados por la capa de aplicación.
type Page struct {
	Limit  int
	Offset int
}

// UserFilter filtros del listado de usuarios.
type UserFilter struct {
	Role   string
	Status string
	Search string
	Page
}

// CustomerFilter filtros del listado de clientes (Search: nombre, email, teléfono o código).
type CustomerFilter struct {
	Status string
	Search string
	Page
}

// ItemFilter filtros del listado de ítems.
type ItemFilter struct {
	Search     string
	CategoryID string
	Status     string
	LowStock   bool
	Page
}

// TransferFilter filtros del historial de traslados.
type TransferFilter struct {
	ItemID     string
	LocationID string // origen o destino
	Page
}

// SaleFilter filtros del listado de ventas. From/To nil = sin límite.
type SaleFilter struct {
	From          *time.Time
	To            *time.Time
	Status        string
	PaymentStatus string
	CustomerID    string
	LocationID    string
	Page
}

// PaymentFilter filtros del listado de pagos.
type PaymentFilter struct {
	SaleID string
	Method string
	Status string
	From   *time.Time
	To     *time.Time
	Page
}

// MessageLogFilter filtros del log de mensajes.
type MessageLogFilter struct {
	CustomerID string
	Channel    string
	Status     string
	Page
}
