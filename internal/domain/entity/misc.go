package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Claves de configuración sembradas al arrancar.
const (
	SettingStoreName         = "store_name"
	SettingCurrency          = "currency"
	SettingDefaultTaxRate    = "default_tax_rate"
	SettingLoyaltyPointsRate = "loyalty_points_rate"
	SettingLowStockThreshold = "low_stock_threshold"
	SettingReceiptFooter     = "receipt_footer"
)

// Setting par clave/valor; Value es JSON arbitrario.
type Setting struct {
	Key         string
	Value       json.RawMessage
	Description string
	UpdatedAt   time.Time
}

// Canales de mensajería.
const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// Estados de message_logs.
const (
	MessageSent   = "sent"
	MessageFailed = "failed"
)

// MessageLog resultado de un envío saliente (éxito o fallo).
type MessageLog struct {
	ID         string
	CustomerID *string
	Phone      string
	Channel    string
	Template   string
	Body       string
	Status     string
	ProviderID string
	Error      string
	SentBy     string
	CreatedAt  time.Time
}

// TimeEntry jornada de un empleado. ClockOut nil = jornada abierta.
type TimeEntry struct {
	ID           string
	UserID       string
	LocationID   *string
	ClockIn      time.Time
	ClockOut     *time.Time
	BreakMinutes int
	Hours        decimal.Decimal
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorkedHours horas trabajadas entre in y out descontando el descanso, redondeadas a 2 decimales.
func WorkedHours(in, out time.Time, breakMinutes int) decimal.Decimal {
	worked := out.Sub(in) - time.Duration(breakMinutes)*time.Minute
	if worked < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(worked.Hours()).Round(2)
}
