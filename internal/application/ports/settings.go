package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// SettingsReader lectura tipada de la tabla settings con valor por defecto.
type SettingsReader interface {
	Decimal(ctx context.Context, key string, def decimal.Decimal) decimal.Decimal
	String(ctx context.Context, key, def string) string
	Int(ctx context.Context, key string, def int) int
}
