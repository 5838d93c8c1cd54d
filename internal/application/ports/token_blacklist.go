package ports

import (
	"context"
	"time"
)

// TokenBlacklist caché de tokens revocados (logout) hasta su expiración.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}
