package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/pkg/config"
)

var _ ports.TokenBlacklist = (*TokenBlacklist)(nil)

const keyPrefix = "pos:revoked:"

// kv subconjunto de *goredis.Client que usa la lista negra.
type kv interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
	Close() error
}

// TokenBlacklist hashes de tokens revocados por logout, con TTL igual a la vida restante del token.
type TokenBlacklist struct {
	client kv
}

// NewTokenBlacklist conecta y verifica con PING.
func NewTokenBlacklist(ctx context.Context, cfg config.RedisConfig) (*TokenBlacklist, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return &TokenBlacklist{client: client}, nil
}

// Revoke ttl <= 0 no guarda nada: el token ya expiró.
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, keyPrefix+tokenHash, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis: revocar token: %w", err)
	}
	return nil
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := b.client.Exists(ctx, keyPrefix+tokenHash).Result()
	if err != nil {
		return false, fmt.Errorf("redis: consultar token: %w", err)
	}
	return n > 0, nil
}

func (b *TokenBlacklist) Close() error {
	return b.client.Close()
}
