package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	keys    map[string]time.Duration
	failErr error
}

func (f *fakeKV) Set(_ context.Context, key string, _ any, ttl time.Duration) *goredis.StatusCmd {
	if f.failErr != nil {
		return goredis.NewStatusResult("", f.failErr)
	}
	f.keys[key] = ttl
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Exists(_ context.Context, keys ...string) *goredis.IntCmd {
	if f.failErr != nil {
		return goredis.NewIntResult(0, f.failErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func (f *fakeKV) Close() error { return nil }

func TestRevoke_GuardaConTTLYPrefijo(t *testing.T) {
	kv := &fakeKV{keys: map[string]time.Duration{}}
	b := &TokenBlacklist{client: kv}

	require.NoError(t, b.Revoke(context.Background(), "abc", 30*time.Minute))

	assert.Equal(t, 30*time.Minute, kv.keys["pos:revoked:abc"])
	revoked, err := b.IsRevoked(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = b.IsRevoked(context.Background(), "otro")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevoke_TokenExpiradoNoSeGuarda(t *testing.T) {
	kv := &fakeKV{keys: map[string]time.Duration{}}
	b := &TokenBlacklist{client: kv}

	require.NoError(t, b.Revoke(context.Background(), "abc", -time.Second))
	assert.Empty(t, kv.keys)
}

func TestIsRevoked_ErrorDeRedisSePropaga(t *testing.T) {
	b := &TokenBlacklist{client: &fakeKV{keys: map[string]time.Duration{}, failErr: errors.New("connection refused")}}

	_, err := b.IsRevoked(context.Background(), "abc")
	assert.ErrorContains(t, err, "connection refused")
}
