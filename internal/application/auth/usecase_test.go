package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (b *memBlacklist) Revoke(_ context.Context, hash string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[hash] = ttl
	return nil
}

func (b *memBlacklist) IsRevoked(_ context.Context, hash string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[hash]
	return ok, nil
}

func newAuth(t *testing.T, status string) (*auth.AuthUseCase, *memory.Store, *memBlacklist, *entity.User) {
	t.Helper()
	store := memory.New()
	hash, err := auth.HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	user := &entity.User{
		ID: uuid.NewString(), Username: "cajero1", Email: "cajero1@tienda.co", PasswordHash: hash,
		Role: entity.RoleCashier, Status: status, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Users().Create(context.Background(), user))

	bl := &memBlacklist{revoked: map[string]time.Duration{}}
	uc := auth.NewAuthUseCase(store.Users(), store.Sessions(), bl, auth.JWTConfig{
		Secret: "test-secret", Issuer: "pos-test", AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour, BcryptCost: bcrypt.MinCost,
	}, nil)
	return uc, store, bl, user
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_PorUsernameYEmail(t *testing.T) {
	uc, store, _, user := newAuth(t, entity.StatusActive)
	ctx := context.Background()

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "cajero1", Password: "s3cret-pass"}, "10.0.0.1", "curl")
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.Equal(t, user.ID, out.User.ID)
	assert.Contains(t, out.User.EffectivePermissions, string(entity.PermSalesCreate))
	assert.NotContains(t, out.User.EffectivePermissions, string(entity.PermSalesVoid))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "CAJERO1@tienda.co", Password: "s3cret-pass"}, "", "")
	require.NoError(t, err)

	stored, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLogin_UserAgentLargoNoParteRunas(t *testing.T) {
	uc, store, _, _ := newAuth(t, entity.StatusActive)
	ctx := context.Background()
	// 254 bytes ASCII seguidos de "ñ" (2 bytes): el corte en 255 cae a mitad de la runa.
	ua := strings.Repeat("a", 254) + "ñandú/1.0"

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "cajero1", Password: "s3cret-pass"}, "", ua)
	require.NoError(t, err)

	sess, err := store.Sessions().GetByTokenHash(ctx, auth.HashToken(out.AccessToken))
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.True(t, utf8.ValidString(sess.UserAgent))
	assert.Equal(t, strings.Repeat("a", 254), sess.UserAgent)
	assert.LessOrEqual(t, len(sess.UserAgent), 255)
}

func TestLogin_CredencialesInvalidasNoRevelanCausa(t *testing.T) {
	uc, _, _, _ := newAuth(t, entity.StatusActive)
	ctx := context.Background()

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "cajero1", Password: "incorrecta"}, "", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Nil(t, out)

	_, err2 := uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "s3cret-pass"}, "", "")
	assert.ErrorIs(t, err2, domain.ErrUnauthorized)
	assert.Equal(t, err.Error(), err2.Error())
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, _, _, _ := newAuth(t, entity.StatusInactive)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "s3cret-pass"}, "", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ── Sesión ───────────────────────────────────────────────────────────────────

func TestAuthenticate_YLogoutRevoca(t *testing.T) {
	uc, _, bl, user := newAuth(t, entity.StatusActive)
	ctx := context.Background()
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "cajero1", Password: "s3cret-pass"}, "", "")
	require.NoError(t, err)

	p, err := uc.Authenticate(ctx, out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.UserID)
	assert.Equal(t, entity.RoleCashier, p.Role)

	require.NoError(t, uc.Logout(ctx, out.AccessToken))
	assert.Contains(t, bl.revoked, auth.HashToken(out.AccessToken))

	_, err = uc.Authenticate(ctx, out.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Refresh(ctx, out.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_RotaTokens(t *testing.T) {
	uc, _, _, _ := newAuth(t, entity.StatusActive)
	ctx := context.Background()
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "cajero1", Password: "s3cret-pass"}, "", "")
	require.NoError(t, err)

	next, err := uc.Refresh(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, out.AccessToken, next.AccessToken)

	// El access token anterior deja de valer; el nuevo sí.
	_, err = uc.Authenticate(ctx, out.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Authenticate(ctx, next.AccessToken)
	assert.NoError(t, err)

	// Un refresh token ya rotado no sirve.
	_, err = uc.Refresh(ctx, out.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_AccessTokenNoSirve(t *testing.T) {
	uc, _, _, _ := newAuth(t, entity.StatusActive)
	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "s3cret-pass"}, "", "")
	require.NoError(t, err)
	_, err = uc.Refresh(context.Background(), out.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword_CierraSesiones(t *testing.T) {
	uc, _, _, user := newAuth(t, entity.StatusActive)
	ctx := context.Background()
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "cajero1", Password: "s3cret-pass"}, "", "")
	require.NoError(t, err)

	err = uc.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "mala", NewPassword: "nueva-pass-123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "s3cret-pass", NewPassword: "nueva-pass-123"}))
	_, err = uc.Authenticate(ctx, out.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "cajero1", Password: "nueva-pass-123"}, "", "")
	assert.NoError(t, err)
}

func TestSweepExpired_BorraSoloVencidas(t *testing.T) {
	uc, store, _, user := newAuth(t, entity.StatusActive)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Sessions().Create(ctx, &entity.Session{
		ID: uuid.NewString(), UserID: user.ID, TokenHash: "a", RefreshHash: "b", ExpiresAt: now.Add(-time.Minute), CreatedAt: now,
	}))
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "cajero1", Password: "s3cret-pass"}, "", "")
	require.NoError(t, err)

	n, err := uc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = uc.Authenticate(ctx, out.AccessToken)
	assert.NoError(t, err)
}

func TestRunSessionSweeper_TerminaAlCancelar(t *testing.T) {
	uc, _, _, _ := newAuth(t, entity.StatusActive)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		uc.RunSessionSweeper(ctx, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("el sweeper no terminó tras cancelar el contexto")
	}
}
