package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ports"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/policy"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/jwt"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

// AuthUseCase casos de uso de autenticación: login, refresh, logout y validación de sesión.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	blacklist   ports.TokenBlacklist // opcional
	jwtCfg      JWTConfig
	log         *logger.Logger
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. blacklist puede ser nil.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	blacklist ports.TokenBlacklist,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	if jwtCfg.BcryptCost == 0 {
		jwtCfg.BcryptCost = bcrypt.DefaultCost
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		blacklist:   blacklist,
		jwtCfg:      jwtCfg,
		log:         log.Component("auth"),
		now:         time.Now,
	}
}

// HashToken SHA-256 hex de un token; es lo único que se persiste de él.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// HashPassword bcrypt con el costo indicado.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login verifica credenciales, abre una sesión y retorna el par de tokens + usuario.
// Usuario inexistente o password incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, ip, userAgent string) (*dto.TokenResponse, error) {
	var (
		user *entity.User
		err  error
	)
	if in.Username != "" {
		user, err = uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	} else {
		user, err = uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	sessionID := uuid.NewString()
	out, err := uc.issue(user, sessionID)
	if err != nil {
		return nil, err
	}
	session := &entity.Session{
		ID:          sessionID,
		UserID:      user.ID,
		TokenHash:   HashToken(out.AccessToken),
		RefreshHash: HashToken(out.RefreshToken),
		IPAddress:   ip,
		UserAgent:   truncate(userAgent, 255),
		ExpiresAt:   out.RefreshExpiresAt,
		CreatedAt:   now,
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo actualizar last_login")
	}
	user.LastLogin = &now
	out.User = dto.FromUser(user, policy.Effective(user.Role, user.Permissions))
	uc.log.Info().Str("user_id", user.ID).Str("ip", ip).Msg("login")
	return out, nil
}

// Refresh valida el refresh token contra su sesión, emite un par nuevo y rota los hashes.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, refreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	session, err := uc.sessionRepo.GetByRefreshHash(ctx, HashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if session == nil || session.ID != claims.SessionID || !session.ExpiresAt.After(uc.now()) {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	out, err := uc.issue(user, session.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessionRepo.Rotate(ctx, session.ID, HashToken(out.AccessToken), HashToken(out.RefreshToken), out.RefreshExpiresAt); err != nil {
		return nil, err
	}
	out.User = dto.FromUser(user, policy.Effective(user.Role, user.Permissions))
	return out, nil
}

// Logout elimina la sesión del token y, con caché configurada, lo marca revocado hasta su expiración.
func (uc *AuthUseCase) Logout(ctx context.Context, accessToken string) error {
	hash := HashToken(accessToken)
	if _, err := uc.sessionRepo.DeleteByTokenHash(ctx, hash); err != nil {
		return err
	}
	if uc.blacklist != nil {
		ttl := uc.jwtCfg.AccessTTL
		if claims, err := jwt.Parse(uc.jwtCfg.Secret, accessToken, jwt.AccessToken); err == nil && claims.ExpiresAt != nil {
			ttl = time.Until(claims.ExpiresAt.Time)
		}
		if ttl > 0 {
			if err := uc.blacklist.Revoke(ctx, hash, ttl); err != nil {
				uc.log.Warn().Err(err).Msg("no se pudo registrar el token revocado en caché")
			}
		}
	}
	return nil
}

// Authenticate valida firma, expiración y sesión vigente del access token.
func (uc *AuthUseCase) Authenticate(ctx context.Context, accessToken string) (*dto.Principal, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, accessToken, jwt.AccessToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	hash := HashToken(accessToken)
	if uc.blacklist != nil {
		revoked, err := uc.blacklist.IsRevoked(ctx, hash)
		if err != nil {
			uc.log.Warn().Err(err).Msg("caché de tokens revocados no disponible, se consulta la base")
		} else if revoked {
			return nil, domain.ErrUnauthorized
		}
	}
	session, err := uc.sessionRepo.GetByTokenHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.ExpiresAt.After(uc.now()) {
		return nil, domain.ErrUnauthorized
	}
	return &dto.Principal{
		UserID:      claims.UserID,
		Username:    claims.Username,
		Role:        claims.Role,
		Permissions: claims.Permissions,
		SessionID:   claims.SessionID,
	}, nil
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.FromUser(user, policy.Effective(user.Role, user.Permissions))
	return &out, nil
}

// ChangePassword verifica la password actual, guarda la nueva y cierra todas las sesiones del usuario.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.NewBusinessError(domain.ErrInvalidInput, "la contraseña actual no es correcta")
	}
	hash, err := HashPassword(in.NewPassword, uc.jwtCfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := uc.userRepo.UpdatePassword(ctx, userID, hash, uc.now()); err != nil {
		return err
	}
	_, err = uc.sessionRepo.DeleteByUser(ctx, userID)
	return err
}

// SweepExpired borra sesiones vencidas.
func (uc *AuthUseCase) SweepExpired(ctx context.Context) (int64, error) {
	return uc.sessionRepo.DeleteExpired(ctx, uc.now())
}

// RunSessionSweeper ejecuta SweepExpired cada interval hasta que ctx se cancele.
func (uc *AuthUseCase) RunSessionSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			uc.log.Debug().Msg("limpieza de sesiones detenida")
			return
		case <-ticker.C:
			n, err := uc.SweepExpired(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				uc.log.Error().Err(err).Msg("limpieza de sesiones vencidas")
				continue
			}
			if n > 0 {
				uc.log.Info().Int64("deleted", n).Msg("sesiones vencidas eliminadas")
			}
		}
	}
}

func (uc *AuthUseCase) issue(user *entity.User, sessionID string) (*dto.TokenResponse, error) {
	sub := jwt.Subject{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		Permissions: policy.Effective(user.Role, user.Permissions),
		SessionID:   sessionID,
	}
	access, accessExp, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, jwt.AccessToken, sub, uc.jwtCfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, jwt.RefreshToken, sub, uc.jwtCfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:      access,
		RefreshToken:     refresh,
		TokenType:        "Bearer",
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// truncate corta a n bytes como máximo sin partir una runa UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
