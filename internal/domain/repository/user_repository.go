package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) cuando no existe el registro.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, f UserFilter) ([]*entity.User, int, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// SessionRepository sesiones activas; los tokens se guardan solo como hash.
type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	GetByTokenHash(ctx context.Context, hash string) (*entity.Session, error)
	GetByRefreshHash(ctx context.Context, hash string) (*entity.Session, error)
	Rotate(ctx context.Context, id, tokenHash, refreshHash string, expiresAt time.Time) error
	DeleteByTokenHash(ctx context.Context, hash string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
