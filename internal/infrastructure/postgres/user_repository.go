package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.SessionRepository = (*SessionRepo)(nil)
)

const userColumns = `id, username, email, password_hash, first_name, last_name, phone, role,
	permissions, status, last_login, created_at, updated_at`

// UserRepo implementación de UserRepository (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row scanner) (*entity.User, error) {
	var u entity.User
	var perms []byte
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &u.Role,
		&perms, &u.Status, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Permissions = entity.PermissionSet{}
	if len(perms) > 0 {
		if err := json.Unmarshal(perms, &u.Permissions); err != nil {
			return nil, fmt.Errorf("permissions: %w", err)
		}
	}
	return &u, nil
}

func marshalPermissions(p entity.PermissionSet) ([]byte, error) {
	if p == nil {
		p = entity.PermissionSet{}
	}
	return json.Marshal(p)
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	perms, err := marshalPermissions(u.Permissions)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, phone, role,
			permissions, status, last_login, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.q.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Role,
		perms, u.Status, u.LastLogin, u.CreatedAt, u.UpdatedAt,
	)
	return writeErr("insert user", err)
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return getOne(ctx, r.q, "get user", scanUser, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername búsqueda sin distinguir mayúsculas.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return getOne(ctx, r.q, "get user by username", scanUser,
		`SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username)
}

// GetByEmail búsqueda sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, nil
	}
	return getOne(ctx, r.q, "get user by email", scanUser,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

// List usuarios filtrados, más recientes primero.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	w := &where{}
	if f.Role != "" {
		w.and("role = " + w.arg(f.Role))
	}
	if f.Status != "" {
		w.and("status = " + w.arg(f.Status))
	}
	w.like(f.Search, "username", "email", "first_name", "last_name")
	return list(ctx, r.q, "list users", "users", userColumns, "created_at DESC", w, f.Page, scanUser)
}

// Update datos de perfil, rol, permisos y estado. El hash de contraseña tiene su propio método.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	perms, err := marshalPermissions(u.Permissions)
	if err != nil {
		return err
	}
	const query = `
		UPDATE users SET username = $2, email = $3, first_name = $4, last_name = $5, phone = $6,
			role = $7, permissions = $8, status = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Phone, u.Role, perms, u.Status, u.UpdatedAt,
	)
	return mustAffect("update user", tag, err)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, hash, at)
	return mustAffect("update password", tag, err)
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	return mustAffect("update last_login", tag, err)
}

// SessionRepo sesiones activas (user_sessions).
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador.
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

const sessionColumns = `id, user_id, token_hash, refresh_hash, ip_address, user_agent, expires_at, created_at`

func scanSession(row scanner) (*entity.Session, error) {
	var s entity.Session
	err := row.Scan(&s.ID, &s.UserID, &s.TokenHash, &s.RefreshHash, &s.IPAddress, &s.UserAgent, &s.ExpiresAt, &s.CreatedAt)
	return &s, err
}

func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	const query = `
		INSERT INTO user_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, s.ID, s.UserID, s.TokenHash, s.RefreshHash, s.IPAddress, s.UserAgent, s.ExpiresAt, s.CreatedAt)
	return writeErr("insert session", err)
}

func (r *SessionRepo) GetByTokenHash(ctx context.Context, hash string) (*entity.Session, error) {
	return getOne(ctx, r.q, "get session", scanSession,
		`SELECT `+sessionColumns+` FROM user_sessions WHERE token_hash = $1`, hash)
}

func (r *SessionRepo) GetByRefreshHash(ctx context.Context, hash string) (*entity.Session, error) {
	return getOne(ctx, r.q, "get session by refresh", scanSession,
		`SELECT `+sessionColumns+` FROM user_sessions WHERE refresh_hash = $1`, hash)
}

func (r *SessionRepo) Rotate(ctx context.Context, id, tokenHash, refreshHash string, expiresAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE user_sessions SET token_hash = $2, refresh_hash = $3, expires_at = $4 WHERE id = $1`,
		id, tokenHash, refreshHash, expiresAt)
	return mustAffect("rotate session", tag, err)
}

func (r *SessionRepo) deleteWhere(ctx context.Context, op, cond string, arg any) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM user_sessions WHERE `+cond, arg)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

func (r *SessionRepo) DeleteByTokenHash(ctx context.Context, hash string) (int64, error) {
	return r.deleteWhere(ctx, "delete session", "token_hash = $1", hash)
}

func (r *SessionRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.deleteWhere(ctx, "delete user sessions", "user_id = $1", userID)
}

// DeleteExpired borra las sesiones vencidas antes de now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.deleteWhere(ctx, "delete expired sessions", "expires_at < $1", now)
}
