package mysql

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

// UserRepo usuarios sobre MySQL. Los permisos viven en una columna JSON.
type UserRepo struct {
	q Querier
}

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

// permissionsJSON la columna JSON se envía como texto.
func permissionsJSON(p entity.PermissionSet) (string, error) {
	if p == nil {
		p = entity.PermissionSet{}
	}
	b, err := json.Marshal(p)
	return string(b), err
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	perms, err := permissionsJSON(u.Permissions)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.q.ExecContext(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Role,
		perms, u.Status, u.LastLogin, u.CreatedAt, u.UpdatedAt,
	)
	return writeErr("insert user", err)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return getOne(ctx, r.q, "get user", scanUser, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByUsername la collation de la columna ya compara sin mayúsculas.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return getOne(ctx, r.q, "get user by username", scanUser, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, nil
	}
	return getOne(ctx, r.q, "get user by email", scanUser, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

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

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	perms, err := permissionsJSON(u.Permissions)
	if err != nil {
		return err
	}
	const query = `
		UPDATE users SET username = ?, email = ?, first_name = ?, last_name = ?, phone = ?,
			role = ?, permissions = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query,
		u.Username, u.Email, u.FirstName, u.LastName, u.Phone, u.Role, perms, u.Status, u.UpdatedAt, u.ID,
	)
	return mustAffect("update user", res, err)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, at, id)
	return mustAffect("update password", res, err)
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, at, id)
	return mustAffect("update last_login", res, err)
}

// SessionRepo filas de user_sessions.
type SessionRepo struct {
	q Querier
}

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
	_, err := r.q.ExecContext(ctx, `INSERT INTO user_sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.TokenHash, s.RefreshHash, s.IPAddress, s.UserAgent, s.ExpiresAt, s.CreatedAt)
	return writeErr("insert session", err)
}

func (r *SessionRepo) GetByTokenHash(ctx context.Context, hash string) (*entity.Session, error) {
	return getOne(ctx, r.q, "get session", scanSession, `SELECT `+sessionColumns+` FROM user_sessions WHERE token_hash = ?`, hash)
}

func (r *SessionRepo) GetByRefreshHash(ctx context.Context, hash string) (*entity.Session, error) {
	return getOne(ctx, r.q, "get session by refresh", scanSession,
		`SELECT `+sessionColumns+` FROM user_sessions WHERE refresh_hash = ?`, hash)
}

func (r *SessionRepo) Rotate(ctx context.Context, id, tokenHash, refreshHash string, expiresAt time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE user_sessions SET token_hash = ?, refresh_hash = ?, expires_at = ? WHERE id = ?`,
		tokenHash, refreshHash, expiresAt, id)
	return mustAffect("rotate session", res, err)
}

func (r *SessionRepo) deleteWhere(ctx context.Context, op, cond string, arg any) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM user_sessions WHERE `+cond, arg)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return res.RowsAffected()
}

func (r *SessionRepo) DeleteByTokenHash(ctx context.Context, hash string) (int64, error) {
	return r.deleteWhere(ctx, "delete session", "token_hash = ?", hash)
}

func (r *SessionRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.deleteWhere(ctx, "delete user sessions", "user_id = ?", userID)
}

// DeleteExpired usado por el barrido periódico de sesiones.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.deleteWhere(ctx, "delete expired sessions", "expires_at < ?", now)
}
