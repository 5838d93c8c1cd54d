package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// UserRepo implementa repository.UserRepository.
type UserRepo struct{ s *Store }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

var _ repository.UserRepository = (*UserRepo)(nil)

func cloneUser(u entity.User) *entity.User {
	perms := make(entity.PermissionSet, len(u.Permissions))
	for k, v := range u.Permissions {
		perms[k] = v
	}
	u.Permissions = perms
	return &u
}

func (r *UserRepo) unique(u *entity.User) error {
	for _, o := range r.s.d.users.rows {
		if o.ID == u.ID {
			continue
		}
		if strings.EqualFold(o.Username, u.Username) {
			return duplicate("username")
		}
		if u.Email != "" && strings.EqualFold(o.Email, u.Email) {
			return duplicate("email")
		}
	}
	return nil
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.writeLock()()
	if err := r.unique(u); err != nil {
		return err
	}
	put(r.s, r.s.d.users, u.ID, *cloneUser(*u))
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock()()
	u, ok := r.s.d.users.get(id)
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) find(match func(entity.User) bool) *entity.User {
	for _, u := range r.s.d.users.rows {
		if match(u) {
			return cloneUser(u)
		}
	}
	return nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	defer r.s.lock()()
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Username, username) }), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.lock()()
	return r.find(func(u entity.User) bool { return email != "" && strings.EqualFold(u.Email, email) }), nil
}

func (r *UserRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	defer r.s.lock()()
	var rows []*entity.User
	for _, u := range r.s.d.users.newest() {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if !contains(f.Search, u.Username, u.Email, u.FirstName, u.LastName) {
			continue
		}
		rows = append(rows, cloneUser(u))
	}
	page, total := paginate(rows, f.Page)
	return page, total, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	defer r.s.writeLock()()
	old, ok := r.s.d.users.get(u.ID)
	if !ok {
		return notFound("user")
	}
	if err := r.unique(u); err != nil {
		return err
	}
	next := *cloneUser(*u)
	next.PasswordHash = old.PasswordHash
	next.LastLogin = old.LastLogin
	next.CreatedAt = old.CreatedAt
	put(r.s, r.s.d.users, u.ID, next)
	return nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, hash string, at time.Time) error {
	defer r.s.writeLock()()
	u, ok := r.s.d.users.get(id)
	if !ok {
		return notFound("user")
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	put(r.s, r.s.d.users, id, u)
	return nil
}

func (r *UserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	defer r.s.writeLock()()
	u, ok := r.s.d.users.get(id)
	if !ok {
		return notFound("user")
	}
	u.LastLogin = &at
	put(r.s, r.s.d.users, id, u)
	return nil
}

// SessionRepo implementa repository.SessionRepository.
type SessionRepo struct{ s *Store }

// Sessions repositorio de sesiones.
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{s: s} }

var _ repository.SessionRepository = (*SessionRepo)(nil)

func (r *SessionRepo) Create(_ context.Context, sess *entity.Session) error {
	defer r.s.writeLock()()
	put(r.s, r.s.d.sessions, sess.ID, *sess)
	return nil
}

func (r *SessionRepo) findBy(match func(entity.Session) bool) *entity.Session {
	for _, sess := range r.s.d.sessions.rows {
		if match(sess) {
			return ptr(sess)
		}
	}
	return nil
}

func (r *SessionRepo) GetByTokenHash(_ context.Context, hash string) (*entity.Session, error) {
	defer r.s.lock()()
	return r.findBy(func(s entity.Session) bool { return s.TokenHash == hash }), nil
}

func (r *SessionRepo) GetByRefreshHash(_ context.Context, hash string) (*entity.Session, error) {
	defer r.s.lock()()
	return r.findBy(func(s entity.Session) bool { return s.RefreshHash == hash }), nil
}

func (r *SessionRepo) Rotate(_ context.Context, id, tokenHash, refreshHash string, expiresAt time.Time) error {
	defer r.s.writeLock()()
	sess, ok := r.s.d.sessions.get(id)
	if !ok {
		return notFound("session")
	}
	sess.TokenHash, sess.RefreshHash, sess.ExpiresAt = tokenHash, refreshHash, expiresAt
	put(r.s, r.s.d.sessions, id, sess)
	return nil
}

func (r *SessionRepo) deleteWhere(match func(entity.Session) bool) int64 {
	var ids []string
	for id, sess := range r.s.d.sessions.rows {
		if match(sess) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		del(r.s, r.s.d.sessions, id)
	}
	return int64(len(ids))
}

func (r *SessionRepo) DeleteByTokenHash(_ context.Context, hash string) (int64, error) {
	defer r.s.writeLock()()
	return r.deleteWhere(func(s entity.Session) bool { return s.TokenHash == hash }), nil
}

func (r *SessionRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	defer r.s.writeLock()()
	return r.deleteWhere(func(s entity.Session) bool { return s.UserID == userID }), nil
}

func (r *SessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	defer r.s.writeLock()()
	return r.deleteWhere(func(s entity.Session) bool { return s.ExpiresAt.Before(now) }), nil
}
