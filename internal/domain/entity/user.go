package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleCashier  = "cashier"
	RoleEmployee = "employee"
)

// Estados genéricos de registros con baja lógica.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidRole indica si el rol pertenece a la enumeración conocida.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleCashier, RoleEmployee:
		return true
	}
	return false
}

// User representa un usuario del sistema (personal de la tienda).
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Phone        string
	Role         string        // admin, manager, cashier, employee
	Permissions  PermissionSet // overrides finos sobre los permisos del rol
	Status       string        // active, inactive
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName nombre para mostrar; cae en Username si no hay nombre.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsActive indica si el usuario puede iniciar sesión.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Session fila de user_sessions: permite revocar tokens antes de su expiración.
// Los tokens nunca se guardan en claro, solo su SHA-256 hex.
type Session struct {
	ID          string
	UserID      string
	TokenHash   string
	RefreshHash string
	IPAddress   string
	UserAgent   string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
