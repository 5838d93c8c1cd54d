package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username    string          `json:"username" validate:"required,min=3,max=100"`
	Email       string          `json:"email" validate:"required,email"`
	Password    string          `json:"password" validate:"required,min=8,max=72"`
	FirstName   string          `json:"first_name" validate:"omitempty,max=100"`
	LastName    string          `json:"last_name" validate:"omitempty,max=100"`
	Phone       string          `json:"phone" validate:"omitempty,max=30"`
	Role        string          `json:"role" validate:"required,oneof=admin manager cashier employee"`
	Permissions map[string]bool `json:"permissions"`
}

// UpdateUserRequest actualización parcial; campos nil no se tocan.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin manager cashier employee"`
	Status    *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdatePermissionsRequest reemplaza los overrides de capacidades del usuario.
type UpdatePermissionsRequest struct {
	Permissions map[string]bool `json:"permissions" validate:"required"`
}

// ResetPasswordRequest password nueva asignada por un administrador.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// UserListQuery filtros de GET /api/users.
type UserListQuery struct {
	Role   string `query:"role" validate:"omitempty,oneof=admin manager cashier employee"`
	Status string `query:"status" validate:"omitempty,oneof=active inactive"`
	Search string `query:"search"`
	PageRequest
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                   string          `json:"id"`
	Username             string          `json:"username"`
	Email                string          `json:"email"`
	FirstName            string          `json:"first_name"`
	LastName             string          `json:"last_name"`
	Phone                string          `json:"phone,omitempty"`
	Role                 string          `json:"role"`
	Status               string          `json:"status"`
	Permissions          map[string]bool `json:"permissions,omitempty"`
	EffectivePermissions []string        `json:"effective_permissions"`
	LastLogin            *time.Time      `json:"last_login,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
