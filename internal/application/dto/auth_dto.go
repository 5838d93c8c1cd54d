package dto

import "time"

// LoginRequest acepta username o email.
type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email,omitempty,max=100"`
	Email    string `json:"email" validate:"required_without=Username,omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest entrada para rotar tokens.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse par de tokens emitido en login/refresh.
type TokenResponse struct {
	AccessToken      string       `json:"access_token"`
	RefreshToken     string       `json:"refresh_token"`
	TokenType        string       `json:"token_type"`
	ExpiresAt        time.Time    `json:"expires_at"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
	User             UserResponse `json:"user"`
}

// ChangePasswordRequest cambio de password propio.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

// Principal identidad autenticada que el middleware deja en el contexto.
type Principal struct {
	UserID      string
	Username    string
	Role        string
	Permissions []string
	SessionID   string
}
