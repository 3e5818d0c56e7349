package dto

import "time"

// LoginRequest credencial compartida del operador.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de sesión.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
