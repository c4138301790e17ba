package auth

import (
	"time"

	"lucy-college/internal/user"
)

// RegisterRequest is the request body for self-registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// CreateUserRequest is the request body for admin-created accounts
type CreateUserRequest struct {
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required,min=8,max=72"`
	Role     user.Role `json:"role" validate:"required,oneof=SUPERADMIN REGISTRAR LECTURER STUDENT"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the response for successful authentication
type LoginResponse struct {
	User      *user.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// MeResponse echoes the verified claims of the caller.
type MeResponse struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}
