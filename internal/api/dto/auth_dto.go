package dto

import (
	"time"

	"github.com/spec-kit/product-catalog/internal/domain"
	apperrors "github.com/spec-kit/product-catalog/pkg/util"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Validate checks required login fields.
func (r LoginRequest) Validate() error {
	if r.Login == "" {
		return apperrors.NewValidationError("login required", map[string]any{"field": "login"})
	}
	if r.Password == "" {
		return apperrors.NewValidationError("password required", map[string]any{"field": "password"})
	}
	return nil
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate checks required registration fields and the role enum.
func (r RegisterRequest) Validate() error {
	if r.Login == "" {
		return apperrors.NewValidationError("login required", map[string]any{"field": "login"})
	}
	if r.Password == "" {
		return apperrors.NewValidationError("password required", map[string]any{"field": "password"})
	}
	if _, ok := domain.ParseRole(r.Role); !ok {
		return apperrors.NewValidationError("role must be USER or ADMIN", map[string]any{"field": "role"})
	}
	return nil
}

// AuthResponse standard response for the login endpoint.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
