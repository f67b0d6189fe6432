package auth

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest for POST /auth/register
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email,max=255"`
	Password     string `json:"password" validate:"required,min=8,max=128"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=64"`
}

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest for POST /auth/refresh and /auth/logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse returned after login/register/refresh
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	CreditBalance int       `json:"credit_balance"`
	CreatedAt     string    `json:"created_at"`
}

// TokensResponse represents the token pair in API responses
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // seconds until access token expires
}

// NewUserResponse creates UserResponse from user data
func NewUserResponse(id uuid.UUID, email, role string, creditBalance int, createdAt time.Time) UserResponse {
	return UserResponse{
		ID:            id,
		Email:         email,
		Role:          role,
		CreditBalance: creditBalance,
		CreatedAt:     createdAt.Format(time.RFC3339),
	}
}
