package api

import (
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/account"
)

// RegisterRequest is the payload for POST /v1/auth/register.
type RegisterRequest struct {
	AccountID string `json:"account_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// LoginRequest is the payload for POST /v1/auth/login.
type LoginRequest struct {
	AccountID string `json:"account_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// AccountResponse is the shape of account data returned in API responses.
type AccountResponse struct {
	ID          string     `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// RegisterResponse is the response for POST /v1/auth/register.
type RegisterResponse struct {
	Account AccountResponse `json:"account"`
}

// LoginResponse is the response for POST /v1/auth/login.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	Account     AccountResponse `json:"account"`
}

// MeResponse is the response for GET /v1/me.
type MeResponse struct {
	Account AccountResponse `json:"account"`
}

func NewAccountResponse(a *account.Account) AccountResponse {
	var lastLoginAt *time.Time
	if a.LastLoginAt != nil {
		ll := *a.LastLoginAt
		lastLoginAt = &ll
	}
	return AccountResponse{
		ID:          a.ID,
		CreatedAt:   a.CreatedAt,
		LastLoginAt: lastLoginAt,
	}
}
