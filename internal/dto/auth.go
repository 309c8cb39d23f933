package dto

import (
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
)

// TelegramLoginRequest carries the raw init data string of the Telegram mini-app.
type TelegramLoginRequest struct {
	InitData string `json:"initData" binding:"required"`
}

// AdminLoginRequest defines the credentials of an admin.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse defines the access token issued after a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Subject   string      `json:"subject"`
	Role      domain.Role `json:"role"`
	// Onboarded is false for Telegram users that still need to call the onboarding endpoint.
	Onboarded bool `json:"onboarded"`
	// TelegramUsername is used to prefill onboarding.
	TelegramUsername string `json:"telegramUsername,omitempty"`
}

// CreateAdminRequest defines the data needed to add an admin.
type CreateAdminRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Name     string      `json:"name" binding:"required,notblank,max=100"`
	Password string      `json:"password" binding:"required,min=8,max=72"`
	Role     domain.Role `json:"role" binding:"required,oneof=admin superadmin"`
}

// AdminResponse defines the data returned for an admin.
type AdminResponse struct {
	AdminID   string      `json:"adminID"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ToAdminResponse converts a domain.Admin to AdminResponse DTO
func ToAdminResponse(a *domain.Admin) AdminResponse {
	return AdminResponse{
		AdminID:   a.AdminID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}

// ExchangeCodeRequest defines the body of the Google code exchange.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// GoogleLoginURLResponse carries the consent URL and the CSRF state.
type GoogleLoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}
