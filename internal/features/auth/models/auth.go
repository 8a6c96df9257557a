package models

import (
	"github.com/golang-jwt/jwt/v5"

	usermodels "broadcast-tool-backend/internal/features/user/models"
)

// Claims carried by access tokens.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the email/password login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@example.com"`
	Password string `json:"password" binding:"required" example:"correct horse battery staple"`
}

// RefreshRequest carries a refresh token for rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in" example:"900"`
}

// LoginResponse pairs the issued token set with the account so the
// dashboard can route to the right view without a second request.
type LoginResponse struct {
	Tokens *TokenResponse           `json:"tokens"`
	User   *usermodels.UserResponse `json:"user"`
}

// TelegramLinkRequest carries Telegram Mini App init data for binding a
// Telegram identity to the current account.
type TelegramLinkRequest struct {
	InitData string `json:"init_data" binding:"required"`
}
