package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/momtazchem/backend/internal/domain/identity"
)

// LoginInput contains login credentials
type LoginInput struct {
	TenantID uuid.UUID
	Username string
	Password string
	IP       string
}

// UserInfo describes a user in auth responses
type UserInfo struct {
	ID          uuid.UUID     `json:"id"`
	TenantID    uuid.UUID     `json:"tenant_id"`
	Username    string        `json:"username"`
	DisplayName string        `json:"display_name"`
	Email       string        `json:"email"`
	Role        identity.Role `json:"role"`
}

// LoginResult contains tokens and user info after a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput carries the refresh token
type RefreshTokenInput struct {
	TenantID     uuid.UUID
	RefreshToken string
}

// RefreshTokenResult contains the new token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// RegisterInput creates a new account
type RegisterInput struct {
	TenantID uuid.UUID
	Username string
	Email    string
	Password string
	Role     identity.Role
}

// ChangePasswordInput changes a user's own password
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

func toUserInfo(u *identity.User) UserInfo {
	displayName := u.DisplayName
	if displayName == "" {
		displayName = u.Username
	}
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: displayName,
		Email:       u.Email,
		Role:        u.Role,
	}
}
