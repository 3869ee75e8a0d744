package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// RegisterRequest payload for new accounts. The role is fixed at registration.
type RegisterRequest struct {
	Username string      `json:"username" validate:"required,max=150"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Role     domain.Role `json:"role" validate:"required,role"`
}

// TokenRequest payload for login. The username field carries the email address.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest payload for token rotation.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	Refresh  string `json:"refresh"`
	Access   string `json:"access"`
	IsAgent  bool   `json:"is_agent"`
	Email    string `json:"email"`
	Username string `json:"username"`
	UserID   string `json:"user_id"`
}

// NewAuthResponse flattens a session.
func NewAuthResponse(session *domain.Session) AuthResponse {
	return AuthResponse{
		Refresh:  session.Tokens.Refresh,
		Access:   session.Tokens.Access,
		IsAgent:  session.Profile.IsAgent(),
		Email:    session.User.Email,
		Username: session.User.Username,
		UserID:   session.User.ID,
	}
}

// CreateProfileRequest payload for callers without a role.
type CreateProfileRequest struct {
	Role domain.Role `json:"role" validate:"required,role"`
}

// ProfileResponse describes a role record.
type ProfileResponse struct {
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsAgent   bool        `json:"is_agent"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewProfileResponse maps a profile.
func NewProfileResponse(profile *domain.UserProfile) ProfileResponse {
	resp := ProfileResponse{
		UserID:    profile.UserID,
		Role:      profile.Role,
		IsAgent:   profile.IsAgent(),
		CreatedAt: profile.CreatedAt,
	}
	if profile.User != nil {
		resp.Username = profile.User.Username
		resp.Email = profile.User.Email
	}
	return resp
}
