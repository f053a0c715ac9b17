package inbound

import (
	"time"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

type RegisterResponse struct{}

func (RegisterResponse) Message() string {
	return "Registration successful. You can now log in."
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordForgotResponse struct{}

func (PasswordForgotResponse) Message() string {
	return "If an account with that email exists, we have sent a password reset link."
}

type PasswordResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type PasswordChangeRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type PasswordChangeResponse struct{}

func (PasswordChangeResponse) Message() string {
	return "Password changed. Please log in again."
}

type ProfileResponse struct {
	ID       int64  `json:"id,string"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

type UserResponse struct {
	ID       int64             `json:"id,string"`
	Email    string            `json:"email"`
	FullName string            `json:"full_name"`
	Phone    string            `json:"phone"`
	Role     entity.UserRole   `json:"role"`
	Status   entity.UserStatus `json:"status"`
	UpdateAt time.Time         `json:"updated_at"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r UsersResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}
