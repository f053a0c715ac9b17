package inbound

import (
	"context"

	"github.com/bookhivelabs/bookhive/internal/identity/usecase"
	"github.com/bookhivelabs/bookhive/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error)
	Register(ctx context.Context, in usecase.RegisterInput) error
	Logout(ctx context.Context, in usecase.LogoutInput) error

	PasswordForgot(ctx context.Context, in usecase.PasswordForgotInput) error
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error
	PasswordChange(ctx context.Context, in usecase.PasswordChangeInput) error

	Profile(ctx context.Context, in usecase.ProfileInput) (*usecase.ProfileOutput, error)
	ProfileUpdate(ctx context.Context, in usecase.ProfileUpdateInput) error

	UserList(ctx context.Context, in usecase.UserListInput) (*usecase.UserListOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Auth
	r.POST("/api/v1/identity/register", end.Register)
	r.POST("/api/v1/identity/login", end.Login)
	r.POST("/api/v1/identity/refresh", end.RefreshToken)
	r.POST("/api/v1/identity/logout", end.Logout) // need authenticated

	// Password Management
	r.POST("/api/v1/identity/password/forgot", end.PasswordForgot)
	r.POST("/api/v1/identity/password/reset", end.PasswordReset)
	r.PUT("/api/v1/identity/password", end.PasswordChange) // need authenticated

	// User Profile (need authenticated)
	r.GET("/api/v1/identity/profile", end.Profile)
	r.PUT("/api/v1/identity/profile", end.ProfileUpdate)

	// User Directory (need authenticated & authorization)
	r.GET("/api/v1/identity/users", end.UserList)
}
