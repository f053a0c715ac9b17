package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/jwt"
)

type PasswordChangeInput struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,password"`
}

// PasswordChange replaces the credential of the authenticated user. Every
// active session is revoked, so the caller must log in again afterwards.
func (s *Usecase) PasswordChange(ctx context.Context, in PasswordChangeInput) error {
	ctx, span := s.startSpan(ctx, "PasswordChange")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserLoginInfoByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", clm.UserID)
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return err
	}

	if !s.bcrypt.Verify(user.Password, in.OldPassword) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return goerror.NewBusiness("current password is incorrect", goerror.CodeUnauthorized)
	}

	newHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.ChangeUserPassword(ctx, user.ID, string(newHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo change user password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
