package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
)

type PasswordResetInput struct {
	Token    string `validate:"required"`
	Password string `validate:"required,password"`
}

func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.hmac.Hash(in.Token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash token", "error", err)
		return goerror.NewServer(err)
	}

	cu, err := s.repoDB.GetChallengeUserByTokenPurpose(ctx, string(tokenHash), entity.ChallengePurposePasswordForgotReset)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Invalid or expired reset token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to repo get challenge by token", "error", err)
		return goerror.NewServer(err)
	}

	if s.clock.Now().After(cu.ExpiresAt) {
		return goerror.NewBusiness("Invalid or expired reset token", goerror.CodeUnauthorized)
	}

	if err := s.ensureUserStatusAllowed(ctx, cu.UserID, cu.UserStatus); err != nil {
		return err
	}

	passwordHash, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	// Updates the password, burns the challenge, and revokes every active
	// session in one transaction.
	if err := s.repoDB.ResetUserPassword(ctx, cu.UserID, cu.ChallengeID, string(passwordHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo reset user password", "user_id", cu.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
