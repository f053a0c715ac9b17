package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/valueobject"
)

type ConsumeUserForgotPasswordInput struct {
	UserID     int64  `validate:"required,gt=0"`
	Email      string `validate:"required,email"`
	FullName   string `validate:"required"`
	ResetToken string `validate:"required"`
}

// ConsumeUserForgotPassword delivers the password reset link by email. Reset
// tokens are single use, so no idempotency guard is needed here; a duplicate
// email is preferable to a missing one.
func (s *Usecase) ConsumeUserForgotPassword(ctx context.Context, in ConsumeUserForgotPasswordInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserForgotPassword")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid forgot password event, dropping", "user_id", in.UserID, "error", err)
		return nil
	}

	resetURL := s.cfg.GetString("app.web") + "/reset-password?token=" + url.QueryEscape(in.ResetToken)

	return s.createSystemNotification(ctx, &entity.Notification{
		ID:      s.uid.Generate(),
		UserID:  in.UserID,
		Type:    entity.TypeWarning,
		Title:   "Password Reset Requested",
		Message: fmt.Sprintf("Hi %s, use the link below to reset your password. The link expires soon.", in.FullName),
		Data: valueobject.JSONMap{
			"userName":  in.FullName,
			"userEmail": in.Email,
			"resetUrl":  resetURL,
		},
		Channels: []entity.Channel{entity.ChannelEmail},
	})
}
