package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/idempotency"
	"github.com/bookhivelabs/bookhive/internal/pkg/valueobject"
)

type ConsumeUserRegisteredInput struct {
	UserID   int64  `validate:"required,gt=0"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required"`
}

// ConsumeUserRegistered creates the welcome notification for a new user. The
// broker may redeliver, so creation is deduplicated per user event.
func (s *Usecase) ConsumeUserRegistered(ctx context.Context, in ConsumeUserRegisteredInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserRegistered")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid user registered event, dropping", "user_id", in.UserID, "error", err)
		return nil
	}

	key := fmt.Sprintf("notification:welcome:%d", in.UserID)
	err := s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		return s.createSystemNotification(ctx, &entity.Notification{
			ID:      s.uid.Generate(),
			UserID:  in.UserID,
			Type:    entity.TypeSuccess,
			Title:   "Welcome to BookHive!",
			Message: fmt.Sprintf("Hi %s, your account is ready. Start exploring our catalog.", in.FullName),
			Data: valueobject.JSONMap{
				"userName":  in.FullName,
				"userEmail": in.Email,
			},
			Channels: []entity.Channel{entity.ChannelInApp, entity.ChannelEmail},
		})
	})
	if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.InfoContext(ctx, "welcome notification already handled", "user_id", in.UserID)
		return nil
	}

	return err
}

// createSystemNotification persists an internally triggered notification and
// enqueues its delivery job.
func (s *Usecase) createSystemNotification(ctx context.Context, n *entity.Notification) error {
	now := s.clock.Now()
	n.Status = entity.StatusPending
	n.MaxRetries = entity.DefaultMaxRetries
	n.CreatedAt = now
	n.UpdatedAt = now

	if err := s.repoDB.Create(ctx, n); err != nil {
		slog.ErrorContext(ctx, "failed to repo create system notification", "user_id", n.UserID, "error", err)
		return err
	}

	s.enqueueIfDue(ctx, n)

	return nil
}
