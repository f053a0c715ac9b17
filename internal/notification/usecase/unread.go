package usecase

import (
	"context"
	"log/slog"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
)

type UnreadOutput struct {
	Items []*entity.Notification
}

// Unread returns the caller's unread notifications.
func (s *Usecase) Unread(ctx context.Context) (*UnreadOutput, error) {
	ctx, span := s.startSpan(ctx, "Unread")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repoDB.ListUnreadByUser(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list unread notifications", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UnreadOutput{Items: items}, nil
}

type StatsOutput struct {
	Stats *entity.Stats
}

// Stats returns per-type totals and unread counts for the caller.
func (s *Usecase) Stats(ctx context.Context) (*StatsOutput, error) {
	ctx, span := s.startSpan(ctx, "Stats")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.repoDB.StatsByUser(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get notification stats", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &StatsOutput{Stats: stats}, nil
}
