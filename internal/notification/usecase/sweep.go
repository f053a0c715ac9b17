package usecase

import (
	"context"
	"log/slog"
)

// SweepRetries re-enqueues failed notifications that still have delivery
// attempts left. Records at their retry ceiling stay failed and are never
// picked up again.
func (s *Usecase) SweepRetries(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "SweepRetries")
	defer span.End()

	limit := s.cfg.GetInt32("modules.notification.sweep_batch_size")
	if limit <= 0 {
		limit = 100
	}

	items, err := s.repoDB.ListFailedRetryable(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list retryable notifications", "error", err)
		return err
	}

	for _, n := range items {
		if err := s.repoMessaging.PublishProcessJob(ctx, n); err != nil {
			slog.ErrorContext(ctx, "failed to re-enqueue failed notification", "notification_id", n.ID, "error", err)
			continue
		}
	}

	if len(items) > 0 {
		slog.InfoContext(ctx, "retry sweep re-enqueued notifications", "count", len(items))
	}

	return nil
}

// SweepScheduled releases pending notifications whose scheduled time has
// arrived by publishing a delivery job for each.
func (s *Usecase) SweepScheduled(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "SweepScheduled")
	defer span.End()

	limit := s.cfg.GetInt32("modules.notification.sweep_batch_size")
	if limit <= 0 {
		limit = 100
	}

	items, err := s.repoDB.ListDueScheduled(ctx, s.clock.Now(), limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list due scheduled notifications", "error", err)
		return err
	}

	for _, n := range items {
		if err := s.repoMessaging.PublishProcessJob(ctx, n); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue scheduled notification", "notification_id", n.ID, "error", err)
			continue
		}
	}

	if len(items) > 0 {
		slog.InfoContext(ctx, "scheduled sweep released notifications", "count", len(items))
	}

	return nil
}
