package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
)

type ProcessInput struct {
	NotificationID int64 `validate:"required,gt=0"`
}

// Process runs one delivery attempt for a notification. It always re-reads
// the authoritative record, so stale queue payloads and redelivered jobs are
// harmless. Only store or queue infrastructure failures return an error; all
// delivery outcomes are absorbed into the record state.
func (s *Usecase) Process(ctx context.Context, in ProcessInput) error {
	ctx, span := s.startSpan(ctx, "Process")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid delivery job", "notification_id", in.NotificationID, "error", err)
		return nil
	}

	n, err := s.repoDB.GetByID(ctx, in.NotificationID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "notification deleted before delivery, dropping job", "notification_id", in.NotificationID)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get notification", "notification_id", in.NotificationID, "error", err)
		return err
	}

	now := s.clock.Now()

	if n.Status.Terminal() {
		slog.InfoContext(ctx, "notification already settled, dropping job",
			"notification_id", n.ID, "status", n.Status.String())
		return nil
	}

	if n.Status == entity.StatusFailed && !n.CanRetry() {
		slog.InfoContext(ctx, "notification retries exhausted, dropping job",
			"notification_id", n.ID, "retry_count", n.RetryCount, "max_retries", n.MaxRetries)
		return nil
	}

	if !n.Due(now) {
		slog.InfoContext(ctx, "notification not due yet, deferring to scheduled sweep",
			"notification_id", n.ID, "scheduled_at", n.ScheduledAt)
		return nil
	}

	claimed, err := s.repoDB.MarkProcessing(ctx, n.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark notification processing", "notification_id", n.ID, "error", err)
		return err
	}
	if !claimed {
		slog.InfoContext(ctx, "notification settled concurrently, dropping job", "notification_id", n.ID)
		return nil
	}

	failures := s.fanOut(ctx, n)

	state := entity.DeliveryState{
		ID:         n.ID,
		RetryCount: n.RetryCount,
	}
	if len(failures) == 0 {
		sentAt := s.clock.Now()
		state.Status = entity.StatusSent
		state.SentAt = &sentAt
	} else {
		state.Status = entity.StatusFailed
		state.RetryCount = n.RetryCount + 1
		state.ErrorMessage = strings.Join(failures, "; ")
	}

	updated, err := s.repoDB.UpdateDeliveryState(ctx, state)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery state", "notification_id", n.ID, "error", err)
		return err
	}
	if !updated {
		slog.WarnContext(ctx, "notification deleted during delivery, discarding outcome", "notification_id", n.ID)
		return nil
	}

	if state.Status == entity.StatusFailed {
		slog.WarnContext(ctx, "notification delivery failed",
			"notification_id", n.ID, "retry_count", state.RetryCount,
			"max_retries", n.MaxRetries, "errors", state.ErrorMessage)
	}

	return nil
}

// fanOut attempts every configured channel concurrently and waits for all of
// them. One slow or failing channel never short-circuits the others.
func (s *Usecase) fanOut(ctx context.Context, n *entity.Notification) []string {
	results := make([]string, len(n.Channels))

	var wg sync.WaitGroup
	for i, ch := range n.Channels {
		wg.Add(1)
		go func(i int, ch entity.Channel) {
			defer wg.Done()
			defer func() {
				if rvr := recover(); rvr != nil {
					results[i] = fmt.Sprintf("%s: panic: %v", ch.String(), rvr)
				}
			}()

			if err := s.dispatcher.Dispatch(ctx, ch, n); err != nil {
				results[i] = fmt.Sprintf("%s: %s", ch.String(), err.Error())
			}
		}(i, ch)
	}
	wg.Wait()

	failures := make([]string, 0, len(results))
	for _, r := range results {
		if r != "" {
			failures = append(failures, r)
		}
	}

	return failures
}
