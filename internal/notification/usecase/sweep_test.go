package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
)

func TestSweepRetries(t *testing.T) {

	t.Run("ReEnqueuesEveryRetryableRecord", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.repo.failedRetryable = []*entity.Notification{
			{ID: 21, Status: entity.StatusFailed, RetryCount: 1, MaxRetries: 3},
			{ID: 22, Status: entity.StatusFailed, RetryCount: 2, MaxRetries: 3},
		}

		// Act
		err := env.uc.SweepRetries(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.queue.published) != 2 {
			t.Fatalf("expected 2 jobs published, got %v", env.queue.published)
		}
	})

	t.Run("PublishFailureDoesNotAbortSweep", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.repo.failedRetryable = []*entity.Notification{
			{ID: 23, Status: entity.StatusFailed, RetryCount: 1, MaxRetries: 3},
		}
		env.queue.publishErr = errors.New("broker unavailable")

		// Act
		err := env.uc.SweepRetries(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("expected sweep to absorb publish errors, got %v", err)
		}
	})
}

func TestSweepScheduled(t *testing.T) {

	t.Run("ReleasesDueRecords", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		past := env.clock.now.Add(-time.Minute)
		env.repo.dueScheduled = []*entity.Notification{
			{ID: 31, Status: entity.StatusPending, ScheduledAt: &past},
			{ID: 32, Status: entity.StatusPending},
		}

		// Act
		err := env.uc.SweepScheduled(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.queue.published) != 2 {
			t.Fatalf("expected 2 jobs published, got %v", env.queue.published)
		}
	})
}
