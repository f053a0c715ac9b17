package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/idempotency"
)

func TestCreate(t *testing.T) {

	t.Run("PersistsAndEnqueues", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		in := CreateInput{
			UserID:   42,
			Type:     "order",
			Title:    "Order Confirmed",
			Message:  "Your order has been confirmed.",
			Channels: []string{"in_app", "email"},
		}

		// Act
		out, err := env.uc.Create(adminCtx(), in)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.repo.created) != 1 {
			t.Fatalf("expected one record created, got %d", len(env.repo.created))
		}
		n := out.Notification
		if n.Status != entity.StatusPending || n.MaxRetries != entity.DefaultMaxRetries {
			t.Fatalf("expected pending record with default retry ceiling, got %+v", n)
		}
		if len(env.queue.published) != 1 || env.queue.published[0] != n.ID {
			t.Fatalf("expected delivery job enqueued for %d, got %v", n.ID, env.queue.published)
		}
	})

	t.Run("DefaultsToInAppChannel", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		out, err := env.uc.Create(adminCtx(), CreateInput{
			UserID:  42,
			Type:    "info",
			Title:   "Heads up",
			Message: "Something happened.",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out.Notification.Channels) != 1 || out.Notification.Channels[0] != entity.ChannelInApp {
			t.Fatalf("expected in_app default channel, got %v", out.Notification.Channels)
		}
	})

	t.Run("FutureScheduleSkipsEnqueue", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		future := env.clock.now.Add(time.Hour)

		// Act
		out, err := env.uc.Create(adminCtx(), CreateInput{
			UserID:      42,
			Type:        "promotion",
			Title:       "Sale",
			Message:     "Weekend sale starts soon.",
			ScheduledAt: &future,
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.queue.published) != 0 {
			t.Fatalf("expected no delivery job before scheduled time, got %v", env.queue.published)
		}
		if out.Notification.ScheduledAt == nil || !out.Notification.ScheduledAt.Equal(future) {
			t.Fatalf("expected scheduled_at preserved, got %v", out.Notification.ScheduledAt)
		}
	})

	t.Run("UnknownTypeRejected", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.Create(adminCtx(), CreateInput{
			UserID:  42,
			Type:    "carrier_pigeon",
			Title:   "Hello",
			Message: "World",
		})

		// Assert
		if err == nil {
			t.Fatalf("expected unknown type rejected")
		}
		if len(env.repo.created) != 0 {
			t.Fatalf("expected nothing persisted, got %d", len(env.repo.created))
		}
	})

	t.Run("UnknownChannelRejected", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.Create(adminCtx(), CreateInput{
			UserID:   42,
			Type:     "info",
			Title:    "Hello",
			Message:  "World",
			Channels: []string{"fax"},
		})

		// Assert
		if err == nil {
			t.Fatalf("expected unknown channel rejected")
		}
	})

	t.Run("RequiresAdminRole", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.Create(userCtx(42, "42"), CreateInput{
			UserID:  42,
			Type:    "info",
			Title:   "Hello",
			Message: "World",
		})

		// Assert
		if err == nil {
			t.Fatalf("expected forbidden for non-admin")
		}
	})

	t.Run("RequiresAuthentication", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.Create(context.Background(), CreateInput{
			UserID:  42,
			Type:    "info",
			Title:   "Hello",
			Message: "World",
		})

		// Assert
		if err == nil {
			t.Fatalf("expected unauthenticated request rejected")
		}
	})

	t.Run("IdempotencyKeyDeduplicates", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		in := CreateInput{
			UserID:         42,
			Type:           "info",
			Title:          "Hello",
			Message:        "World",
			IdempotencyKey: "req-abc",
		}
		if _, err := env.uc.Create(adminCtx(), in); err != nil {
			t.Fatalf("expected first create to succeed, got %v", err)
		}
		env.idem.execErr = idempotency.ErrAlreadyCompleted

		// Act
		_, err := env.uc.Create(adminCtx(), in)

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
			t.Fatalf("expected conflict for duplicate request, got %v", err)
		}
		if len(env.repo.created) != 1 {
			t.Fatalf("expected single record, got %d", len(env.repo.created))
		}
	})
}

func TestCreateBulk(t *testing.T) {

	t.Run("CreatesOneRecordPerUser", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		out, err := env.uc.CreateBulk(adminCtx(), CreateBulkInput{
			UserIDs: []int64{7, 8, 9},
			Type:    "promotion",
			Title:   "Sale",
			Message: "Everything must go.",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Created != 3 {
			t.Fatalf("expected 3 records, got %d", out.Created)
		}
		if len(env.queue.published) != 3 {
			t.Fatalf("expected 3 delivery jobs, got %d", len(env.queue.published))
		}
	})

	t.Run("RejectsEmptyAudience", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.CreateBulk(adminCtx(), CreateBulkInput{
			UserIDs: []int64{},
			Type:    "promotion",
			Title:   "Sale",
			Message: "Everything must go.",
		})

		// Assert
		if err == nil {
			t.Fatalf("expected empty audience rejected")
		}
	})
}
