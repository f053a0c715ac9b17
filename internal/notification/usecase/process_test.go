package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
)

func seedNotification(env *testEnv, n *entity.Notification) *entity.Notification {
	if n.MaxRetries == 0 {
		n.MaxRetries = entity.DefaultMaxRetries
	}
	env.repo.records[n.ID] = n
	return n
}

func TestProcess(t *testing.T) {

	t.Run("AllChannelsSucceed", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		seedNotification(env, &entity.Notification{
			ID:       10,
			UserID:   2,
			Type:     entity.TypeOrder,
			Status:   entity.StatusPending,
			Channels: []entity.Channel{entity.ChannelInApp, entity.ChannelEmail},
		})

		// Act
		err := env.uc.Process(context.Background(), ProcessInput{NotificationID: 10})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if env.disp.sent[entity.ChannelInApp] != 1 || env.disp.sent[entity.ChannelEmail] != 1 {
			t.Fatalf("expected one send per channel, got %v", env.disp.sent)
		}
		state := env.repo.deliveryState
		if state == nil || state.Status != entity.StatusSent {
			t.Fatalf("expected sent delivery state, got %+v", state)
		}
		if state.SentAt == nil || !state.SentAt.Equal(env.clock.now) {
			t.Fatalf("expected sent_at stamped with clock time, got %v", state.SentAt)
		}
	})

	t.Run("ChannelFailureMarksFailedAndCountsAttempt", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.disp.errs[entity.ChannelEmail] = errors.New("smtp connect refused")
		seedNotification(env, &entity.Notification{
			ID:         11,
			UserID:     2,
			Type:       entity.TypeOrder,
			Status:     entity.StatusPending,
			RetryCount: 1,
			Channels:   []entity.Channel{entity.ChannelInApp, entity.ChannelEmail},
		})

		// Act
		err := env.uc.Process(context.Background(), ProcessInput{NotificationID: 11})

		// Assert
		if err != nil {
			t.Fatalf("expected delivery failure absorbed, got %v", err)
		}
		state := env.repo.deliveryState
		if state == nil || state.Status != entity.StatusFailed {
			t.Fatalf("expected failed delivery state, got %+v", state)
		}
		if state.RetryCount != 2 {
			t.Fatalf("expected retry count 2, got %d", state.RetryCount)
		}
		if !strings.Contains(state.ErrorMessage, "email: smtp connect refused") {
			t.Fatalf("expected channel error recorded, got %q", state.ErrorMessage)
		}
		if env.disp.sent[entity.ChannelInApp] != 1 {
			t.Fatalf("expected other channels still attempted, got %v", env.disp.sent)
		}
	})

	t.Run("MissingRecordDropsJob", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.Process(context.Background(), ProcessInput{NotificationID: 404})

		// Assert
		if err != nil {
			t.Fatalf("expected missing record dropped silently, got %v", err)
		}
		if len(env.disp.sent) != 0 {
			t.Fatalf("expected no channel sends, got %v", env.disp.sent)
		}
	})

	t.Run("SettledRecordIsNotRedelivered", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		seedNotification(env, &entity.Notification{
			ID:       12,
			UserID:   2,
			Status:   entity.StatusSent,
			Channels: []entity.Channel{entity.ChannelInApp},
		})

		// Act
		err := env.uc.Process(context.Background(), ProcessInput{NotificationID: 12})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.disp.sent) != 0 {
			t.Fatalf("expected zero sends for settled record, got %v", env.disp.sent)
		}
	})

	t.Run("ExhaustedFailedRecordIsDropped", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		seedNotification(env, &entity.Notification{
			ID:         16,
			UserID:     2,
			Status:     entity.StatusFailed,
			RetryCount: 3,
			MaxRetries: 3,
			Channels:   []entity.Channel{entity.ChannelInApp, entity.ChannelEmail},
		})

		// Act
		err := env.uc.Process(context.Background(), ProcessInput{NotificationID: 16})

		// Assert
		if err != nil {
			t.Fatalf("expected redelivered job dropped silently, got %v", err)
		}
		if len(env.disp.sent) != 0 {
			t.Fatalf("expected no channel sends for exhausted record, got %v", env.disp.sent)
		}
		if env.repo.deliveryState != nil {
			t.Fatalf("expected no delivery state write, got %+v", env.repo.deliveryState)
		}
		if got := env.repo.records[16].RetryCount; got != 3 {
			t.Fatalf("expected retry count held at ceiling, got %d", got)
		}
	})

	t.Run("FailedRecordUnderCeilingIsRetried", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		seedNotification(env, &entity.Notification{
			ID:         17,
			UserID:     2,
			Status:     entity.StatusFailed,
			RetryCount: 2,
			MaxRetries: 3,
			Channels:   []entity.Channel{entity.ChannelInApp},
		})

		// Act
		err := env.uc.Process(context.Background(), ProcessInput{NotificationID: 17})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if env.disp.sent[entity.ChannelInApp] != 1 {
			t.Fatalf("expected one retry send, got %v", env.disp.sent)
		}
		state := env.repo.deliveryState
		if state == nil || state.Status != entity.StatusSent {
			t.Fatalf("expected sent delivery state, got %+v", state)
		}
	})

	t.Run("FutureScheduleDefersDelivery", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		future := env.clock.now.Add(2 * time.Hour)
		seedNotification(env, &entity.Notification{
			ID:          13,
			UserID:      2,
			Status:      entity.StatusPending,
			ScheduledAt: &future,
			Channels:    []entity.Channel{entity.ChannelInApp},
		})

		// Act
		err := env.uc.Process(context.Background(), ProcessInput{NotificationID: 13})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.disp.sent) != 0 {
			t.Fatalf("expected no sends before scheduled time, got %v", env.disp.sent)
		}
		if env.repo.records[13].Status != entity.StatusPending {
			t.Fatalf("expected record left pending, got %v", env.repo.records[13].Status)
		}
	})

	t.Run("LostClaimDropsJob", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.repo.claimAllowed = false
		seedNotification(env, &entity.Notification{
			ID:       14,
			UserID:   2,
			Status:   entity.StatusPending,
			Channels: []entity.Channel{entity.ChannelInApp},
		})

		// Act
		err := env.uc.Process(context.Background(), ProcessInput{NotificationID: 14})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.disp.sent) != 0 {
			t.Fatalf("expected no sends when claim lost, got %v", env.disp.sent)
		}
	})

	t.Run("RecordDeletedMidFlightDiscardsOutcome", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.repo.updateAllowed = false
		seedNotification(env, &entity.Notification{
			ID:       15,
			UserID:   2,
			Status:   entity.StatusPending,
			Channels: []entity.Channel{entity.ChannelInApp},
		})

		// Act
		err := env.uc.Process(context.Background(), ProcessInput{NotificationID: 15})

		// Assert
		if err != nil {
			t.Fatalf("expected discarded outcome, got %v", err)
		}
	})

	t.Run("InvalidJobPayloadIsDropped", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.Process(context.Background(), ProcessInput{NotificationID: 0})

		// Assert
		if err != nil {
			t.Fatalf("expected malformed job dropped without redelivery, got %v", err)
		}
	})
}
