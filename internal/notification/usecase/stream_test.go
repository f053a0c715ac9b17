package usecase

import (
	"context"
	"testing"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
)

func TestStreamNotifications(t *testing.T) {

	t.Run("SubscriberReceivesLiveEvent", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch := env.uc.StreamNotifications(ctx, 7)

		// Act
		env.uc.Notify(7, &entity.Notification{
			ID:      30,
			UserID:  7,
			Type:    entity.TypeOrder,
			Title:   "Order Confirmed",
			Message: "Your order is on its way",
		})

		// Assert
		evt := <-ch
		if evt.ID != 30 || evt.Title != "Order Confirmed" {
			t.Fatalf("unexpected event %+v", evt)
		}
		if !evt.CreatedAt.Equal(env.clock.now) {
			t.Fatalf("expected event stamped with clock time, got %v", evt.CreatedAt)
		}
	})

	t.Run("EventsOnlyReachTheOwningUser", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		other := env.uc.StreamNotifications(ctx, 8)

		// Act
		env.uc.Notify(7, &entity.Notification{ID: 31, UserID: 7})

		// Assert
		select {
		case evt := <-other:
			t.Fatalf("expected no event for other user, got %+v", evt)
		default:
		}
	})

	t.Run("NotifyAfterDisconnectIsSafe", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		ctx, cancel := context.WithCancel(context.Background())
		ch := env.uc.StreamNotifications(ctx, 7)
		cancel()
		for range ch { // drained and closed once cleanup has run
		}

		// Act
		env.uc.Notify(7, &entity.Notification{ID: 32, UserID: 7})

		// Assert: no panic and no dangling subscriber state
		env.uc.streamMu.RLock()
		defer env.uc.streamMu.RUnlock()
		if len(env.uc.streams[7]) != 0 {
			t.Fatalf("expected subscriber removed, got %d", len(env.uc.streams[7]))
		}
	})

	t.Run("SlowSubscriberIsSkippedNotBlocked", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		env.uc.StreamNotifications(ctx, 7)

		// Act: overflow the subscriber buffer without a reader
		for i := range 20 {
			env.uc.Notify(7, &entity.Notification{ID: int64(100 + i), UserID: 7})
		}

		// Assert: Notify returned without blocking; nothing further to check
	})
}
