package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/idempotency"
)

func TestConsumeUserRegistered(t *testing.T) {

	t.Run("CreatesWelcomeNotification", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.ConsumeUserRegistered(context.Background(), ConsumeUserRegisteredInput{
			UserID:   42,
			Email:    "reader@bookhive.dev",
			FullName: "Avid Reader",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.repo.created) != 1 {
			t.Fatalf("expected one record created, got %d", len(env.repo.created))
		}
		n := env.repo.created[0]
		if n.Type != entity.TypeSuccess || n.UserID != 42 {
			t.Fatalf("unexpected welcome record %+v", n)
		}
		if len(n.Channels) != 2 {
			t.Fatalf("expected in_app and email channels, got %v", n.Channels)
		}
		if len(env.queue.published) != 1 {
			t.Fatalf("expected delivery job enqueued, got %v", env.queue.published)
		}
		if len(env.idem.executed) != 1 || !strings.Contains(env.idem.executed[0], "welcome:42") {
			t.Fatalf("expected deduplication keyed per user, got %v", env.idem.executed)
		}
	})

	t.Run("RedeliveredEventIsDropped", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		env.idem.execErr = idempotency.ErrAlreadyCompleted

		// Act
		err := env.uc.ConsumeUserRegistered(context.Background(), ConsumeUserRegisteredInput{
			UserID:   42,
			Email:    "reader@bookhive.dev",
			FullName: "Avid Reader",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected redelivery absorbed, got %v", err)
		}
		if len(env.repo.created) != 0 {
			t.Fatalf("expected no duplicate record, got %d", len(env.repo.created))
		}
	})

	t.Run("MalformedEventIsDropped", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.ConsumeUserRegistered(context.Background(), ConsumeUserRegisteredInput{
			UserID: 0,
			Email:  "not-an-email",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected malformed event dropped without redelivery, got %v", err)
		}
		if len(env.repo.created) != 0 {
			t.Fatalf("expected no record created, got %d", len(env.repo.created))
		}
	})
}

func TestConsumeUserForgotPassword(t *testing.T) {

	t.Run("CreatesResetEmailNotification", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.ConsumeUserForgotPassword(context.Background(), ConsumeUserForgotPasswordInput{
			UserID:     42,
			Email:      "reader@bookhive.dev",
			FullName:   "Avid Reader",
			ResetToken: "tok-123",
		})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.repo.created) != 1 {
			t.Fatalf("expected one record created, got %d", len(env.repo.created))
		}
		n := env.repo.created[0]
		if len(n.Channels) != 1 || n.Channels[0] != entity.ChannelEmail {
			t.Fatalf("expected email-only delivery, got %v", n.Channels)
		}
		resetURL, _ := n.Data["resetUrl"].(string)
		if !strings.Contains(resetURL, "token=tok-123") {
			t.Fatalf("expected reset url carrying the token, got %q", resetURL)
		}
	})
}
