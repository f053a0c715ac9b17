package usecase

import (
	"testing"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
)

func TestMarkRead(t *testing.T) {

	t.Run("MarksOwnNotification", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		seedNotification(env, &entity.Notification{ID: 50, UserID: 7, Status: entity.StatusSent})

		// Act
		err := env.uc.MarkRead(userCtx(7, "7"), MarkReadInput{ID: 50})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !env.repo.records[50].IsRead {
			t.Fatalf("expected record marked read")
		}
	})

	t.Run("OtherUsersNotificationNotFound", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		seedNotification(env, &entity.Notification{ID: 51, UserID: 7, Status: entity.StatusSent})

		// Act
		err := env.uc.MarkRead(userCtx(8, "8"), MarkReadInput{ID: 51})

		// Assert
		if err == nil {
			t.Fatalf("expected not found for foreign record")
		}
		if env.repo.records[51].IsRead {
			t.Fatalf("expected record untouched")
		}
	})
}

func TestCancel(t *testing.T) {

	t.Run("CancelsPendingNotification", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		seedNotification(env, &entity.Notification{ID: 60, UserID: 7, Status: entity.StatusPending})

		// Act
		err := env.uc.Cancel(userCtx(7, "7"), CancelInput{ID: 60})

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if env.repo.records[60].Status != entity.StatusCancelled {
			t.Fatalf("expected cancelled, got %v", env.repo.records[60].Status)
		}
	})

	t.Run("SentNotificationCannotBeCancelled", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		seedNotification(env, &entity.Notification{ID: 61, UserID: 7, Status: entity.StatusSent})

		// Act
		err := env.uc.Cancel(userCtx(7, "7"), CancelInput{ID: 61})

		// Assert
		if err == nil {
			t.Fatalf("expected settled record not cancellable")
		}
	})
}

func TestMarkAllRead(t *testing.T) {

	t.Run("CountsUpdatedRecords", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		seedNotification(env, &entity.Notification{ID: 70, UserID: 7, Status: entity.StatusSent})
		seedNotification(env, &entity.Notification{ID: 71, UserID: 7, Status: entity.StatusSent, IsRead: true})
		seedNotification(env, &entity.Notification{ID: 72, UserID: 8, Status: entity.StatusSent})

		// Act
		out, err := env.uc.MarkAllRead(userCtx(7, "7"))

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Updated != 1 {
			t.Fatalf("expected 1 updated, got %d", out.Updated)
		}
	})
}

func TestDeleteAll(t *testing.T) {

	t.Run("DeletesOnlyOwnRecords", func(t *testing.T) {

		// Arrange
		env := newTestEnv(t)
		seedNotification(env, &entity.Notification{ID: 80, UserID: 7})
		seedNotification(env, &entity.Notification{ID: 81, UserID: 8})

		// Act
		out, err := env.uc.DeleteAll(userCtx(7, "7"))

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Deleted != 1 {
			t.Fatalf("expected 1 deleted, got %d", out.Deleted)
		}
		if _, ok := env.repo.records[81]; !ok {
			t.Fatalf("expected other user's record kept")
		}
	})
}
