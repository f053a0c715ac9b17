package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
)

func TestPasswordForgot(t *testing.T) {
	t.Run("CreatesChallengeAndPublishesEvent", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "reader@example.com", "correct horse battery")

		// Act
		err := env.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "Reader@Example.com"})

		// Assert
		if err != nil {
			t.Fatalf("PasswordForgot() error = %v", err)
		}
		if len(env.repo.createdChallenges) != 1 {
			t.Fatalf("challenges = %d, want 1", len(env.repo.createdChallenges))
		}
		ch := env.repo.createdChallenges[0]
		if ch.Purpose != entity.ChallengePurposePasswordForgotReset {
			t.Fatalf("Purpose = %v, want password reset", ch.Purpose)
		}
		if got, want := ch.ExpiresAt, env.clock.now.Add(time.Hour); !got.Equal(want) {
			t.Fatalf("ExpiresAt = %v, want %v", got, want)
		}
		if len(env.mq.forgot) != 1 {
			t.Fatalf("forgot events = %d, want 1", len(env.mq.forgot))
		}
		evt := env.mq.forgot[0]
		if evt.ResetToken == "" || ch.Token == evt.ResetToken {
			t.Fatal("event must carry the plaintext token while only the hash is stored")
		}
		if ch.Token != env.hashToken(t, evt.ResetToken) {
			t.Fatal("stored token is not the hash of the published token")
		}
	})

	t.Run("UnknownEmailIsSilentlyAccepted", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "ghost@example.com"})

		// Assert
		if err != nil {
			t.Fatalf("PasswordForgot() error = %v, must not reveal account existence", err)
		}
		if len(env.repo.createdChallenges) != 0 || len(env.mq.forgot) != 0 {
			t.Fatal("no challenge or event expected for unknown email")
		}
	})

	t.Run("BannedAccountIsSilentlyAccepted", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "banned@example.com", "correct horse battery")
		env.repo.usersByID[42].Status = entity.UserStatusBanned

		// Act
		err := env.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "banned@example.com"})

		// Assert
		if err != nil {
			t.Fatalf("PasswordForgot() error = %v, must not reveal account state", err)
		}
		if len(env.repo.createdChallenges) != 0 {
			t.Fatalf("challenges = %d, want 0", len(env.repo.createdChallenges))
		}
	})
}

func TestPasswordReset(t *testing.T) {
	seedChallenge := func(env *testEnv, t *testing.T, plain string, cu entity.ChallengeUser) {
		t.Helper()
		env.repo.challenges[env.hashToken(t, plain)] = &cu
	}

	t.Run("UpdatesPasswordAndBurnsChallenge", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		seedChallenge(env, t, "reset-token", entity.ChallengeUser{
			ChallengeID: 500,
			UserID:      42,
			UserStatus:  entity.UserStatusActive,
			ExpiresAt:   env.clock.now.Add(30 * time.Minute),
		})

		// Act
		err := env.uc.PasswordReset(context.Background(), PasswordResetInput{
			Token:    "reset-token",
			Password: "a brand new password",
		})

		// Assert
		if err != nil {
			t.Fatalf("PasswordReset() error = %v", err)
		}
		if len(env.repo.resets) != 1 {
			t.Fatalf("resets = %d, want 1", len(env.repo.resets))
		}
		rc := env.repo.resets[0]
		if rc.userID != 42 || rc.challengeID != 500 {
			t.Fatalf("reset call = %+v, want user 42 challenge 500", rc)
		}
		if !env.bcrypt.Verify(rc.newHash, "a brand new password") {
			t.Fatal("stored hash does not verify against the new password")
		}
	})

	t.Run("UnknownTokenRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.PasswordReset(context.Background(), PasswordResetInput{
			Token:    "never-issued",
			Password: "a brand new password",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("PasswordReset() error = %v, want unauthorized", err)
		}
	})

	t.Run("ExpiredTokenRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		seedChallenge(env, t, "stale-token", entity.ChallengeUser{
			ChallengeID: 501,
			UserID:      42,
			UserStatus:  entity.UserStatusActive,
			ExpiresAt:   env.clock.now.Add(-time.Second),
		})

		// Act
		err := env.uc.PasswordReset(context.Background(), PasswordResetInput{
			Token:    "stale-token",
			Password: "a brand new password",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("PasswordReset() error = %v, want unauthorized", err)
		}
		if len(env.repo.resets) != 0 {
			t.Fatalf("resets = %d, want 0", len(env.repo.resets))
		}
	})
}

func TestPasswordChange(t *testing.T) {
	t.Run("ChangesPasswordAndRevokesSessions", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "reader@example.com", "old password 123")

		// Act
		err := env.uc.PasswordChange(authCtx(42, "reader@example.com"), PasswordChangeInput{
			OldPassword: "old password 123",
			NewPassword: "a brand new password",
		})

		// Assert
		if err != nil {
			t.Fatalf("PasswordChange() error = %v", err)
		}
		if len(env.repo.passwordChanges) != 1 {
			t.Fatalf("password changes = %d, want 1", len(env.repo.passwordChanges))
		}
		pc := env.repo.passwordChanges[0]
		if pc.userID != 42 {
			t.Fatalf("userID = %d, want 42", pc.userID)
		}
		if !env.bcrypt.Verify(pc.newHash, "a brand new password") {
			t.Fatal("stored hash does not verify against the new password")
		}
	})

	t.Run("WrongOldPasswordRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "reader@example.com", "old password 123")

		// Act
		err := env.uc.PasswordChange(authCtx(42, "reader@example.com"), PasswordChangeInput{
			OldPassword: "not my password",
			NewPassword: "a brand new password",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("PasswordChange() error = %v, want unauthorized", err)
		}
		if len(env.repo.passwordChanges) != 0 {
			t.Fatalf("password changes = %d, want 0", len(env.repo.passwordChanges))
		}
	})

	t.Run("WeakNewPasswordRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "reader@example.com", "old password 123")

		// Act
		err := env.uc.PasswordChange(authCtx(42, "reader@example.com"), PasswordChangeInput{
			OldPassword: "old password 123",
			NewPassword: "short",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
			t.Fatalf("PasswordChange() error = %v, want invalid input", err)
		}
	})

	t.Run("RequiresAuthentication", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.PasswordChange(context.Background(), PasswordChangeInput{
			OldPassword: "old password 123",
			NewPassword: "a brand new password",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("PasswordChange() error = %v, want unauthorized", err)
		}
	})
}
