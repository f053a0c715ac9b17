package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
)

func TestRegister(t *testing.T) {
	t.Run("CreatesUserAndPublishesEvent", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		in := RegisterInput{
			Email:    "New.Reader@Example.com",
			Password: "correct horse battery",
			FullName: "New Reader",
			Phone:    "+14155550100",
		}

		// Act
		err := env.uc.Register(context.Background(), in)

		// Assert
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if len(env.repo.createdUsers) != 1 {
			t.Fatalf("created users = %d, want 1", len(env.repo.createdUsers))
		}
		created := env.repo.createdUsers[0]
		if created.Email != "new.reader@example.com" {
			t.Fatalf("Email = %q, want lowercased", created.Email)
		}
		if created.Role != entity.UserRoleUser {
			t.Fatalf("Role = %v, want user", created.Role)
		}
		if env.repo.createdHash == in.Password {
			t.Fatal("password was stored in plaintext")
		}
		if len(env.mq.registered) != 1 || env.mq.registered[0].UserID != created.ID {
			t.Fatalf("registered events = %+v, want one for user %d", env.mq.registered, created.ID)
		}
	})

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 7, "taken@example.com", "some password")

		// Act
		err := env.uc.Register(context.Background(), RegisterInput{
			Email:    "taken@example.com",
			Password: "correct horse battery",
			FullName: "Another Reader",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
			t.Fatalf("Register() error = %v, want conflict", err)
		}
		if len(env.repo.createdUsers) != 0 {
			t.Fatalf("created users = %d, want 0", len(env.repo.createdUsers))
		}
	})

	t.Run("ShortPasswordRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.Register(context.Background(), RegisterInput{
			Email:    "short@example.com",
			Password: "short",
			FullName: "Short Password",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
			t.Fatalf("Register() error = %v, want invalid input", err)
		}
	})

	t.Run("PublishFailureDoesNotFailRegistration", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.mq.publishErr = errors.New("broker unavailable")

		// Act
		err := env.uc.Register(context.Background(), RegisterInput{
			Email:    "reader@example.com",
			Password: "correct horse battery",
			FullName: "Quiet Reader",
		})

		// Assert
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if len(env.repo.createdUsers) != 1 {
			t.Fatalf("created users = %d, want 1", len(env.repo.createdUsers))
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("IssuesTokenPair", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "reader@example.com", "correct horse battery")

		// Act
		out, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "Reader@Example.com",
			Password: "correct horse battery",
		})

		// Assert
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if out.AccessToken != "jwt-42" {
			t.Fatalf("AccessToken = %q", out.AccessToken)
		}
		if out.RefreshToken == "" {
			t.Fatal("RefreshToken is empty")
		}
		if len(env.repo.createdTokens) != 1 {
			t.Fatalf("stored refresh tokens = %d, want 1", len(env.repo.createdTokens))
		}
		stored := env.repo.createdTokens[0]
		if stored.Token == out.RefreshToken {
			t.Fatal("refresh token was stored in plaintext")
		}
		if got, want := stored.ExpiresAt, env.clock.now.AddDate(0, 0, 30); !got.Equal(want) {
			t.Fatalf("ExpiresAt = %v, want %v", got, want)
		}
	})

	t.Run("WrongPasswordRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "reader@example.com", "correct horse battery")

		// Act
		_, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "reader@example.com",
			Password: "wrong password",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("Login() error = %v, want unauthorized", err)
		}
	})

	t.Run("UnknownEmailRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "ghost@example.com",
			Password: "does not matter",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("Login() error = %v, want unauthorized", err)
		}
	})

	t.Run("BannedAccountRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "banned@example.com", "correct horse battery")
		env.repo.loginInfo["banned@example.com"].Status = entity.UserStatusBanned

		// Act
		_, err := env.uc.Login(context.Background(), LoginInput{
			Email:    "banned@example.com",
			Password: "correct horse battery",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeForbidden {
			t.Fatalf("Login() error = %v, want forbidden", err)
		}
	})
}

func TestLogout(t *testing.T) {
	t.Run("RevokesPresentedToken", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.Logout(authCtx(42, "42"), LogoutInput{RefreshToken: "opaque-token"})

		// Assert
		if err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if len(env.repo.revokedTokens) != 1 {
			t.Fatalf("revoked tokens = %d, want 1", len(env.repo.revokedTokens))
		}
		if env.repo.revokedTokens[0] != env.hashToken(t, "opaque-token") {
			t.Fatal("revocation did not use the hashed token")
		}
	})

	t.Run("MissingTokenIsNoop", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.Logout(authCtx(42, "42"), LogoutInput{})

		// Assert
		if err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if len(env.repo.revokedTokens) != 0 {
			t.Fatalf("revoked tokens = %d, want 0", len(env.repo.revokedTokens))
		}
	})

	t.Run("RequiresAuthentication", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		err := env.uc.Logout(context.Background(), LogoutInput{RefreshToken: "opaque-token"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("Logout() error = %v, want unauthorized", err)
		}
	})
}

func TestRefreshToken(t *testing.T) {
	seedToken := func(env *testEnv, t *testing.T, plain string, rt entity.UserRefreshToken) {
		t.Helper()
		env.repo.refreshTokens[env.hashToken(t, plain)] = &rt
	}

	t.Run("RotatesTokenPair", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		seedToken(env, t, "old-token", entity.UserRefreshToken{
			TokenID:    900,
			UserID:     42,
			UserEmail:  "reader@example.com",
			UserStatus: entity.UserStatusActive,
			ExpiresAt:  env.clock.now.Add(time.Hour),
		})

		// Act
		out, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "old-token"})

		// Assert
		if err != nil {
			t.Fatalf("RefreshToken() error = %v", err)
		}
		if out.AccessToken != "jwt-42" {
			t.Fatalf("AccessToken = %q", out.AccessToken)
		}
		if out.RefreshToken == "old-token" || out.RefreshToken == "" {
			t.Fatalf("RefreshToken = %q, want a fresh token", out.RefreshToken)
		}
		if len(env.repo.rotations) != 1 {
			t.Fatalf("rotations = %d, want 1", len(env.repo.rotations))
		}
		ro := env.repo.rotations[0]
		if ro.OldTokenID != 900 {
			t.Fatalf("OldTokenID = %d, want 900", ro.OldTokenID)
		}
		if ro.New.Token != env.hashToken(t, out.RefreshToken) {
			t.Fatal("rotated token was not stored hashed")
		}
	})

	t.Run("RevokedTokenTriggersFamilyRevocation", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		seedToken(env, t, "leaked-token", entity.UserRefreshToken{
			TokenID:    901,
			UserID:     42,
			UserStatus: entity.UserStatusActive,
			ExpiresAt:  env.clock.now.Add(time.Hour),
			Revoked:    true,
		})

		// Act
		_, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "leaked-token"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeForbidden {
			t.Fatalf("RefreshToken() error = %v, want forbidden", err)
		}
		if len(env.repo.revokedAllFor) != 1 || env.repo.revokedAllFor[0] != 42 {
			t.Fatalf("revoked all for = %v, want [42]", env.repo.revokedAllFor)
		}
	})

	t.Run("ExpiredTokenRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		seedToken(env, t, "stale-token", entity.UserRefreshToken{
			TokenID:    902,
			UserID:     42,
			UserStatus: entity.UserStatusActive,
			ExpiresAt:  env.clock.now.Add(-time.Minute),
		})

		// Act
		_, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "stale-token"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("RefreshToken() error = %v, want unauthorized", err)
		}
		if len(env.repo.rotations) != 0 {
			t.Fatalf("rotations = %d, want 0", len(env.repo.rotations))
		}
	})

	t.Run("UnknownTokenRejected", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "never-issued"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("RefreshToken() error = %v, want unauthorized", err)
		}
	})
}
