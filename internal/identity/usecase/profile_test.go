package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
)

func TestProfile(t *testing.T) {
	t.Run("ReturnsOwnAccount", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "reader@example.com", "correct horse battery")

		// Act
		out, err := env.uc.Profile(authCtx(42, "42"), ProfileInput{})

		// Assert
		if err != nil {
			t.Fatalf("Profile() error = %v", err)
		}
		if out.ID != 42 || out.Email != "reader@example.com" {
			t.Fatalf("output = %+v", out)
		}
		if out.Role != "user" || out.Status != "Active" {
			t.Fatalf("Role = %q, Status = %q", out.Role, out.Status)
		}
	})

	t.Run("RequiresAuthentication", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.Profile(context.Background(), ProfileInput{})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("Profile() error = %v, want unauthorized", err)
		}
	})

	t.Run("DeletedAccountIsUnauthorized", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.Profile(authCtx(99, "99"), ProfileInput{})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("Profile() error = %v, want unauthorized", err)
		}
	})
}

func TestProfileUpdate(t *testing.T) {
	t.Run("UpdatesNameAndPhone", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "reader@example.com", "correct horse battery")

		// Act
		err := env.uc.ProfileUpdate(authCtx(42, "42"), ProfileUpdateInput{
			FullName: "  Renamed Reader  ",
			Phone:    "+14155550100",
		})

		// Assert
		if err != nil {
			t.Fatalf("ProfileUpdate() error = %v", err)
		}
		if got := env.repo.usersByID[42].FullName; got != "Renamed Reader" {
			t.Fatalf("FullName = %q, want trimmed value", got)
		}
		if got := env.repo.usersByID[42].Phone; got != "+14155550100" {
			t.Fatalf("Phone = %q", got)
		}
	})

	t.Run("RejectsNonLetterName", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "reader@example.com", "correct horse battery")

		// Act
		err := env.uc.ProfileUpdate(authCtx(42, "42"), ProfileUpdateInput{FullName: "Reader 9000"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
			t.Fatalf("ProfileUpdate() error = %v, want invalid input", err)
		}
	})

	t.Run("RejectsInvalidPhone", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.seedActiveUser(t, 42, "reader@example.com", "correct horse battery")

		// Act
		err := env.uc.ProfileUpdate(authCtx(42, "42"), ProfileUpdateInput{
			FullName: "Valid Reader",
			Phone:    "0800-123",
		})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
			t.Fatalf("ProfileUpdate() error = %v, want invalid input", err)
		}
	})
}

func TestUserList(t *testing.T) {
	t.Run("AdminListsUsers", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)
		env.repo.listUsers = []entity.User{{ID: 2, Email: "a@example.com"}, {ID: 3, Email: "b@example.com"}}
		env.repo.listTotal = 12

		// Act
		out, err := env.uc.UserList(authCtx(1, "1"), UserListInput{Size: 2, Page: 3})

		// Assert
		if err != nil {
			t.Fatalf("UserList() error = %v", err)
		}
		if out.Total != 12 || len(out.Users) != 2 {
			t.Fatalf("output = %+v", out)
		}
		if env.repo.lastFilter.Page != 4 {
			t.Fatalf("offset = %d, want 4", env.repo.lastFilter.Page)
		}
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.UserList(authCtx(42, "42"), UserListInput{})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeForbidden {
			t.Fatalf("UserList() error = %v, want forbidden", err)
		}
	})

	t.Run("DefaultsPageSize", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		out, err := env.uc.UserList(authCtx(1, "1"), UserListInput{Size: 1000, Page: 0})

		// Assert
		if err != nil {
			t.Fatalf("UserList() error = %v", err)
		}
		if out.Size != 10 || out.Page != 1 {
			t.Fatalf("Size = %d, Page = %d, want 10 and 1", out.Size, out.Page)
		}
		if env.repo.lastFilter.Page != 0 {
			t.Fatalf("offset = %d, want 0", env.repo.lastFilter.Page)
		}
	})

	t.Run("DropsUnknownStatusFilters", func(t *testing.T) {
		// Arrange
		env := newTestEnv(t)

		// Act
		_, err := env.uc.UserList(authCtx(1, "1"), UserListInput{Statuses: []string{"1", "99", "oops", "1"}})

		// Assert
		if err != nil {
			t.Fatalf("UserList() error = %v", err)
		}
		got := env.repo.lastFilter.Statuses
		if len(got) != 1 || got[0] != int16(entity.UserStatusActive) {
			t.Fatalf("Statuses = %v, want [1]", got)
		}
		if !env.repo.lastFilter.IsFilterByStatus {
			t.Fatal("IsFilterByStatus = false, want true")
		}
	})
}
