package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
)

type RegisterInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
	FullName string `validate:"required,min=5,max=100,alphaspace"`
	Phone    string `validate:"omitempty,e164"`
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	_, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if err == nil {
		return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	newUser := entity.NewUser{
		ID:       s.uid.Generate(),
		Email:    in.Email,
		FullName: in.FullName,
		Phone:    in.Phone,
		Role:     entity.UserRoleUser,
	}

	if err := s.repoDB.NewUser(ctx, newUser, string(hashedPassword)); err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "email", newUser.Email, "error", err)
		return goerror.NewServer(err)
	}

	if _, err := s.enforcer.AddGroupingPolicy(strconv.FormatInt(newUser.ID, 10), newUser.Role.String()); err != nil {
		slog.ErrorContext(ctx, "failed to add user role policy", "user_id", newUser.ID, "error", err)
	}

	if err := s.repoMessaging.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID:   newUser.ID,
		Email:    newUser.Email,
		FullName: newUser.FullName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user registered", "user_id", newUser.ID, "error", err)
	}

	return nil
}
