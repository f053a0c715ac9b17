package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	AccessToken  string
	RefreshToken string
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	user, err := s.repoDB.GetUserLoginInfo(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", email)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	if !s.bcrypt.Verify(user.Password, in.Password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}

	return s.issueTokens(ctx, user.ID, user.Email)
}

// issueTokens creates the access/refresh token pair. Only the HMAC of the
// refresh token is stored.
func (s *Usecase) issueTokens(ctx context.Context, userID int64, email string) (*LoginOutput, error) {
	acToken, err := s.jwt.Generate(userID, email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refToken := s.oid.Generate()
	refTokenHash, err := s.hmac.Hash(refToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.CreateRefreshToken(ctx, entity.RefreshToken{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Token:     string(refTokenHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.identity.refresh_token_ttl_days")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token user", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{
		AccessToken:  acToken,
		RefreshToken: refToken,
	}, nil
}
