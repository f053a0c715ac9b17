package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
)

type RefreshTokenInput struct {
	RefreshToken string `validate:"required"`
}

type RefreshTokenOutput struct {
	AccessToken  string
	RefreshToken string
}

func (s *Usecase) RefreshToken(ctx context.Context, in RefreshTokenInput) (*RefreshTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "RefreshToken")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	oldRefreshTokenHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash old refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	rt, err := s.repoDB.GetUserRefreshToken(ctx, string(oldRefreshTokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user refresh token not found")
		return nil, goerror.NewBusiness("invalid or expired refresh token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	// Reuse of a rotated token implies it leaked; kill the whole session family.
	if rt.Revoked {
		if err := s.repoDB.RevokeAllRefreshToken(ctx, rt.UserID); err != nil {
			slog.ErrorContext(ctx, "failed to repo revoke all refresh token", "user_id", rt.UserID, "error", err)
		}

		slog.WarnContext(ctx, "SECURITY: refresh token reuse detected", "user_id", rt.UserID)
		return nil, goerror.NewBusiness("token reuse detected, please log in again", goerror.CodeForbidden)
	}

	if s.clock.Now().After(rt.ExpiresAt) {
		slog.WarnContext(ctx, "user refresh token is expired")
		return nil, goerror.NewBusiness("invalid or expired refresh token", goerror.CodeUnauthorized)
	}

	if err := s.ensureUserStatusAllowed(ctx, rt.UserID, rt.UserStatus); err != nil {
		return nil, err
	}

	newRefreshToken := s.oid.Generate()
	newRefreshTokenHash, err := s.hmac.Hash(newRefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	acToken, err := s.jwt.Generate(rt.UserID, rt.UserEmail)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", rt.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.RotateRefreshToken(ctx, entity.RotateRefreshToken{
		OldTokenID: rt.TokenID,
		New: entity.RefreshToken{
			ID:        s.uid.Generate(),
			UserID:    rt.UserID,
			Token:     string(newRefreshTokenHash),
			ExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.identity.refresh_token_ttl_days")),
		},
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo rotate refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RefreshTokenOutput{
		AccessToken:  acToken,
		RefreshToken: newRefreshToken,
	}, nil
}
