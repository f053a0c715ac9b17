package db

import (
	"context"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
)

func (s *DB) NewUser(ctx context.Context, user entity.NewUser, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "NewUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO users (id, email, full_name, phone, role, status, password)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.FullName, user.Phone, int16(user.Role),
		int16(entity.UserStatusActive), hash)

	return s.mapError(err)
}

func (s *DB) CreateRefreshToken(ctx context.Context, in entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		in.ID, in.UserID, in.Token, in.ExpiresAt)

	return s.mapError(err)
}

func (s *DB) CreateChallenge(ctx context.Context, in entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "CreateChallenge")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO challenges (id, user_id, token, purpose, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		in.ID, in.UserID, in.Token, int16(in.Purpose), in.ExpiresAt)

	return s.mapError(err)
}
