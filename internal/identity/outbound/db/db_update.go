package db

import (
	"context"
	"errors"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
	"github.com/jackc/pgx/v5"
)

func (s *DB) RevokeRefreshToken(ctx context.Context, token string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)

	return s.mapError(err)
}

func (s *DB) RevokeAllRefreshToken(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND NOT revoked`, userID)

	return s.mapError(err)
}

// RotateRefreshToken revokes the presented token and stores its replacement as
// one transaction so a crash cannot leave both tokens usable.
func (s *DB) RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return s.mapError(err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if _, err = tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1`, ro.OldTokenID); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		ro.New.ID, ro.New.UserID, ro.New.Token, ro.New.ExpiresAt); err != nil {
		return s.mapError(err)
	}

	return s.mapError(tx.Commit(ctx))
}

func (s *DB) UpdateUserProfile(ctx context.Context, id int64, fullName, phone string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserProfile")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`UPDATE users SET full_name = $2, phone = $3, updated_at = NOW() WHERE id = $1`,
		id, fullName, phone)

	return s.mapError(err)
}

// ResetUserPassword installs the new credential, consumes the challenge and
// revokes every refresh token in one transaction.
func (s *DB) ResetUserPassword(ctx context.Context, userID, challengeID int64, newHash string) (err error) {
	ctx, span := s.startSpan(ctx, "ResetUserPassword")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return s.mapError(err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if _, err = tx.Exec(ctx,
		`UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`,
		userID, newHash); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx,
		`DELETE FROM challenges WHERE id = $1`, challengeID); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND NOT revoked`,
		userID); err != nil {
		return s.mapError(err)
	}

	return s.mapError(tx.Commit(ctx))
}

// ChangeUserPassword installs the new credential and revokes every refresh
// token in one transaction so existing sessions cannot outlive the old
// password.
func (s *DB) ChangeUserPassword(ctx context.Context, userID int64, newHash string) (err error) {
	ctx, span := s.startSpan(ctx, "ChangeUserPassword")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return s.mapError(err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if _, err = tx.Exec(ctx,
		`UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`,
		userID, newHash); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND NOT revoked`,
		userID); err != nil {
		return s.mapError(err)
	}

	return s.mapError(tx.Commit(ctx))
}

func (s *DB) DeleteChallenge(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteChallenge")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id)

	return s.mapError(err)
}
