package db

import (
	"context"
)

// Delete removes the record permanently. Queued jobs that still reference the
// id become no-ops at processing time.
func (s *DB) Delete(ctx context.Context, id, userID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "Delete")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) DeleteAllByUser(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteAllByUser")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}
