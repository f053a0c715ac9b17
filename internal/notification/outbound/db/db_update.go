package db

import (
	"context"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
)

// MarkProcessing transitions the record into processing. Sent and cancelled
// records are never re-entered, which makes redelivered jobs harmless.
func (s *DB) MarkProcessing(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkProcessing")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE notifications SET status = $2, updated_at = now()
		 WHERE id = $1 AND status = ANY($3)`,
		id, int16(entity.StatusProcessing),
		[]int16{int16(entity.StatusPending), int16(entity.StatusProcessing), int16(entity.StatusFailed)},
	)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

// UpdateDeliveryState writes the outcome of a processing attempt. It returns
// false when the record no longer exists, so a deletion observed mid-flight
// skips the write instead of resurrecting the record.
func (s *DB) UpdateDeliveryState(ctx context.Context, state entity.DeliveryState) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryState")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE notifications
		 SET status = $2, sent_at = $3, retry_count = $4, error_message = NULLIF($5, ''),
		     updated_at = now()
		 WHERE id = $1`,
		state.ID, int16(state.Status), state.SentAt, state.RetryCount, state.ErrorMessage,
	)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) MarkRead(ctx context.Context, id, userID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkRead")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE, read_at = now(), updated_at = now()
		 WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) MarkAllRead(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "MarkAllRead")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE, read_at = now(), updated_at = now()
		 WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}

// Cancel moves a record to the cancelled terminal state. Records already in a
// terminal state are left untouched.
func (s *DB) Cancel(ctx context.Context, id, userID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "Cancel")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE notifications SET status = $3, updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND NOT status = ANY($4)`,
		id, userID, int16(entity.StatusCancelled),
		[]int16{int16(entity.StatusSent), int16(entity.StatusCancelled)},
	)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}
