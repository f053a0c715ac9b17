package db

import (
	"context"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
)

// ListFailedRetryable returns failed records still under their retry ceiling,
// oldest failure first. Records with retry_count = max_retries are excluded
// permanently; they need manual remediation.
func (s *DB) ListFailedRetryable(ctx context.Context, limit int32) (_ []*entity.Notification, err error) {
	ctx, span := s.startSpan(ctx, "ListFailedRetryable")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE status = $1 AND retry_count < max_retries
		 ORDER BY updated_at ASC LIMIT $2`,
		int16(entity.StatusFailed), limit)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var items []*entity.Notification
	for rows.Next() {
		n, sErr := scanNotification(rows)
		if sErr != nil {
			return nil, s.mapError(sErr)
		}
		items = append(items, n)
	}

	return items, s.mapError(rows.Err())
}

// ListDueScheduled returns pending records whose scheduled time has elapsed.
// A null scheduled_at counts as due, so pending records whose initial enqueue
// was lost get picked up here as well.
func (s *DB) ListDueScheduled(ctx context.Context, now time.Time, limit int32) (_ []*entity.Notification, err error) {
	ctx, span := s.startSpan(ctx, "ListDueScheduled")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE status = $1 AND (scheduled_at IS NULL OR scheduled_at <= $2)
		 ORDER BY created_at ASC LIMIT $3`,
		int16(entity.StatusPending), now, limit)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var items []*entity.Notification
	for rows.Next() {
		n, sErr := scanNotification(rows)
		if sErr != nil {
			return nil, s.mapError(sErr)
		}
		items = append(items, n)
	}

	return items, s.mapError(rows.Err())
}

// ListForExport returns delivery rows in a created-at window for the admin
// CSV report.
func (s *DB) ListForExport(ctx context.Context, from, to time.Time, limit int32) (_ []entity.ExportRow, err error) {
	ctx, span := s.startSpan(ctx, "ListForExport")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`SELECT id, user_id, type, status, channels, retry_count,
		        COALESCE(error_message, ''), sent_at, created_at
		 FROM notifications
		 WHERE created_at >= $1 AND created_at < $2
		 ORDER BY created_at ASC LIMIT $3`, from, to, limit)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var items []entity.ExportRow
	for rows.Next() {
		var (
			row      entity.ExportRow
			channels []int16
		)
		if sErr := rows.Scan(&row.ID, &row.UserID, &row.Type, &row.Status,
			&channels, &row.RetryCount, &row.ErrorMessage, &row.SentAt,
			&row.CreatedAt); sErr != nil {
			return nil, s.mapError(sErr)
		}

		row.Channels = make([]entity.Channel, 0, len(channels))
		for _, ch := range channels {
			row.Channels = append(row.Channels, entity.Channel(ch))
		}

		items = append(items, row)
	}

	return items, s.mapError(rows.Err())
}
