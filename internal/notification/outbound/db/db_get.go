package db

import (
	"context"
	"strconv"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
)

func (s *DB) GetByID(ctx context.Context, id int64) (_ *entity.Notification, err error) {
	ctx, span := s.startSpan(ctx, "GetByID")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)

	n, err := scanNotification(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return n, nil
}

func (s *DB) GetByIDForUser(ctx context.Context, id, userID int64) (_ *entity.Notification, err error) {
	ctx, span := s.startSpan(ctx, "GetByIDForUser")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1 AND user_id = $2`,
		id, userID)

	n, err := scanNotification(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return n, nil
}

func (s *DB) ListByUser(ctx context.Context, userID int64, filter entity.ListFilter) (_ []*entity.Notification, err error) {
	ctx, span := s.startSpan(ctx, "ListByUser")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	args := []any{userID}

	if filter.Type != entity.TypeUnknown {
		args = append(args, int16(filter.Type))
		query += ` AND type = $` + strconv.Itoa(len(args))
	}
	if filter.IsRead != nil {
		args = append(args, *filter.IsRead)
		query += ` AND is_read = $` + strconv.Itoa(len(args))
	}

	args = append(args, filter.Limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]*entity.Notification, 0, filter.Limit)
	for rows.Next() {
		n, sErr := scanNotification(rows)
		if sErr != nil {
			return nil, s.mapError(sErr)
		}
		items = append(items, n)
	}

	return items, s.mapError(rows.Err())
}

func (s *DB) ListUnreadByUser(ctx context.Context, userID int64) (_ []*entity.Notification, err error) {
	ctx, span := s.startSpan(ctx, "ListUnreadByUser")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE user_id = $1 AND is_read = FALSE ORDER BY created_at DESC`, userID)
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

func (s *DB) CountByUser(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountByUser")
	defer func() { s.endSpan(span, err) }()

	var count int64
	err = s.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count)
	return count, s.mapError(err)
}

func (s *DB) StatsByUser(ctx context.Context, userID int64) (_ *entity.Stats, err error) {
	ctx, span := s.startSpan(ctx, "StatsByUser")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`SELECT type, COUNT(*), COUNT(*) FILTER (WHERE is_read = FALSE)
		 FROM notifications WHERE user_id = $1 GROUP BY type`, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	stats := &entity.Stats{ByType: make(map[string]entity.TypeStat)}
	for rows.Next() {
		var (
			typ    int16
			total  int64
			unread int64
		)
		if sErr := rows.Scan(&typ, &total, &unread); sErr != nil {
			return nil, s.mapError(sErr)
		}

		stats.Total += total
		stats.Unread += unread
		stats.ByType[entity.Type(typ).String()] = entity.TypeStat{Total: total, Unread: unread}
	}
	stats.Read = stats.Total - stats.Unread

	return stats, s.mapError(rows.Err())
}
