package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/jackc/pgx/v5"
)

const insertNotification = `INSERT INTO notifications (
	id, user_id, type, title, message, data, channels, status, scheduled_at,
	max_retries
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func (s *DB) Create(ctx context.Context, n *entity.Notification) (err error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, insertNotification,
		n.ID, n.UserID, int16(n.Type), n.Title, n.Message, n.Data,
		channelValues(n.Channels), int16(n.Status), n.ScheduledAt, n.MaxRetries,
	)
	return s.mapError(err)
}

// CreateBatch inserts all records in one transaction. The batch is all or
// nothing at the store level; per-recipient independence is handled a layer up.
func (s *DB) CreateBatch(ctx context.Context, ns []*entity.Notification) (err error) {
	ctx, span := s.startSpan(ctx, "CreateBatch")
	defer func() { s.endSpan(span, err) }()

	if len(ns) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return s.mapError(err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	batch := &pgx.Batch{}
	for _, n := range ns {
		batch.Queue(insertNotification,
			n.ID, n.UserID, int16(n.Type), n.Title, n.Message, n.Data,
			channelValues(n.Channels), int16(n.Status), n.ScheduledAt, n.MaxRetries,
		)
	}

	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return s.mapError(err)
	}

	return s.mapError(tx.Commit(ctx))
}
