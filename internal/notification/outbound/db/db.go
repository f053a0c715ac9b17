package db

import (
	"context"
	"errors"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DB is the notification record store backed by PostgreSQL.
type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

const notificationColumns = `id, user_id, type, title, message, data, channels,
status, is_read, read_at, scheduled_at, sent_at, retry_count, max_retries,
error_message, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*entity.Notification, error) {
	var (
		n        entity.Notification
		channels []int16
		readAt   *time.Time
		schedAt  *time.Time
		sentAt   *time.Time
		errMsg   *string
	)

	err := row.Scan(
		&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Data, &channels,
		&n.Status, &n.IsRead, &readAt, &schedAt, &sentAt, &n.RetryCount,
		&n.MaxRetries, &errMsg, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Channels = make([]entity.Channel, 0, len(channels))
	for _, ch := range channels {
		n.Channels = append(n.Channels, entity.Channel(ch))
	}

	n.ReadAt = readAt
	n.ScheduledAt = schedAt
	n.SentAt = sentAt
	if errMsg != nil {
		n.ErrorMessage = *errMsg
	}

	return &n, nil
}

func channelValues(channels []entity.Channel) []int16 {
	vals := make([]int16, 0, len(channels))
	for _, ch := range channels {
		vals = append(vals, int16(ch))
	}
	return vals
}
