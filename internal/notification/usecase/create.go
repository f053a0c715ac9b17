package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/idempotency"
	"github.com/bookhivelabs/bookhive/internal/pkg/valueobject"
	"github.com/bookhivelabs/bookhive/internal/shared/constant"
)

type CreateInput struct {
	UserID      int64  `validate:"required,gt=0"`
	Type        string `validate:"required"`
	Title       string `validate:"required,max=200"`
	Message     string `validate:"required,max=1000"`
	Data        valueobject.JSONMap
	Channels    []string
	ScheduledAt *time.Time
	// IdempotencyKey deduplicates retried client requests when present.
	IdempotencyKey string
}

type CreateOutput struct {
	Notification *entity.Notification
}

// Create persists a notification for a user and, when it is due, enqueues a
// delivery job. Admin only.
func (s *Usecase) Create(ctx context.Context, in CreateInput) (*CreateOutput, error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermNotifications, constant.PermActWrite); err != nil {
		return nil, err
	}

	n, err := s.buildNotification(ctx, in)
	if err != nil {
		return nil, err
	}

	persist := func(ctx context.Context) error {
		if err := s.repoDB.Create(ctx, n); err != nil {
			slog.ErrorContext(ctx, "failed to repo create notification", "user_id", in.UserID, "error", err)
			return goerror.NewServer(err)
		}

		s.enqueueIfDue(ctx, n)
		return nil
	}

	if in.IdempotencyKey != "" {
		err = s.idemp.Exec(ctx, "notification:create:"+in.IdempotencyKey, persist)
		if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyInProgress) {
			return nil, goerror.NewBusiness("duplicate create request", goerror.CodeConflict)
		}
	} else {
		err = persist(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &CreateOutput{Notification: n}, nil
}

func (s *Usecase) buildNotification(ctx context.Context, in CreateInput) (*entity.Notification, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	typ := entity.TypeFromString(in.Type)
	if typ == entity.TypeUnknown {
		return nil, goerror.NewBusiness("unknown notification type", goerror.CodeInvalidInput)
	}

	channels := make([]entity.Channel, 0, len(in.Channels))
	for _, raw := range in.Channels {
		ch := entity.ChannelFromString(raw)
		if ch == entity.ChannelUnknown {
			return nil, goerror.NewBusiness("unknown notification channel", goerror.CodeInvalidInput)
		}
		channels = append(channels, ch)
	}
	if len(channels) == 0 {
		channels = []entity.Channel{entity.ChannelInApp}
	}

	data := in.Data
	if data == nil {
		data = valueobject.JSONMap{}
	}

	now := s.clock.Now()

	return &entity.Notification{
		ID:          s.uid.Generate(),
		UserID:      in.UserID,
		Type:        typ,
		Title:       in.Title,
		Message:     in.Message,
		Data:        data,
		Channels:    channels,
		Status:      entity.StatusPending,
		ScheduledAt: in.ScheduledAt,
		MaxRetries:  entity.DefaultMaxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// enqueueIfDue publishes a delivery job unless the record is scheduled for the
// future. Deferred records are released by the scheduled sweep. A publish
// failure is not fatal since the retry sweep also picks up stuck records.
func (s *Usecase) enqueueIfDue(ctx context.Context, n *entity.Notification) {
	if !n.Due(s.clock.Now()) {
		return
	}

	if err := s.repoMessaging.PublishProcessJob(ctx, n); err != nil {
		slog.ErrorContext(ctx, "failed to publish delivery job", "notification_id", n.ID, "error", err)
	}
}
