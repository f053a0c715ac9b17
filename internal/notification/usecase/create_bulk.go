package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/valueobject"
	"github.com/bookhivelabs/bookhive/internal/shared/constant"
)

type CreateBulkInput struct {
	UserIDs     []int64 `validate:"required,min=1,max=1000,dive,gt=0"`
	Type        string  `validate:"required"`
	Title       string  `validate:"required,max=200"`
	Message     string  `validate:"required,max=1000"`
	Data        valueobject.JSONMap
	Channels    []string
	ScheduledAt *time.Time
}

type CreateBulkOutput struct {
	Created int64
}

// CreateBulk fans the same content out to many users as independent records.
// Delivery of one recipient never depends on another, so a failed enqueue is
// logged and the batch continues. Admin only.
func (s *Usecase) CreateBulk(ctx context.Context, in CreateBulkInput) (*CreateBulkOutput, error) {
	ctx, span := s.startSpan(ctx, "CreateBulk")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermNotifications, constant.PermActWrite); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	records := make([]*entity.Notification, 0, len(in.UserIDs))
	for _, userID := range in.UserIDs {
		n, err := s.buildNotification(ctx, CreateInput{
			UserID:      userID,
			Type:        in.Type,
			Title:       in.Title,
			Message:     in.Message,
			Data:        in.Data,
			Channels:    in.Channels,
			ScheduledAt: in.ScheduledAt,
		})
		if err != nil {
			return nil, err
		}
		records = append(records, n)
	}

	if err := s.repoDB.CreateBatch(ctx, records); err != nil {
		slog.ErrorContext(ctx, "failed to repo create notification batch", "count", len(records), "error", err)
		return nil, goerror.NewServer(err)
	}

	for _, n := range records {
		s.enqueueIfDue(ctx, n)
	}

	return &CreateBulkOutput{Created: int64(len(records))}, nil
}
