package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
)

type ListInput struct {
	Type   string
	IsRead *bool
	Limit  int32 `validate:"gte=0,lte=100"`
	Offset int32 `validate:"gte=0"`
}

type ListOutput struct {
	Items []*entity.Notification
	Total int64
}

// List returns the caller's notifications, newest first.
func (s *Usecase) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	ctx, span := s.startSpan(ctx, "List")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	filter := entity.ListFilter{
		IsRead: in.IsRead,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	if in.Type != "" {
		typ := entity.TypeFromString(in.Type)
		if typ == entity.TypeUnknown {
			return nil, goerror.NewBusiness("unknown notification type", goerror.CodeInvalidInput)
		}
		filter.Type = typ
	}

	items, err := s.repoDB.ListByUser(ctx, clm.UserID, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list notifications", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	total, err := s.repoDB.CountByUser(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count notifications", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ListOutput{Items: items, Total: total}, nil
}

type GetOutput struct {
	Notification *entity.Notification
}

type GetInput struct {
	ID int64 `validate:"required,gt=0"`
}

// Get returns one notification owned by the caller.
func (s *Usecase) Get(ctx context.Context, in GetInput) (*GetOutput, error) {
	ctx, span := s.startSpan(ctx, "Get")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	n, err := s.repoDB.GetByIDForUser(ctx, in.ID, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("notification not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get notification", "user_id", clm.UserID, "notification_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &GetOutput{Notification: n}, nil
}
