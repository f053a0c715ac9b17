package usecase

import (
	"context"
	"log/slog"

	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
)

type MarkReadInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) MarkRead(ctx context.Context, in MarkReadInput) error {
	ctx, span := s.startSpan(ctx, "MarkRead")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	updated, err := s.repoDB.MarkRead(ctx, in.ID, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark notification read", "user_id", clm.UserID, "notification_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !updated {
		return goerror.NewBusiness("notification not found", goerror.CodeNotFound)
	}

	return nil
}

type MarkAllReadOutput struct {
	Updated int64
}

func (s *Usecase) MarkAllRead(ctx context.Context) (*MarkAllReadOutput, error) {
	ctx, span := s.startSpan(ctx, "MarkAllRead")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.repoDB.MarkAllRead(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark all notifications read", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &MarkAllReadOutput{Updated: updated}, nil
}

type CancelInput struct {
	ID int64 `validate:"required,gt=0"`
}

// Cancel settles a notification out of band. Records already sent or
// cancelled cannot be cancelled again.
func (s *Usecase) Cancel(ctx context.Context, in CancelInput) error {
	ctx, span := s.startSpan(ctx, "Cancel")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	cancelled, err := s.repoDB.Cancel(ctx, in.ID, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo cancel notification", "user_id", clm.UserID, "notification_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !cancelled {
		return goerror.NewBusiness("notification not found or already settled", goerror.CodeNotFound)
	}

	return nil
}

type DeleteInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) Delete(ctx context.Context, in DeleteInput) error {
	ctx, span := s.startSpan(ctx, "Delete")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	deleted, err := s.repoDB.Delete(ctx, in.ID, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete notification", "user_id", clm.UserID, "notification_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !deleted {
		return goerror.NewBusiness("notification not found", goerror.CodeNotFound)
	}

	return nil
}

type DeleteAllOutput struct {
	Deleted int64
}

func (s *Usecase) DeleteAll(ctx context.Context) (*DeleteAllOutput, error) {
	ctx, span := s.startSpan(ctx, "DeleteAll")
	defer span.End()

	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repoDB.DeleteAllByUser(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete all notifications", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &DeleteAllOutput{Deleted: deleted}, nil
}
