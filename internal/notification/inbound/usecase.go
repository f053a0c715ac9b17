package inbound

import (
	"context"

	"github.com/bookhivelabs/bookhive/internal/notification/usecase"
)

type ucConsumer interface {
	Process(ctx context.Context, in usecase.ProcessInput) error
	ConsumeUserRegistered(ctx context.Context, in usecase.ConsumeUserRegisteredInput) error
	ConsumeUserForgotPassword(ctx context.Context, in usecase.ConsumeUserForgotPasswordInput) error
}

type ucStream interface {
	StreamNotifications(ctx context.Context, userID int64) <-chan usecase.StreamEvent
}

type ucSweeper interface {
	SweepRetries(ctx context.Context) error
	SweepScheduled(ctx context.Context) error
}

type uc interface {
	ucConsumer
	ucStream
	ucSweeper

	Create(ctx context.Context, in usecase.CreateInput) (*usecase.CreateOutput, error)
	CreateBulk(ctx context.Context, in usecase.CreateBulkInput) (*usecase.CreateBulkOutput, error)
	List(ctx context.Context, in usecase.ListInput) (*usecase.ListOutput, error)
	Get(ctx context.Context, in usecase.GetInput) (*usecase.GetOutput, error)
	Unread(ctx context.Context) (*usecase.UnreadOutput, error)
	Stats(ctx context.Context) (*usecase.StatsOutput, error)
	MarkRead(ctx context.Context, in usecase.MarkReadInput) error
	MarkAllRead(ctx context.Context) (*usecase.MarkAllReadOutput, error)
	Cancel(ctx context.Context, in usecase.CancelInput) error
	Delete(ctx context.Context, in usecase.DeleteInput) error
	DeleteAll(ctx context.Context) (*usecase.DeleteAllOutput, error)
	Export(ctx context.Context, in usecase.ExportInput) (*usecase.ExportOutput, error)
}
