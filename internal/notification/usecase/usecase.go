package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/clock"
	"github.com/bookhivelabs/bookhive/internal/pkg/config"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/idempotency"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/jwt"
	"github.com/bookhivelabs/bookhive/internal/pkg/storage"
	"github.com/bookhivelabs/bookhive/internal/pkg/uid"
	"github.com/bookhivelabs/bookhive/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	Create(ctx context.Context, n *entity.Notification) error
	CreateBatch(ctx context.Context, ns []*entity.Notification) error

	GetByID(ctx context.Context, id int64) (*entity.Notification, error)
	GetByIDForUser(ctx context.Context, id, userID int64) (*entity.Notification, error)
	ListByUser(ctx context.Context, userID int64, filter entity.ListFilter) ([]*entity.Notification, error)
	ListUnreadByUser(ctx context.Context, userID int64) ([]*entity.Notification, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	StatsByUser(ctx context.Context, userID int64) (*entity.Stats, error)

	MarkProcessing(ctx context.Context, id int64) (bool, error)
	UpdateDeliveryState(ctx context.Context, state entity.DeliveryState) (bool, error)
	MarkRead(ctx context.Context, id, userID int64) (bool, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Cancel(ctx context.Context, id, userID int64) (bool, error)

	Delete(ctx context.Context, id, userID int64) (bool, error)
	DeleteAllByUser(ctx context.Context, userID int64) (int64, error)

	ListFailedRetryable(ctx context.Context, limit int32) ([]*entity.Notification, error)
	ListDueScheduled(ctx context.Context, now time.Time, limit int32) ([]*entity.Notification, error)
	ListForExport(ctx context.Context, from, to time.Time, limit int32) ([]entity.ExportRow, error)
}

type repoMessaging interface {
	PublishProcessJob(ctx context.Context, n *entity.Notification) error
}

type dispatcher interface {
	Dispatch(ctx context.Context, ch entity.Channel, n *entity.Notification) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	dispatcher    dispatcher
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	storage       storage.Storage
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	enforcer      *casbin.Enforcer
	streamMu      sync.RWMutex
	streams       map[int64]map[*subscriber]struct{}
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Dispatcher    dispatcher
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Storage       storage.Storage
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Enforcer      *casbin.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		dispatcher:    dep.Dispatcher,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		storage:       dep.Storage,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
		streams:       make(map[int64]map[*subscriber]struct{}),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) requireAuth(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	return clm, nil
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.enforcer.Enforce(clm.Subject, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.Subject, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		return nil, goerror.NewBusiness("account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}
