package notification

import (
	"context"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/notification/inbound"
	"github.com/bookhivelabs/bookhive/internal/notification/outbound/db"
	"github.com/bookhivelabs/bookhive/internal/notification/outbound/mq"
	"github.com/bookhivelabs/bookhive/internal/notification/outbound/sender"
	"github.com/bookhivelabs/bookhive/internal/notification/usecase"
	"github.com/bookhivelabs/bookhive/internal/pkg/clock"
	"github.com/bookhivelabs/bookhive/internal/pkg/config"
	"github.com/bookhivelabs/bookhive/internal/pkg/goroutine"
	"github.com/bookhivelabs/bookhive/internal/pkg/idempotency"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/mail"
	"github.com/bookhivelabs/bookhive/internal/pkg/messaging"
	"github.com/bookhivelabs/bookhive/internal/pkg/router"
	"github.com/bookhivelabs/bookhive/internal/pkg/storage"
	"github.com/bookhivelabs/bookhive/internal/pkg/uid"
	"github.com/bookhivelabs/bookhive/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependency struct {
	Ctx         context.Context
	DBConn      *pgxpool.Pool              `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Enforcer    *casbin.Enforcer           `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Storage     storage.Storage            `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Push        sender.PushClient
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbNotif := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	dispatch := sender.NewDispatcher()

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbNotif,
		RepoMessaging: repoMsg,
		Dispatcher:    dispatch,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Storage:       dep.Storage,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
	})

	emailSender, err := sender.NewEmail(dep.Mail, dep.Config.GetString("app.web"), dep.Instrument)
	if err != nil {
		return err
	}

	dispatch.Register(entity.ChannelInApp, sender.NewInApp(uc))
	dispatch.Register(entity.ChannelEmail, emailSender)
	dispatch.Register(entity.ChannelSMS, sender.NewSMS(sender.SMSConfig{
		AccountSID: dep.Config.GetString("modules.notification.sms.account_sid"),
		AuthToken:  dep.Config.GetString("modules.notification.sms.auth_token"),
		FromNumber: dep.Config.GetString("modules.notification.sms.from_number"),
		Timeout:    dep.Config.GetSecond("modules.notification.sms.timeout_seconds"),
	}, dep.Instrument))
	if dep.Push != nil {
		dispatch.Register(entity.ChannelPush, sender.NewPush(dep.Push, dep.Instrument))
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
		inbound.RegisterSweepScheduler(dep.Ctx, dep.Config, dep.Goroutine, uc)
	}

	return nil
}
