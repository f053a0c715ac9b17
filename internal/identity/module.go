package identity

import (
	"github.com/bookhivelabs/bookhive/internal/identity/inbound"
	"github.com/bookhivelabs/bookhive/internal/identity/outbound/db"
	"github.com/bookhivelabs/bookhive/internal/identity/outbound/mq"
	"github.com/bookhivelabs/bookhive/internal/identity/usecase"
	"github.com/bookhivelabs/bookhive/internal/pkg/clock"
	"github.com/bookhivelabs/bookhive/internal/pkg/config"
	"github.com/bookhivelabs/bookhive/internal/pkg/hash"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/jwt"
	"github.com/bookhivelabs/bookhive/internal/pkg/messaging"
	"github.com/bookhivelabs/bookhive/internal/pkg/router"
	"github.com/bookhivelabs/bookhive/internal/pkg/uid"
	"github.com/bookhivelabs/bookhive/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Enforcer   *casbin.Enforcer           `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	OID        uid.StringID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbIdentity := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbIdentity,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		OID:           dep.OID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
