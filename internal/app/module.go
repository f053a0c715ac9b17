package app

import (
	"log/slog"
	"os"

	"github.com/bookhivelabs/bookhive/internal/identity"
	"github.com/bookhivelabs/bookhive/internal/notification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(identity.Dependency{
			DBConn:     a.dbConn,
			Enforcer:   a.casbin,
			Router:     a.router,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			OID:        a.oid,
			HMAC:       a.hmac,
			Bcrypt:     a.bcrypt,
			Clock:      a.clock,
			Validator:  a.validator,
			JWT:        a.jwt,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			DBConn:      a.dbConn,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			Goroutine:   a.goroutine,
			Enforcer:    a.casbin,
			Router:      a.router,
			Storage:     a.storage,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Validator:   a.validator,
			Mail:        a.mail,
			Push:        a.push,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
