package app

import (
	"context"
	"net/http"

	"github.com/bookhivelabs/bookhive/internal/notification/outbound/sender"
	"github.com/bookhivelabs/bookhive/internal/pkg/clock"
	"github.com/bookhivelabs/bookhive/internal/pkg/config"
	"github.com/bookhivelabs/bookhive/internal/pkg/goroutine"
	"github.com/bookhivelabs/bookhive/internal/pkg/hash"
	"github.com/bookhivelabs/bookhive/internal/pkg/idempotency"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/jwt"
	"github.com/bookhivelabs/bookhive/internal/pkg/mail"
	"github.com/bookhivelabs/bookhive/internal/pkg/messaging"
	"github.com/bookhivelabs/bookhive/internal/pkg/pgxcasbin"
	"github.com/bookhivelabs/bookhive/internal/pkg/router"
	"github.com/bookhivelabs/bookhive/internal/pkg/storage"
	"github.com/bookhivelabs/bookhive/internal/pkg/uid"
	"github.com/bookhivelabs/bookhive/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	bcrypt    hash.Hash
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	jwt       jwt.JWT

	// resources
	dbConn        *pgxpool.Pool
	cacheConn     *redis.Client
	idemp         idempotency.Idempotency
	mail          mail.Mail
	push          sender.PushClient
	messaging     messaging.Messaging
	storage       storage.Storage
	casbin        *casbin.Enforcer
	casbinWatcher *pgxcasbin.Watcher

	// server
	router     *router.Router
	httpServer *http.Server
	sseServer  *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initPush()
	app.initStorage()
	app.initMessaging()
	app.initCasbin()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
