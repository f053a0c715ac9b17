package usecase

import (
	"context"
	"log/slog"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/clock"
	"github.com/bookhivelabs/bookhive/internal/pkg/config"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/hash"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/jwt"
	"github.com/bookhivelabs/bookhive/internal/pkg/uid"
	"github.com/bookhivelabs/bookhive/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"
)

type UserRegisteredEvent struct {
	UserID   int64
	Email    string
	FullName string
}

type UserForgotPasswordEvent struct {
	UserID     int64
	Email      string
	FullName   string
	ResetToken string
}

type repoMessaging interface {
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
	PublishUserForgotPassword(ctx context.Context, msg UserForgotPasswordEvent) error
}

type repoDB interface {
	GetUserLoginInfo(ctx context.Context, email string) (*entity.UserLoginInfo, error)
	GetUserLoginInfoByID(ctx context.Context, id int64) (*entity.UserLoginInfo, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserList(ctx context.Context, filter entity.UserListFilterData) ([]entity.User, int64, error)
	GetUserRefreshToken(ctx context.Context, token string) (*entity.UserRefreshToken, error)
	GetChallengeUserByTokenPurpose(ctx context.Context, token string, p entity.ChallengePurpose) (*entity.ChallengeUser, error)

	NewUser(ctx context.Context, user entity.NewUser, hash string) error
	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error
	CreateChallenge(ctx context.Context, in entity.Challenge) error

	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllRefreshToken(ctx context.Context, userID int64) error
	RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) error
	UpdateUserProfile(ctx context.Context, id int64, fullName, phone string) error
	ResetUserPassword(ctx context.Context, userID, challengeID int64, newHash string) error
	ChangeUserPassword(ctx context.Context, userID int64, newHash string) error
	DeleteChallenge(ctx context.Context, id int64) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	bcrypt        hash.Hash
	uid           uid.NumberID
	oid           uid.StringID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	enforcer      *casbin.Enforcer
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Bcrypt        hash.Hash
	UID           uid.NumberID
	OID           uid.StringID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Enforcer      *casbin.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		oid:           dep.OID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) ensureUserStatusAllowed(ctx context.Context, userID int64, status entity.UserStatus) error {
	switch status.Ensure() {
	case entity.UserStatusUnknown:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)

	case entity.UserStatusBanned:
		slog.WarnContext(ctx, "user account is banned", "user_id", userID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	case entity.UserStatusInactive:
		slog.WarnContext(ctx, "user account is deactivated", "user_id", userID)
		return goerror.NewBusiness("account is deactivated", goerror.CodeForbidden)

	default:
		return nil
	}
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
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
