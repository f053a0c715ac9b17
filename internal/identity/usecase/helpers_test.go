package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/config"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/hash"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/jwt"
	"github.com/bookhivelabs/bookhive/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
)

type resetCall struct {
	userID      int64
	challengeID int64
	newHash     string
}

type fakeRepo struct {
	usersByID     map[int64]*entity.User
	loginInfo     map[string]*entity.UserLoginInfo
	refreshTokens map[string]*entity.UserRefreshToken
	challenges    map[string]*entity.ChallengeUser

	listUsers  []entity.User
	listTotal  int64
	lastFilter *entity.UserListFilterData

	createdUsers      []entity.NewUser
	createdHash       string
	createdTokens     []entity.RefreshToken
	createdChallenges []entity.Challenge
	revokedTokens     []string
	revokedAllFor     []int64
	rotations         []entity.RotateRefreshToken
	profileUpdates    []string
	resets            []resetCall
	passwordChanges   []resetCall
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		usersByID:     map[int64]*entity.User{},
		loginInfo:     map[string]*entity.UserLoginInfo{},
		refreshTokens: map[string]*entity.UserRefreshToken{},
		challenges:    map[string]*entity.ChallengeUser{},
	}
}

func (f *fakeRepo) GetUserLoginInfo(_ context.Context, email string) (*entity.UserLoginInfo, error) {
	u, ok := f.loginInfo[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetUserLoginInfoByID(_ context.Context, id int64) (*entity.UserLoginInfo, error) {
	for _, u := range f.loginInfo {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := f.usersByID[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.usersByID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) GetUserList(_ context.Context, filter entity.UserListFilterData) ([]entity.User, int64, error) {
	f.lastFilter = &filter
	return f.listUsers, f.listTotal, nil
}

func (f *fakeRepo) GetUserRefreshToken(_ context.Context, token string) (*entity.UserRefreshToken, error) {
	rt, ok := f.refreshTokens[token]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return rt, nil
}

func (f *fakeRepo) GetChallengeUserByTokenPurpose(_ context.Context, token string, _ entity.ChallengePurpose) (*entity.ChallengeUser, error) {
	cu, ok := f.challenges[token]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return cu, nil
}

func (f *fakeRepo) NewUser(_ context.Context, user entity.NewUser, hash string) error {
	f.createdUsers = append(f.createdUsers, user)
	f.createdHash = hash
	f.usersByID[user.ID] = &entity.User{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
		Role:     user.Role,
		Status:   entity.UserStatusActive,
	}
	return nil
}

func (f *fakeRepo) CreateRefreshToken(_ context.Context, in entity.RefreshToken) error {
	f.createdTokens = append(f.createdTokens, in)
	return nil
}

func (f *fakeRepo) CreateChallenge(_ context.Context, in entity.Challenge) error {
	f.createdChallenges = append(f.createdChallenges, in)
	return nil
}

func (f *fakeRepo) RevokeRefreshToken(_ context.Context, token string) error {
	f.revokedTokens = append(f.revokedTokens, token)
	return nil
}

func (f *fakeRepo) RevokeAllRefreshToken(_ context.Context, userID int64) error {
	f.revokedAllFor = append(f.revokedAllFor, userID)
	return nil
}

func (f *fakeRepo) RotateRefreshToken(_ context.Context, ro entity.RotateRefreshToken) error {
	f.rotations = append(f.rotations, ro)
	return nil
}

func (f *fakeRepo) UpdateUserProfile(_ context.Context, id int64, fullName, phone string) error {
	f.profileUpdates = append(f.profileUpdates, fmt.Sprintf("%d:%s:%s", id, fullName, phone))
	if u, ok := f.usersByID[id]; ok {
		u.FullName = fullName
		u.Phone = phone
	}
	return nil
}

func (f *fakeRepo) ResetUserPassword(_ context.Context, userID, challengeID int64, newHash string) error {
	f.resets = append(f.resets, resetCall{userID: userID, challengeID: challengeID, newHash: newHash})
	return nil
}

func (f *fakeRepo) ChangeUserPassword(_ context.Context, userID int64, newHash string) error {
	f.passwordChanges = append(f.passwordChanges, resetCall{userID: userID, newHash: newHash})
	for _, u := range f.loginInfo {
		if u.ID == userID {
			u.Password = newHash
		}
	}
	return nil
}

func (f *fakeRepo) DeleteChallenge(context.Context, int64) error { return nil }

type fakeMessaging struct {
	registered []UserRegisteredEvent
	forgot     []UserForgotPasswordEvent
	publishErr error
}

func (f *fakeMessaging) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.registered = append(f.registered, msg)
	return nil
}

func (f *fakeMessaging) PublishUserForgotPassword(_ context.Context, msg UserForgotPasswordEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.forgot = append(f.forgot, msg)
	return nil
}

type fakeJWT struct{ err error }

func (f *fakeJWT) Generate(uid int64, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("jwt-%d", uid), nil
}

func (f *fakeJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, nil }

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

// fakeConfig answers only what the usecases read; anything else panics via the
// nil embedded interface, which keeps tests honest about their config surface.
type fakeConfig struct {
	config.Config
}

func (f *fakeConfig) GetDay(string) time.Duration  { return 30 * 24 * time.Hour }
func (f *fakeConfig) GetHour(string) time.Duration { return time.Hour }

type seqUID struct{ next int64 }

func (s *seqUID) Generate() int64 {
	s.next++
	return s.next
}

type seqOID struct{ next int64 }

func (s *seqOID) Generate() string {
	s.next++
	return fmt.Sprintf("opaque-%d", s.next)
}

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		t.Fatalf("failed to build casbin model: %v", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatalf("failed to build casbin enforcer: %v", err)
	}
	if _, err := e.AddPolicy("admin", "*", "*"); err != nil {
		t.Fatalf("failed to add casbin policy: %v", err)
	}
	if _, err := e.AddGroupingPolicy("1", "admin"); err != nil {
		t.Fatalf("failed to add casbin grouping: %v", err)
	}
	return e
}

type testEnv struct {
	uc     *Usecase
	repo   *fakeRepo
	mq     *fakeMessaging
	clock  *fakeClock
	hmac   hash.Hash
	bcrypt hash.Hash
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	env := &testEnv{
		repo:   newFakeRepo(),
		mq:     &fakeMessaging{},
		clock:  &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		hmac:   hash.NewHMACSHA256("test-secret"),
		bcrypt: hash.NewBcrypt(4, ""),
	}

	env.uc = New(Dependency{
		RepoDB:        env.repo,
		RepoMessaging: env.mq,
		Validator:     v,
		Config:        &fakeConfig{},
		HMAC:          env.hmac,
		Bcrypt:        env.bcrypt,
		UID:           &seqUID{},
		OID:           &seqOID{},
		Clock:         env.clock,
		JWT:           &fakeJWT{},
		Instrument:    instrument.NewNoop(),
		Enforcer:      newTestEnforcer(t),
	})

	return env
}

// seedActiveUser registers a user directly in the fake repo with a real bcrypt
// password hash so login flows can verify against it.
func (e *testEnv) seedActiveUser(t *testing.T, id int64, email, password string) {
	t.Helper()

	pwHash, err := e.bcrypt.Hash(password)
	if err != nil {
		t.Fatalf("failed to hash seed password: %v", err)
	}

	e.repo.usersByID[id] = &entity.User{
		ID:       id,
		Email:    email,
		FullName: "Seeded Reader",
		Role:     entity.UserRoleUser,
		Status:   entity.UserStatusActive,
	}
	e.repo.loginInfo[email] = &entity.UserLoginInfo{
		ID:       id,
		Email:    email,
		Role:     entity.UserRoleUser,
		Status:   entity.UserStatusActive,
		Password: string(pwHash),
	}
}

// hashToken mirrors the HMAC applied before refresh tokens and challenges are
// stored, so fakes can be keyed the same way the usecases look them up.
func (e *testEnv) hashToken(t *testing.T, token string) string {
	t.Helper()

	h, err := e.hmac.Hash(token)
	if err != nil {
		t.Fatalf("failed to hash token: %v", err)
	}
	return string(h)
}

func authCtx(id int64, subject string) context.Context {
	clm := jwt.Claims{UserID: id, UserEmail: "reader@bookhive.dev"}
	clm.Subject = subject
	return jwt.SetAuth(context.Background(), clm)
}
