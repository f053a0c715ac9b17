package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/config"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/idempotency"
	"github.com/bookhivelabs/bookhive/internal/pkg/instrument"
	"github.com/bookhivelabs/bookhive/internal/pkg/jwt"
	"github.com/bookhivelabs/bookhive/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
)

type fakeRepo struct {
	records map[int64]*entity.Notification

	created       []*entity.Notification
	deliveryState *entity.DeliveryState
	claimAllowed  bool
	updateAllowed bool

	failedRetryable []*entity.Notification
	dueScheduled    []*entity.Notification

	createErr error
	getErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records:       map[int64]*entity.Notification{},
		claimAllowed:  true,
		updateAllowed: true,
	}
}

func (f *fakeRepo) Create(_ context.Context, n *entity.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, n)
	f.records[n.ID] = n
	return nil
}

func (f *fakeRepo) CreateBatch(ctx context.Context, ns []*entity.Notification) error {
	for _, n := range ns {
		if err := f.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*entity.Notification, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	n, ok := f.records[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return n, nil
}

func (f *fakeRepo) GetByIDForUser(ctx context.Context, id, userID int64) (*entity.Notification, error) {
	n, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, goerror.ErrNotFound
	}
	return n, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID int64, _ entity.ListFilter) ([]*entity.Notification, error) {
	out := []*entity.Notification{}
	for _, n := range f.records {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListUnreadByUser(_ context.Context, userID int64) ([]*entity.Notification, error) {
	out := []*entity.Notification{}
	for _, n := range f.records {
		if n.UserID == userID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountByUser(_ context.Context, userID int64) (int64, error) {
	var total int64
	for _, n := range f.records {
		if n.UserID == userID {
			total++
		}
	}
	return total, nil
}

func (f *fakeRepo) StatsByUser(context.Context, int64) (*entity.Stats, error) {
	return &entity.Stats{ByType: map[string]entity.TypeStat{}}, nil
}

func (f *fakeRepo) MarkProcessing(_ context.Context, id int64) (bool, error) {
	if !f.claimAllowed {
		return false, nil
	}
	if n, ok := f.records[id]; ok {
		n.Status = entity.StatusProcessing
	}
	return true, nil
}

func (f *fakeRepo) UpdateDeliveryState(_ context.Context, state entity.DeliveryState) (bool, error) {
	if !f.updateAllowed {
		return false, nil
	}
	f.deliveryState = &state
	if n, ok := f.records[state.ID]; ok {
		n.Status = state.Status
		n.SentAt = state.SentAt
		n.RetryCount = state.RetryCount
		n.ErrorMessage = state.ErrorMessage
	}
	return true, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, id, userID int64) (bool, error) {
	n, ok := f.records[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (f *fakeRepo) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	var updated int64
	for _, n := range f.records {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (f *fakeRepo) Cancel(_ context.Context, id, userID int64) (bool, error) {
	n, ok := f.records[id]
	if !ok || n.UserID != userID || n.Status.Terminal() {
		return false, nil
	}
	n.Status = entity.StatusCancelled
	return true, nil
}

func (f *fakeRepo) Delete(_ context.Context, id, userID int64) (bool, error) {
	n, ok := f.records[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func (f *fakeRepo) DeleteAllByUser(_ context.Context, userID int64) (int64, error) {
	var deleted int64
	for id, n := range f.records {
		if n.UserID == userID {
			delete(f.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeRepo) ListFailedRetryable(context.Context, int32) ([]*entity.Notification, error) {
	return f.failedRetryable, nil
}

func (f *fakeRepo) ListDueScheduled(context.Context, time.Time, int32) ([]*entity.Notification, error) {
	return f.dueScheduled, nil
}

func (f *fakeRepo) ListForExport(context.Context, time.Time, time.Time, int32) ([]entity.ExportRow, error) {
	return nil, nil
}

type fakeQueue struct {
	published  []int64
	publishErr error
}

func (f *fakeQueue) PublishProcessJob(_ context.Context, n *entity.Notification) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, n.ID)
	return nil
}

// fakeDispatcher is locked because delivery fans out to it concurrently.
type fakeDispatcher struct {
	mu   sync.Mutex
	sent map[entity.Channel]int
	errs map[entity.Channel]error
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{sent: map[entity.Channel]int{}, errs: map[entity.Channel]error{}}
}

func (f *fakeDispatcher) Dispatch(_ context.Context, ch entity.Channel, _ *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.errs[ch]; err != nil {
		return err
	}
	f.sent[ch]++
	return nil
}

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

// fakeConfig answers only what the usecases read; anything else panics via the
// nil embedded interface, which keeps tests honest about their config surface.
type fakeConfig struct {
	config.Config
	ints    map[string]int32
	strings map[string]string
}

func (f *fakeConfig) GetInt32(key string) int32     { return f.ints[key] }
func (f *fakeConfig) GetString(key string) string   { return f.strings[key] }
func (f *fakeConfig) GetMinute(string) time.Duration { return time.Minute }

type fakeIdem struct {
	executed []string
	execErr  error
}

func (f *fakeIdem) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (f *fakeIdem) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdem) MarkFailed(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdem) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if f.execErr != nil {
		return f.execErr
	}
	f.executed = append(f.executed, key)
	return fn(ctx)
}

type seqUID struct{ next int64 }

func (s *seqUID) Generate() int64 {
	s.next++
	return s.next
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
	uc    *Usecase
	repo  *fakeRepo
	queue *fakeQueue
	disp  *fakeDispatcher
	clock *fakeClock
	idem  *fakeIdem
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	env := &testEnv{
		repo:  newFakeRepo(),
		queue: &fakeQueue{},
		disp:  newFakeDispatcher(),
		clock: &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		idem:  &fakeIdem{},
	}

	env.uc = New(Dependency{
		RepoDB:        env.repo,
		RepoMessaging: env.queue,
		Dispatcher:    env.disp,
		Idempotency:   env.idem,
		Validator:     v,
		Config:        &fakeConfig{ints: map[string]int32{}, strings: map[string]string{}},
		UID:           &seqUID{},
		Clock:         env.clock,
		Instrument:    instrument.NewNoop(),
		Enforcer:      newTestEnforcer(t),
	})

	return env
}

// adminCtx carries claims for user 1, which the test enforcer maps to admin.
func adminCtx() context.Context {
	clm := jwt.Claims{UserID: 1, UserEmail: "admin@bookhive.dev"}
	clm.Subject = "1"
	return jwt.SetAuth(context.Background(), clm)
}

func userCtx(id int64, subject string) context.Context {
	clm := jwt.Claims{UserID: id, UserEmail: "reader@bookhive.dev"}
	clm.Subject = subject
	return jwt.SetAuth(context.Background(), clm)
}
