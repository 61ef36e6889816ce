package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/neomorfeo/onboardiq/internal/adapter/fsm"
	"github.com/neomorfeo/onboardiq/internal/adapter/sqlite"
	"github.com/neomorfeo/onboardiq/internal/app"
	"github.com/neomorfeo/onboardiq/internal/domain"
)

const (
	testPassword = "Xy7!abcdEFGHjk2#"
	superAdminID = "root"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, msg domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) all() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.sent...)
}

type fakeQueue struct {
	queued []domain.Notification
}

func (q *fakeQueue) Enqueue(_ context.Context, n domain.Notification) error {
	q.queued = append(q.queued, n)
	return nil
}

type countingGenerator struct {
	mu    sync.Mutex
	calls int
}

func (g *countingGenerator) Generate(int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return testPassword, nil
}

type prefixHasher struct{}

func (prefixHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

// failingUsers fails role replacement to exercise rollback after earlier
// steps have written.
type failingUsers struct {
	domain.UserRepository
	err error
}

func (u failingUsers) ReplaceRoles(context.Context, string, []domain.Role) error {
	return u.err
}

func (u failingUsers) Create(context.Context, domain.User) error {
	return u.err
}

type harness struct {
	store     *sqlite.Store
	notifier  *fakeNotifier
	queue     *fakeQueue
	generator *countingGenerator
	audit     *app.AuditRecorder
	requests  *app.RequestService
	prov      *app.Provisioner
	users     *app.UserLifecycle
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	h := buildHarness(store, store.Users())

	_, err = h.users.EnsureSuperAdmin(context.Background(), app.SuperAdminInput{ID: superAdminID, Email: "root@onboardiq.dev"})
	if err != nil {
		t.Fatalf("seeding super admin: %v", err)
	}
	return h
}

func buildHarness(store *sqlite.Store, users domain.UserRepository) *harness {
	h := &harness{
		store:     store,
		notifier:  &fakeNotifier{},
		queue:     &fakeQueue{},
		generator: &countingGenerator{},
	}
	h.audit = app.NewAuditRecorder(store.Audit())
	notify := app.NewNotificationDispatcher(h.notifier, h.queue, store, h.audit)
	h.requests = app.NewRequestService(store, store.Requests(), store.Users(), h.audit, notify)
	h.prov = app.NewProvisioner(app.ProvisionerDeps{
		Tx:          store,
		Requests:    store.Requests(),
		Tenants:     store.Tenants(),
		Users:       users,
		Guard:       fsm.New(),
		Credentials: h.generator,
		Hasher:      prefixHasher{},
		Audit:       h.audit,
		Notify:      notify,
	})
	h.users = app.NewUserLifecycle(store, store.Users(), h.audit)
	return h
}

func (h *harness) submit(t *testing.T, name, email string) domain.TenantRequest {
	t.Helper()
	req, err := h.requests.Create(context.Background(), app.CreateRequestInput{
		TenantName:     name,
		RequesterEmail: email,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return req
}

func (h *harness) actions(t *testing.T, entityType, entityID string) []domain.AuditAction {
	t.Helper()
	entries, err := h.audit.List(context.Background(), domain.AuditFilter{EntityType: entityType, EntityID: entityID})
	if err != nil {
		t.Fatalf("listing audit: %v", err)
	}
	out := make([]domain.AuditAction, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}

func assertKind(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := domain.KindOf(err); got != want {
		t.Fatalf("error kind = %q, want %q (err: %v)", got, want, err)
	}
}

var errDiskFull = errors.New("disk full")
