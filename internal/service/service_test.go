package service

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"connectrpc.com/connect"

	"github.com/wiselyspent/backend/internal/middleware"
	"github.com/wiselyspent/backend/internal/notify"
	"github.com/wiselyspent/backend/internal/rpc"
	"github.com/wiselyspent/backend/internal/storage/sqlite"
)

// testUserHeader names the caller in tests, standing in for a bearer token.
const testUserHeader = "X-Test-User"

// testAuthInterceptor returns a Connect interceptor that sets the test user ID in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
			}
			return next(ctx, req)
		}
	}
}

// as builds a request made by userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, userID)
	return req
}

type recordingNotifier struct {
	mu        sync.Mutex
	reminders []*notify.Reminder
}

func (n *recordingNotifier) SendReminder(_ context.Context, r *notify.Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, r)
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) sent() []*notify.Reminder {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*notify.Reminder(nil), n.reminders...)
}

type observations struct {
	settlements int
	payments    int
	total       float64
	reminders   int
}

type countingObserver struct {
	mu  sync.Mutex
	obs observations
}

func (o *countingObserver) snapshot() observations {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.obs
}

func (o *countingObserver) ObserveSettlement(payments int, total float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.obs.settlements++
	o.obs.payments += payments
	o.obs.total += total
}

func (o *countingObserver) ObserveReminder() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.obs.reminders++
}

type testEnv struct {
	store       *sqlite.SQLiteStore
	groups      *rpc.GroupServiceClient
	expenses    *rpc.ExpenseServiceClient
	balances    *rpc.BalanceServiceClient
	settlements *rpc.SettlementServiceClient
	notifier    *recordingNotifier
	observer    *countingObserver
}

// setupTestServer creates a test server with a temporary SQLite database and
// every domain service mounted behind the test auth interceptor.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	env := &testEnv{
		store:    store,
		notifier: &recordingNotifier{},
		observer: &countingObserver{},
	}

	authInterceptor := connect.WithInterceptors(testAuthInterceptor())
	mux := http.NewServeMux()
	mux.Handle(rpc.NewGroupServiceHandler(NewGroupService(store), authInterceptor))
	mux.Handle(rpc.NewExpenseServiceHandler(NewExpenseService(store), authInterceptor))
	mux.Handle(rpc.NewBalanceServiceHandler(NewBalanceService(store), authInterceptor))
	mux.Handle(rpc.NewSettlementServiceHandler(NewSettlementService(store, env.notifier, env.observer), authInterceptor))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env.groups = rpc.NewGroupServiceClient(http.DefaultClient, server.URL)
	env.expenses = rpc.NewExpenseServiceClient(http.DefaultClient, server.URL)
	env.balances = rpc.NewBalanceServiceClient(http.DefaultClient, server.URL)
	env.settlements = rpc.NewSettlementServiceClient(http.DefaultClient, server.URL)
	return env
}

func (env *testEnv) createGroup(t *testing.T, creator, name string, members ...string) *rpc.Group {
	t.Helper()
	resp, err := env.groups.CreateGroup(context.Background(), as(creator, &rpc.CreateGroupRequest{
		Name:      name,
		MemberIDs: members,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

// equalExpense records an EQUAL expense paid by payer.
func (env *testEnv) equalExpense(t *testing.T, payer, groupID string, amount float64, participants ...string) *rpc.Expense {
	t.Helper()
	resp, err := env.expenses.CreateExpense(context.Background(), as(payer, &rpc.CreateExpenseRequest{
		Description: "test expense",
		Amount:      amount,
		GroupID:     groupID,
		Split:       rpc.SplitSpec{Type: "EQUAL", ParticipantIDs: participants},
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}
