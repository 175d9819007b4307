package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/wiselyspent/backend/internal/models"
	"github.com/wiselyspent/backend/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNew_RerunsMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("first New failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("second New failed: %v", err)
	}
	second.Close()
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := &models.User{Name: "Alice", Email: "alice@example.com", CustomID: "alice42"}
	if err := store.CreateUser(ctx, alice); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if alice.ID == "" || alice.CreatedAt == 0 {
		t.Fatal("expected ID and CreatedAt to be generated")
	}
	// Shadow users have no custom id; more than one must be allowed.
	for _, email := range []string{"bob@example.com", "carol@example.com"} {
		if err := store.CreateUser(ctx, &models.User{Name: email, Email: email}); err != nil {
			t.Fatalf("CreateUser(%s) failed: %v", email, err)
		}
	}

	t.Run("lookup by id, email and custom id", func(t *testing.T) {
		byID, err := store.GetUserByID(ctx, alice.ID)
		if err != nil || byID.Email != alice.Email {
			t.Fatalf("GetUserByID = %+v, %v", byID, err)
		}
		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil || byEmail.ID != alice.ID {
			t.Fatalf("GetUserByEmail = %+v, %v", byEmail, err)
		}
		byCustom, err := store.GetUserByCustomID(ctx, "alice42")
		if err != nil || byCustom.ID != alice.ID {
			t.Fatalf("GetUserByCustomID = %+v, %v", byCustom, err)
		}
	})

	t.Run("missing user returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Name: "Other", Email: "alice@example.com"})
		if err == nil {
			t.Error("expected error for duplicate email")
		}
	})

	t.Run("GetUsersByIDs omits unknown ids", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, "unknown"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 1 || users[alice.ID] == nil {
			t.Errorf("unexpected users: %v", users)
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:      "Roommates",
		Members:   []string{"alice", "bob", "alice", "charlie"},
		CreatedBy: "alice",
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	got, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	want := []string{"alice", "bob", "charlie"}
	if len(got.Members) != len(want) {
		t.Fatalf("members = %v, want %v", got.Members, want)
	}
	for i := range want {
		if got.Members[i] != want[i] {
			t.Errorf("members[%d] = %s, want %s", i, got.Members[i], want[i])
		}
	}

	if err := store.AddGroupMembers(ctx, group.ID, []string{"bob", "dave"}); err != nil {
		t.Fatalf("AddGroupMembers failed: %v", err)
	}
	got, _ = store.GetGroup(ctx, group.ID)
	if len(got.Members) != 4 || got.Members[3] != "dave" {
		t.Errorf("members after add = %v", got.Members)
	}

	other := &models.Group{Name: "Work", Members: []string{"dave"}, CreatedBy: "dave"}
	if err := store.CreateGroup(ctx, other); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	groups, err := store.ListGroupsForUser(ctx, "dave")
	if err != nil {
		t.Fatalf("ListGroupsForUser failed: %v", err)
	}
	if len(groups) != 2 {
		t.Errorf("expected dave in 2 groups, got %d", len(groups))
	}
	groups, _ = store.ListGroupsForUser(ctx, "alice")
	if len(groups) != 1 {
		t.Errorf("expected alice in 1 group, got %d", len(groups))
	}

	if err := store.AddGroupMembers(ctx, "missing", []string{"x"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("AddGroupMembers on missing group: %v", err)
	}

	if err := store.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pct := 60.0
	rest := 40.0
	groupExpense := &models.Expense{
		Description: "Dinner",
		Amount:      50,
		PaidBy:      "alice",
		GroupID:     "g1",
		SplitType:   models.SplitTypePercentage,
		Splits: []models.Split{
			{UserID: "bob", Amount: 30, Percentage: &pct},
			{UserID: "alice", Amount: 20, Percentage: &rest},
		},
		CreatedBy: "alice",
	}
	personal := &models.Expense{
		Description: "Taxi",
		Amount:      12,
		PaidBy:      "charlie",
		SplitType:   models.SplitTypeEqual,
		Splits:      []models.Split{{UserID: "charlie", Amount: 6}, {UserID: "bob", Amount: 6}},
		CreatedBy:   "charlie",
	}
	for _, e := range []*models.Expense{groupExpense, personal} {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	t.Run("GetExpense keeps split order and optional fields", func(t *testing.T) {
		got, err := store.GetExpense(ctx, groupExpense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.GroupID != "g1" || got.SplitType != models.SplitTypePercentage || got.Date == 0 {
			t.Errorf("unexpected expense %+v", got)
		}
		if len(got.Splits) != 2 || got.Splits[0].UserID != "bob" || got.Splits[1].UserID != "alice" {
			t.Fatalf("unexpected splits %+v", got.Splits)
		}
		if got.Splits[0].Percentage == nil || *got.Splits[0].Percentage != 60 {
			t.Errorf("percentage not round-tripped")
		}
		if got.Splits[0].Shares != nil {
			t.Errorf("expected nil shares")
		}
	})

	t.Run("personal expense has empty group", func(t *testing.T) {
		got, err := store.GetExpense(ctx, personal.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.GroupID != "" {
			t.Errorf("GroupID = %q, want empty", got.GroupID)
		}
	})

	t.Run("list by participant and by group", func(t *testing.T) {
		forBob, err := store.ListExpensesForUser(ctx, "bob")
		if err != nil {
			t.Fatalf("ListExpensesForUser failed: %v", err)
		}
		if len(forBob) != 2 {
			t.Errorf("bob should see 2 expenses, got %d", len(forBob))
		}
		forAlice, _ := store.ListExpensesForUser(ctx, "alice")
		if len(forAlice) != 1 || len(forAlice[0].Splits) != 2 {
			t.Errorf("alice should see 1 expense with splits, got %+v", forAlice)
		}
		inGroup, err := store.ListExpensesByGroup(ctx, "g1")
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(inGroup) != 1 || inGroup[0].ID != groupExpense.ID {
			t.Errorf("unexpected group expenses %+v", inGroup)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, personal.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, personal.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	single := &models.Payment{PayerID: "alice", PayeeID: "bob", Amount: 5, Notes: "coffee", CreatedBy: "alice"}
	if err := store.CreatePayment(ctx, single); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	got, err := store.GetPayment(ctx, single.ID)
	if err != nil {
		t.Fatalf("GetPayment failed: %v", err)
	}
	if got.Notes != "coffee" || got.GroupID != "" || got.Amount != 5 {
		t.Errorf("unexpected payment %+v", got)
	}

	t.Run("SubmitPayments stores the whole batch", func(t *testing.T) {
		batch := []*models.Payment{
			{PayerID: "alice", PayeeID: "bob", Amount: 20, CreatedBy: "alice"},
			{PayerID: "alice", PayeeID: "bob", Amount: 15, GroupID: "trip", CreatedBy: "alice"},
		}
		if err := store.SubmitPayments(ctx, batch); err != nil {
			t.Fatalf("SubmitPayments failed: %v", err)
		}
		forAlice, err := store.ListPaymentsForUser(ctx, "alice")
		if err != nil {
			t.Fatalf("ListPaymentsForUser failed: %v", err)
		}
		if len(forAlice) != 3 {
			t.Errorf("expected 3 payments, got %d", len(forAlice))
		}
		inTrip, _ := store.ListPaymentsByGroup(ctx, "trip")
		if len(inTrip) != 1 || inTrip[0].Amount != 15 {
			t.Errorf("unexpected trip payments %+v", inTrip)
		}
	})

	t.Run("SubmitPayments is all or nothing", func(t *testing.T) {
		batch := []*models.Payment{
			{PayerID: "carol", PayeeID: "dave", Amount: 1, CreatedBy: "carol"},
			{ID: single.ID, PayerID: "carol", PayeeID: "dave", Amount: 2, CreatedBy: "carol"},
		}
		if err := store.SubmitPayments(ctx, batch); err == nil {
			t.Fatal("expected duplicate ID to fail the batch")
		}
		forCarol, err := store.ListPaymentsForUser(ctx, "carol")
		if err != nil {
			t.Fatalf("ListPaymentsForUser failed: %v", err)
		}
		if len(forCarol) != 0 {
			t.Errorf("expected no payments after rollback, got %d", len(forCarol))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.DeletePayment(ctx, single.ID); err != nil {
			t.Fatalf("DeletePayment failed: %v", err)
		}
		if err := store.DeletePayment(ctx, single.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}
	for _, tt := range tests {
		if got := placeholders(tt.n); got != tt.want {
			t.Errorf("placeholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
