package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/wiselyspent/backend/internal/rpc"
)

func TestCreateExpense_Splits(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.createGroup(t, "alice", "Flat", "bob", "charlie")

	tests := []struct {
		name  string
		req   *rpc.CreateExpenseRequest
		want  map[string]float64
		order []string
	}{
		{
			name: "equal remainder goes to the first participants",
			req: &rpc.CreateExpenseRequest{
				Description: "Groceries",
				Amount:      100,
				GroupID:     group.ID,
				Split:       rpc.SplitSpec{Type: "EQUAL", ParticipantIDs: []string{"alice", "bob", "charlie"}},
			},
			order: []string{"alice", "bob", "charlie"},
			want:  map[string]float64{"alice": 33.34, "bob": 33.33, "charlie": 33.33},
		},
		{
			name: "percentage",
			req: &rpc.CreateExpenseRequest{
				Description: "Dinner",
				Amount:      50,
				Split: rpc.SplitSpec{Type: "percentage", Entries: []rpc.SplitEntry{
					{UserID: "alice", Value: 60},
					{UserID: "bob", Value: 40},
				}},
			},
			order: []string{"alice", "bob"},
			want:  map[string]float64{"alice": 30, "bob": 20},
		},
		{
			name: "exact",
			req: &rpc.CreateExpenseRequest{
				Description: "Tickets",
				Amount:      75.5,
				PaidBy:      "bob",
				GroupID:     group.ID,
				Split: rpc.SplitSpec{Type: "EXACT", Entries: []rpc.SplitEntry{
					{UserID: "bob", Value: 25.5},
					{UserID: "charlie", Value: 50},
				}},
			},
			order: []string{"bob", "charlie"},
			want:  map[string]float64{"bob": 25.5, "charlie": 50},
		},
		{
			name: "shares are recorded but divided equally",
			req: &rpc.CreateExpenseRequest{
				Description: "Cabin",
				Amount:      90,
				GroupID:     group.ID,
				Split: rpc.SplitSpec{Type: "SHARES", Entries: []rpc.SplitEntry{
					{UserID: "alice", Value: 2},
					{UserID: "bob", Value: 1},
				}},
			},
			order: []string{"alice", "bob"},
			want:  map[string]float64{"alice": 45, "bob": 45},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.expenses.CreateExpense(ctx, as("alice", tt.req))
			if err != nil {
				t.Fatalf("CreateExpense failed: %v", err)
			}
			expense := resp.Msg.Expense
			if expense.ID == "" {
				t.Error("expected non-empty expense ID")
			}
			if expense.CreatedBy != "alice" {
				t.Errorf("created_by: expected alice, got %s", expense.CreatedBy)
			}
			if tt.req.PaidBy == "" && expense.PaidBy != "alice" {
				t.Errorf("paid_by should default to the caller, got %s", expense.PaidBy)
			}
			if len(expense.Splits) != len(tt.order) {
				t.Fatalf("expected %d splits, got %d", len(tt.order), len(expense.Splits))
			}
			for i, s := range expense.Splits {
				if s.UserID != tt.order[i] {
					t.Errorf("split %d: expected user %s, got %s", i, tt.order[i], s.UserID)
				}
				if !approxEqual(s.Amount, tt.want[s.UserID]) {
					t.Errorf("split for %s: expected %.2f, got %.2f", s.UserID, tt.want[s.UserID], s.Amount)
				}
			}
		})
	}
}

func TestCreateExpense_Rejected(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.createGroup(t, "alice", "Flat", "bob")

	tests := []struct {
		name string
		req  *rpc.CreateExpenseRequest
		code connect.Code
	}{
		{
			name: "missing description",
			req: &rpc.CreateExpenseRequest{
				Amount: 10,
				Split:  rpc.SplitSpec{Type: "EQUAL", ParticipantIDs: []string{"alice", "bob"}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown split type",
			req: &rpc.CreateExpenseRequest{
				Description: "x",
				Amount:      10,
				Split:       rpc.SplitSpec{Type: "RANDOM", ParticipantIDs: []string{"alice", "bob"}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "non-positive amount",
			req: &rpc.CreateExpenseRequest{
				Description: "x",
				Amount:      0,
				Split:       rpc.SplitSpec{Type: "EQUAL", ParticipantIDs: []string{"alice", "bob"}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "percentages not summing to 100",
			req: &rpc.CreateExpenseRequest{
				Description: "x",
				Amount:      10,
				Split: rpc.SplitSpec{Type: "PERCENTAGE", Entries: []rpc.SplitEntry{
					{UserID: "alice", Value: 50},
					{UserID: "bob", Value: 40},
				}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "percentages drifting by more than a cent",
			req: &rpc.CreateExpenseRequest{
				Description: "x",
				Amount:      100,
				Split: rpc.SplitSpec{Type: "PERCENTAGE", Entries: []rpc.SplitEntry{
					{UserID: "alice", Value: 33.3},
					{UserID: "bob", Value: 33.3},
					{UserID: "charlie", Value: 33.35},
				}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "exact amounts not matching the total",
			req: &rpc.CreateExpenseRequest{
				Description: "x",
				Amount:      100,
				Split: rpc.SplitSpec{Type: "EXACT", Entries: []rpc.SplitEntry{
					{UserID: "alice", Value: 30},
					{UserID: "bob", Value: 30},
				}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "duplicate participant",
			req: &rpc.CreateExpenseRequest{
				Description: "x",
				Amount:      10,
				Split:       rpc.SplitSpec{Type: "EQUAL", ParticipantIDs: []string{"alice", "alice"}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "participant outside the group",
			req: &rpc.CreateExpenseRequest{
				Description: "x",
				Amount:      10,
				GroupID:     group.ID,
				Split:       rpc.SplitSpec{Type: "EQUAL", ParticipantIDs: []string{"alice", "mallory"}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "payer outside the group",
			req: &rpc.CreateExpenseRequest{
				Description: "x",
				Amount:      10,
				PaidBy:      "mallory",
				GroupID:     group.ID,
				Split:       rpc.SplitSpec{Type: "EQUAL", ParticipantIDs: []string{"alice", "bob"}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "personal expense not involving the caller",
			req: &rpc.CreateExpenseRequest{
				Description: "x",
				Amount:      10,
				PaidBy:      "bob",
				Split:       rpc.SplitSpec{Type: "EQUAL", ParticipantIDs: []string{"bob", "charlie"}},
			},
			code: connect.CodePermissionDenied,
		},
		{
			name: "unknown group",
			req: &rpc.CreateExpenseRequest{
				Description: "x",
				Amount:      10,
				GroupID:     "missing",
				Split:       rpc.SplitSpec{Type: "EQUAL", ParticipantIDs: []string{"alice", "bob"}},
			},
			code: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.expenses.CreateExpense(ctx, as("alice", tt.req))
			expectCode(t, err, tt.code)
		})
	}

	// Nothing was stored.
	resp, err := env.expenses.ListExpenses(ctx, as("alice", &rpc.ListExpensesRequest{}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 0 {
		t.Errorf("expected no expenses, got %d", len(resp.Msg.Expenses))
	}
}

func TestCreateExpense_NotGroupMember(t *testing.T) {
	env := setupTestServer(t)
	group := env.createGroup(t, "alice", "Flat", "bob")

	_, err := env.expenses.CreateExpense(context.Background(), as("mallory", &rpc.CreateExpenseRequest{
		Description: "x",
		Amount:      10,
		PaidBy:      "alice",
		GroupID:     group.ID,
		Split:       rpc.SplitSpec{Type: "EQUAL", ParticipantIDs: []string{"alice", "bob"}},
	}))
	expectCode(t, err, connect.CodePermissionDenied)
}

func TestGetExpense(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.createGroup(t, "alice", "Flat", "bob", "charlie")
	expense := env.equalExpense(t, "alice", group.ID, 20, "alice", "bob")
	personal := env.equalExpense(t, "alice", "", 20, "alice", "bob")

	for _, tc := range []struct {
		user      string
		expenseID string
		code      connect.Code
	}{
		{"bob", expense.ID, 0},
		// Group members can see group expenses they are not part of.
		{"charlie", expense.ID, 0},
		{"charlie", personal.ID, connect.CodePermissionDenied},
		{"mallory", expense.ID, connect.CodePermissionDenied},
		{"alice", "missing", connect.CodeNotFound},
	} {
		resp, err := env.expenses.GetExpense(ctx, as(tc.user, &rpc.GetExpenseRequest{ExpenseID: tc.expenseID}))
		if tc.code != 0 {
			expectCode(t, err, tc.code)
			continue
		}
		if err != nil {
			t.Fatalf("GetExpense(%s) failed: %v", tc.user, err)
		}
		if resp.Msg.Expense.ID != tc.expenseID {
			t.Errorf("expected expense %s, got %s", tc.expenseID, resp.Msg.Expense.ID)
		}
	}
}

func TestListExpenses(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.createGroup(t, "alice", "Flat", "bob")
	env.equalExpense(t, "alice", group.ID, 20, "alice", "bob")
	env.equalExpense(t, "bob", group.ID, 40, "alice", "bob")
	env.equalExpense(t, "alice", "", 10, "alice", "bob")

	tests := []struct {
		name string
		user string
		req  *rpc.ListExpensesRequest
		want int
	}{
		{"all", "alice", &rpc.ListExpensesRequest{}, 3},
		{"group", "bob", &rpc.ListExpensesRequest{GroupID: group.ID}, 2},
		{"personal only", "alice", &rpc.ListExpensesRequest{PersonalOnly: true}, 1},
		{"uninvolved user", "charlie", &rpc.ListExpensesRequest{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.expenses.ListExpenses(ctx, as(tt.user, tt.req))
			if err != nil {
				t.Fatalf("ListExpenses failed: %v", err)
			}
			if len(resp.Msg.Expenses) != tt.want {
				t.Errorf("expected %d expenses, got %d", tt.want, len(resp.Msg.Expenses))
			}
		})
	}

	_, err := env.expenses.ListExpenses(ctx, as("alice", &rpc.ListExpensesRequest{GroupID: group.ID, PersonalOnly: true}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = env.expenses.ListExpenses(ctx, as("charlie", &rpc.ListExpensesRequest{GroupID: group.ID}))
	expectCode(t, err, connect.CodePermissionDenied)
}

func TestDeleteExpense(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	expense := env.equalExpense(t, "alice", "", 20, "alice", "bob")

	_, err := env.expenses.DeleteExpense(ctx, as("bob", &rpc.DeleteExpenseRequest{ExpenseID: expense.ID}))
	expectCode(t, err, connect.CodePermissionDenied)

	if _, err := env.expenses.DeleteExpense(ctx, as("alice", &rpc.DeleteExpenseRequest{ExpenseID: expense.ID})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	_, err = env.expenses.GetExpense(ctx, as("alice", &rpc.GetExpenseRequest{ExpenseID: expense.ID}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = env.expenses.DeleteExpense(ctx, as("alice", &rpc.DeleteExpenseRequest{ExpenseID: expense.ID}))
	expectCode(t, err, connect.CodeNotFound)
}
