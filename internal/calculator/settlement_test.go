package calculator

import (
	"testing"

	"github.com/wiselyspent/backend/internal/models"
)

func TestPlanSettlement(t *testing.T) {
	groups := []models.Group{
		{ID: "trip", Members: []string{"alice", "bob", "charlie"}},
		{ID: "flat", Members: []string{"bob", "charlie"}},
	}

	t.Run("direct and group debts become two payments", func(t *testing.T) {
		expenses := []models.Expense{
			expense(t, "", "bob", 20, "alice"),
			expense(t, "trip", "bob", 45, "alice", "bob", "charlie"),
		}

		plan := PlanSettlement("alice", "bob", groups, expenses, nil)
		if len(plan.Payments) != 2 {
			t.Fatalf("expected 2 payments, got %d: %+v", len(plan.Payments), plan.Payments)
		}
		if !approxEqual(plan.Total, 35) {
			t.Errorf("Total = %v, want 35", plan.Total)
		}

		direct, group := plan.Payments[0], plan.Payments[1]
		if direct.GroupID != "" || !approxEqual(direct.Amount, 20) {
			t.Errorf("direct payment = %+v, want 20 with no group", direct)
		}
		if group.GroupID != "trip" || !approxEqual(group.Amount, 15) {
			t.Errorf("group payment = %+v, want 15 in trip", group)
		}
		for _, p := range plan.Payments {
			if p.PayerID != "alice" || p.PayeeID != "bob" {
				t.Errorf("payment direction = %s -> %s, want alice -> bob", p.PayerID, p.PayeeID)
			}
		}

		// Applying the plan settles every context.
		for _, cb := range ContextBalances("alice", "bob", groups, expenses, plan.Payments) {
			if !IsSettled(cb.Amount) {
				t.Errorf("%s still unsettled after plan: %v", cb.Scope, cb.Amount)
			}
		}
		if again := PlanSettlement("alice", "bob", groups, expenses, plan.Payments); !again.Empty() {
			t.Errorf("expected empty plan after settling, got %+v", again)
		}
	})

	t.Run("never collects what the target owes", func(t *testing.T) {
		expenses := []models.Expense{
			expense(t, "", "alice", 50, "bob"),
			expense(t, "trip", "bob", 30, "alice", "bob", "charlie"),
		}

		plan := PlanSettlement("alice", "bob", groups, expenses, nil)
		if len(plan.Payments) != 1 {
			t.Fatalf("expected 1 payment, got %+v", plan.Payments)
		}
		if plan.Payments[0].GroupID != "trip" || !approxEqual(plan.Payments[0].Amount, 10) {
			t.Errorf("unexpected payment %+v", plan.Payments[0])
		}
	})

	t.Run("already settled yields empty plan", func(t *testing.T) {
		expenses := []models.Expense{expense(t, "", "bob", 20, "alice")}
		payments := []models.Payment{payment("", "alice", "bob", 20)}

		plan := PlanSettlement("alice", "bob", groups, expenses, payments)
		if !plan.Empty() || plan.Total != 0 {
			t.Errorf("expected empty plan, got %+v", plan)
		}
	})

	t.Run("groups not shared are skipped", func(t *testing.T) {
		expenses := []models.Expense{
			expense(t, "flat", "charlie", 40, "alice", "charlie"),
		}

		plan := PlanSettlement("alice", "charlie", groups, expenses, nil)
		if !plan.Empty() {
			t.Errorf("alice is not in flat, expected empty plan, got %+v", plan)
		}
	})

	t.Run("dangling group reference is excluded", func(t *testing.T) {
		expenses := []models.Expense{expense(t, "deleted", "bob", 10, "alice")}
		if plan := PlanSettlement("alice", "bob", groups, expenses, nil); !plan.Empty() {
			t.Errorf("expected empty plan, got %+v", plan)
		}
	})

	t.Run("self settlement is empty", func(t *testing.T) {
		expenses := []models.Expense{expense(t, "", "bob", 10, "alice")}
		if plan := PlanSettlement("alice", "alice", groups, expenses, nil); !plan.Empty() {
			t.Errorf("expected empty plan, got %+v", plan)
		}
	})
}

func TestSharedGroups(t *testing.T) {
	groups := []models.Group{
		{ID: "g1", Members: []string{"a", "b"}},
		{ID: "g2", Members: []string{"a"}},
		{ID: "g3", Members: []string{"b", "c", "a"}},
	}
	shared := SharedGroups("a", "b", groups)
	if len(shared) != 2 || shared[0].ID != "g1" || shared[1].ID != "g3" {
		t.Errorf("SharedGroups() = %+v", shared)
	}
}
