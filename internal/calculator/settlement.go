package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/wiselyspent/backend/internal/models"
)

// ContextBalance is the balance between two users within one scope.
// Amount is positive when the counterparty owes the current user.
type ContextBalance struct {
	Scope  Scope
	Amount float64
}

// SettlementPlan is the list of payments that clears what the current user
// owes a target user, across every shared context.
type SettlementPlan struct {
	Payments []models.Payment
	Total    float64
}

// Empty reports whether there is nothing to settle.
func (p SettlementPlan) Empty() bool {
	return len(p.Payments) == 0
}

// SharedGroups returns the groups, in input order, that have both users as members.
func SharedGroups(userA, userB string, groups []models.Group) []models.Group {
	var shared []models.Group
	for i := range groups {
		if groups[i].HasMember(userA) && groups[i].HasMember(userB) {
			shared = append(shared, groups[i])
		}
	}
	return shared
}

// ContextBalances computes the balance between current and target in the
// personal scope followed by every group they share.
func ContextBalances(current, target string, groups []models.Group, expenses []models.Expense, payments []models.Payment) []ContextBalance {
	shared := SharedGroups(current, target, groups)
	contexts := make([]Scope, 0, len(shared)+1)
	contexts = append(contexts, PersonalScope())
	for _, g := range shared {
		contexts = append(contexts, GroupScope(g.ID))
	}

	result := make([]ContextBalance, len(contexts))
	for i, scope := range contexts {
		result[i] = ContextBalance{
			Scope: scope,
			Amount: BalanceBetween(current, target,
				FilterExpenses(scope, expenses),
				FilterPayments(scope, payments)),
		}
	}
	return result
}

// PlanSettlement builds the payments current would make to zero out every
// negative balance they have with target: one for the personal context and
// one per shared group. Balances target owes current are never collected
// here; those are left to reminders.
//
// The planner only constructs payments. Submitting them is up to the caller.
func PlanSettlement(current, target string, groups []models.Group, expenses []models.Expense, payments []models.Payment) SettlementPlan {
	var plan SettlementPlan
	if current == target {
		return plan
	}

	total := decimal.Zero
	for _, cb := range ContextBalances(current, target, groups, expenses, payments) {
		if cb.Amount >= -SettledThreshold {
			continue
		}
		amount := decimal.NewFromFloat(-cb.Amount).Round(2)
		plan.Payments = append(plan.Payments, models.Payment{
			PayerID: current,
			PayeeID: target,
			Amount:  amount.InexactFloat64(),
			GroupID: cb.Scope.GroupID(),
		})
		total = total.Add(amount)
	}
	plan.Total = total.InexactFloat64()
	return plan
}

// RoundCents rounds v to two decimal places, half away from zero.
func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
