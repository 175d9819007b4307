package calculator

import (
	"math"
	"sort"

	"github.com/wiselyspent/backend/internal/models"
)

// SettledThreshold is the smallest balance magnitude that is not treated as settled.
const SettledThreshold = 0.01

// IsSettled reports whether a balance is too small to act on.
func IsSettled(balance float64) bool {
	return math.Abs(balance) < SettledThreshold
}

// BalanceBetween computes the signed amount between userA and userB.
// Positive means userB owes userA; negative means userA owes userB.
//
// Algorithm:
//   - Expense paid by A: add B's split (B owes A their share)
//   - Expense paid by B: subtract A's split
//   - Expenses paid by anyone else are ignored for this pair
//   - Payment A → B adds the amount; payment B → A subtracts it
//
// No rounding is applied.
func BalanceBetween(userA, userB string, expenses []models.Expense, payments []models.Payment) float64 {
	if userA == userB {
		return 0
	}

	var balance float64
	for i := range expenses {
		e := &expenses[i]
		switch e.PaidBy {
		case userA:
			balance += e.SplitFor(userB)
		case userB:
			balance -= e.SplitFor(userA)
		}
	}

	for _, p := range payments {
		if p.PayerID == userA && p.PayeeID == userB {
			balance += p.Amount
		} else if p.PayerID == userB && p.PayeeID == userA {
			balance -= p.Amount
		}
	}

	return balance
}

// NetBalanceOf computes a user's overall position: what others owe them minus
// what they owe others. Positive means the user is owed money.
//
// It equals the sum of BalanceBetween(user, other) over every counterparty,
// computed in one pass.
func NetBalanceOf(user string, expenses []models.Expense, payments []models.Payment) float64 {
	var balance float64
	for i := range expenses {
		e := &expenses[i]
		if e.PaidBy == user {
			balance += e.Amount - e.SplitFor(user)
		} else {
			balance -= e.SplitFor(user)
		}
	}

	for _, p := range payments {
		if p.PayerID == user {
			balance += p.Amount
		}
		if p.PayeeID == user {
			balance -= p.Amount
		}
	}

	return balance
}

// Counterparties returns every other user that shares an expense or payment
// with user, sorted by ID.
//
// An expense links its payer with each participant; participants who did not
// pay are not linked to each other.
func Counterparties(user string, expenses []models.Expense, payments []models.Payment) []string {
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && id != user {
			seen[id] = true
		}
	}

	for i := range expenses {
		e := &expenses[i]
		if e.PaidBy == user {
			for _, s := range e.Splits {
				add(s.UserID)
			}
		} else if hasSplit(e, user) {
			add(e.PaidBy)
		}
	}
	for _, p := range payments {
		if p.PayerID == user {
			add(p.PayeeID)
		} else if p.PayeeID == user {
			add(p.PayerID)
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func hasSplit(e *models.Expense, user string) bool {
	for _, s := range e.Splits {
		if s.UserID == user {
			return true
		}
	}
	return false
}

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	UserID     string
	NetBalance float64 // Positive = owed money, Negative = owes money
	TotalPaid  float64 // Expenses fronted plus payments made
	TotalOwed  float64 // Own splits plus payments received
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// GroupBalances computes per-member balances for an already scoped set of
// expenses and payments, and a simplified list of debts that would settle them.
//
// Every ID in members is reported, even with a zero balance. Users that appear
// in the transactions but not in members are reported after them.
//
// Debt simplification is greedy: the largest debtor pays the largest creditor
// until one side is settled, then moves on.
func GroupBalances(members []string, expenses []models.Expense, payments []models.Payment) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance)
	var order []string
	get := func(id string) *MemberBalance {
		if b, ok := balances[id]; ok {
			return b
		}
		b := &MemberBalance{UserID: id}
		balances[id] = b
		order = append(order, id)
		return b
	}
	for _, m := range members {
		get(m)
	}

	for i := range expenses {
		e := &expenses[i]
		get(e.PaidBy).TotalPaid += e.Amount
		for _, s := range e.Splits {
			get(s.UserID).TotalOwed += s.Amount
		}
	}

	for _, p := range payments {
		// Payer's balance improves (they effectively "paid" to settle debt)
		get(p.PayerID).TotalPaid += p.Amount
		// Receiver's balance decreases (they received payment)
		get(p.PayeeID).TotalOwed += p.Amount
	}

	memberBalances := make([]MemberBalance, 0, len(order))
	for _, id := range order {
		b := balances[id]
		b.NetBalance = b.TotalPaid - b.TotalOwed
		memberBalances = append(memberBalances, *b)
	}

	return memberBalances, SimplifyDebts(memberBalances)
}

// SimplifyDebts matches debtors against creditors to minimize transactions.
func SimplifyDebts(balances []MemberBalance) []DebtEdge {
	type party struct {
		id     string
		amount float64
	}
	var creditors, debtors []party
	for _, b := range balances {
		if b.NetBalance >= SettledThreshold {
			creditors = append(creditors, party{b.UserID, b.NetBalance})
		} else if b.NetBalance <= -SettledThreshold {
			debtors = append(debtors, party{b.UserID, -b.NetBalance})
		}
	}

	byAmount := func(ps []party) func(i, j int) bool {
		return func(i, j int) bool {
			if ps[i].amount != ps[j].amount {
				return ps[i].amount > ps[j].amount
			}
			return ps[i].id < ps[j].id
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(debtors[i].amount, creditors[j].amount)
		if amount >= SettledThreshold {
			edges = append(edges, DebtEdge{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: RoundCents(amount),
			})
		}

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount < SettledThreshold {
			i++
		}
		if creditors[j].amount < SettledThreshold {
			j++
		}
	}

	return edges
}
