package calculator

import "github.com/wiselyspent/backend/internal/models"

type scopeKind int

const (
	scopeAll scopeKind = iota
	scopePersonal
	scopeGroup
)

// Scope selects which transactions a balance is computed over. The
// calculators never filter on their own; callers narrow the snapshot with
// FilterExpenses and FilterPayments first.
type Scope struct {
	kind    scopeKind
	groupID string
}

// AllScope includes every transaction.
func AllScope() Scope { return Scope{kind: scopeAll} }

// PersonalScope includes only transactions outside any group.
func PersonalScope() Scope { return Scope{kind: scopePersonal} }

// GroupScope includes only transactions tagged with groupID.
func GroupScope(groupID string) Scope { return Scope{kind: scopeGroup, groupID: groupID} }

// GroupID returns the group a group scope selects, or "" for other scopes.
func (s Scope) GroupID() string { return s.groupID }

// IsPersonal reports whether s is the personal (non-group) scope.
func (s Scope) IsPersonal() bool { return s.kind == scopePersonal }

// Matches reports whether a transaction tagged with groupID is in scope.
func (s Scope) Matches(groupID string) bool {
	switch s.kind {
	case scopePersonal:
		return groupID == ""
	case scopeGroup:
		return groupID == s.groupID
	default:
		return true
	}
}

func (s Scope) String() string {
	switch s.kind {
	case scopePersonal:
		return "personal"
	case scopeGroup:
		return "group:" + s.groupID
	default:
		return "all"
	}
}

// FilterExpenses returns the expenses in scope. The input is not modified.
func FilterExpenses(scope Scope, expenses []models.Expense) []models.Expense {
	filtered := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if scope.Matches(e.GroupID) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// FilterPayments returns the payments in scope. The input is not modified.
func FilterPayments(scope Scope, payments []models.Payment) []models.Payment {
	filtered := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		if scope.Matches(p.GroupID) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
