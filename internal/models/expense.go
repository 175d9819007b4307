package models

import "fmt"

// SplitType tags how an expense was divided. The resolved Splits are
// authoritative for balances; the tag is informational.
type SplitType string

const (
	SplitTypeEqual      SplitType = "EQUAL"
	SplitTypePercentage SplitType = "PERCENTAGE"
	SplitTypeShares     SplitType = "SHARES"
	SplitTypeExact      SplitType = "EXACT"
	SplitTypeAdjustment SplitType = "ADJUSTMENT"
)

// ParseSplitType converts a wire string into a SplitType.
func ParseSplitType(s string) (SplitType, error) {
	switch t := SplitType(s); t {
	case SplitTypeEqual, SplitTypePercentage, SplitTypeShares, SplitTypeExact, SplitTypeAdjustment:
		return t, nil
	default:
		return "", fmt.Errorf("unknown split type: %q", s)
	}
}

// Split is one participant's owed share of an expense.
type Split struct {
	// UserID is the participant who owes Amount.
	UserID string

	// Amount is the owed share in currency units (2 decimals).
	Amount float64

	// Percentage is set for PERCENTAGE splits. Informational only.
	Percentage *float64

	// Shares is set for SHARES and ADJUSTMENT splits. Informational only.
	Shares *float64
}

// Expense represents an amount paid by one user and divided among participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is what the money was spent on (e.g., "Groceries").
	Description string

	// Amount is the expense total. Always > 0.
	Amount float64

	// PaidBy is the user ID who fronted the money.
	PaidBy string

	// GroupID is the group this expense belongs to.
	// Empty means a personal (direct) expense outside any group.
	GroupID string

	// Date is the Unix timestamp of the expense.
	Date int64

	// SplitType records the method used to produce Splits.
	SplitType SplitType

	// Splits are the per-participant shares, in participant order.
	// They sum to Amount within 0.01. The payer may be absent.
	Splits []Split

	// CreatedBy is the user ID who recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// SplitFor returns the amount owed by userID, or 0 if they are not a participant.
func (e *Expense) SplitFor(userID string) float64 {
	for _, s := range e.Splits {
		if s.UserID == userID {
			return s.Amount
		}
	}
	return 0
}

// Involves reports whether userID paid for or participates in the expense.
func (e *Expense) Involves(userID string) bool {
	if e.PaidBy == userID {
		return true
	}
	for _, s := range e.Splits {
		if s.UserID == userID {
			return true
		}
	}
	return false
}
