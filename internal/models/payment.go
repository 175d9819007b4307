package models

// Payment represents money moved between two users to offset a balance.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// PayerID is the user who paid (debtor settling up).
	PayerID string

	// PayeeID is the user who received payment (creditor being paid).
	PayeeID string

	// Amount is the payment amount. Always > 0.
	Amount float64

	// GroupID is the group this payment settles within.
	// Empty means a direct settlement outside any group.
	GroupID string

	// Date is the Unix timestamp of the payment.
	Date int64

	// Notes is an optional description for the payment.
	Notes string

	// CreatedBy is the user ID who recorded this payment.
	CreatedBy string
}
