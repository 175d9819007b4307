package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/wiselyspent/backend/internal/models"
)

var (
	ErrNoParticipants        = errors.New("at least one participant is required")
	ErrNonPositiveTotal      = errors.New("total amount must be greater than zero")
	ErrEmptyParticipant      = errors.New("participant id cannot be empty")
	ErrDuplicateParticipant  = errors.New("participant listed more than once")
	ErrNegativeAmount        = errors.New("amounts cannot be negative")
	ErrPercentageOutOfRange  = errors.New("percentage must be between 0 and 100")
	ErrPercentagesNotHundred = errors.New("percentages must sum to 100")
	ErrExactSumMismatch      = errors.New("exact amounts must sum to total amount")
	ErrSplitSumMismatch      = errors.New("split amounts must sum to expense amount")
)

// ValidationError reports a split that violates an input constraint.
type ValidationError struct {
	Type models.SplitType
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s split: %v", e.Type, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(t models.SplitType, err error) error {
	return &ValidationError{Type: t, Err: err}
}

var (
	hundred             = decimal.NewFromInt(100)
	cent                = decimal.New(1, -2)
	percentageTolerance = decimal.New(1, -1)
)

// SplitRequest describes how to divide an expense total among participants.
// The set of implementations is closed: EqualSplit, PercentageSplit,
// ExactSplit, SharesSplit and AdjustmentSplit.
type SplitRequest interface {
	Type() models.SplitType
	splitRequest()
}

// EqualSplit divides the total evenly. Leftover cents go to the first
// participants in the given order.
type EqualSplit struct {
	Participants []string
}

// PercentageEntry assigns a percentage of the total to one user.
type PercentageEntry struct {
	UserID     string
	Percentage float64
}

// PercentageSplit assigns each participant a percentage of the total.
type PercentageSplit struct {
	Entries []PercentageEntry
}

// ExactEntry assigns a fixed amount to one user.
type ExactEntry struct {
	UserID string
	Amount float64
}

// ExactSplit assigns each participant an explicit amount.
type ExactSplit struct {
	Entries []ExactEntry
}

// ShareEntry carries a per-user share count or adjustment value.
type ShareEntry struct {
	UserID string
	Value  float64
}

// SharesSplit is tagged SHARES. The values are kept on the resulting splits
// but the amounts follow the EQUAL algorithm.
type SharesSplit struct {
	Entries []ShareEntry
}

// AdjustmentSplit is tagged ADJUSTMENT and behaves like SharesSplit.
type AdjustmentSplit struct {
	Entries []ShareEntry
}

func (EqualSplit) Type() models.SplitType      { return models.SplitTypeEqual }
func (PercentageSplit) Type() models.SplitType { return models.SplitTypePercentage }
func (ExactSplit) Type() models.SplitType      { return models.SplitTypeExact }
func (SharesSplit) Type() models.SplitType     { return models.SplitTypeShares }
func (AdjustmentSplit) Type() models.SplitType { return models.SplitTypeAdjustment }

func (EqualSplit) splitRequest()      {}
func (PercentageSplit) splitRequest() {}
func (ExactSplit) splitRequest()      {}
func (SharesSplit) splitRequest()     {}
func (AdjustmentSplit) splitRequest() {}

// GenerateSplits turns an expense total and a split request into per-participant
// splits. Amounts are in currency units with two decimals.
//
// EQUAL, SHARES and ADJUSTMENT splits always sum exactly to total.
// EXACT splits are rejected unless they sum to total within one cent.
// PERCENTAGE splits are computed as percentage/100*total without correcting
// the rounding drift; callers check the result with ValidateSplits.
func GenerateSplits(total float64, req SplitRequest) ([]models.Split, error) {
	if req == nil {
		return nil, invalid("", ErrNoParticipants)
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return nil, invalid(req.Type(), ErrNonPositiveTotal)
	}

	switch r := req.(type) {
	case EqualSplit:
		return equalSplits(r.Type(), total, r.Participants, nil)
	case SharesSplit:
		ids, values := shareEntries(r.Entries)
		return equalSplits(r.Type(), total, ids, values)
	case AdjustmentSplit:
		ids, values := shareEntries(r.Entries)
		return equalSplits(r.Type(), total, ids, values)
	case PercentageSplit:
		return percentageSplits(total, r.Entries)
	case ExactSplit:
		return exactSplits(total, r.Entries)
	default:
		return nil, fmt.Errorf("unsupported split request %T", req)
	}
}

func shareEntries(entries []ShareEntry) ([]string, []float64) {
	ids := make([]string, len(entries))
	values := make([]float64, len(entries))
	for i, e := range entries {
		ids[i] = e.UserID
		values[i] = e.Value
	}
	return ids, values
}

// checkParticipants rejects empty lists, blank IDs and duplicates.
func checkParticipants(t models.SplitType, ids []string) error {
	if len(ids) == 0 {
		return invalid(t, ErrNoParticipants)
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return invalid(t, ErrEmptyParticipant)
		}
		if seen[id] {
			return invalid(t, fmt.Errorf("%w: %s", ErrDuplicateParticipant, id))
		}
		seen[id] = true
	}
	return nil
}

// equalSplits rounds each share down to the cent and hands the leftover cents
// to the first participants. values, when set, are recorded as Shares.
func equalSplits(t models.SplitType, total float64, ids []string, values []float64) ([]models.Split, error) {
	if err := checkParticipants(t, ids); err != nil {
		return nil, err
	}

	amount := decimal.NewFromFloat(total)
	count := decimal.NewFromInt(int64(len(ids)))

	base := amount.Div(count).Mul(hundred).Floor().Div(hundred)
	remainderCents := amount.Sub(base.Mul(count)).Mul(hundred).Round(0).IntPart()

	splits := make([]models.Split, len(ids))
	for i, id := range ids {
		share := base
		if int64(i) < remainderCents {
			share = share.Add(cent)
		}
		splits[i] = models.Split{UserID: id, Amount: share.InexactFloat64()}
		if values != nil {
			v := values[i]
			splits[i].Shares = &v
		}
	}
	return splits, nil
}

func percentageSplits(total float64, entries []PercentageEntry) ([]models.Split, error) {
	t := models.SplitTypePercentage
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.UserID
	}
	if err := checkParticipants(t, ids); err != nil {
		return nil, err
	}

	sum := decimal.Zero
	for _, e := range entries {
		if math.IsNaN(e.Percentage) || e.Percentage < 0 || e.Percentage > 100 {
			return nil, invalid(t, ErrPercentageOutOfRange)
		}
		sum = sum.Add(decimal.NewFromFloat(e.Percentage))
	}
	if sum.Sub(hundred).Abs().GreaterThan(percentageTolerance) {
		return nil, invalid(t, fmt.Errorf("%w: got %s", ErrPercentagesNotHundred, sum.String()))
	}

	amount := decimal.NewFromFloat(total)
	splits := make([]models.Split, len(entries))
	for i, e := range entries {
		pct := e.Percentage
		share := decimal.NewFromFloat(pct).Div(hundred).Mul(amount)
		splits[i] = models.Split{UserID: e.UserID, Amount: share.InexactFloat64(), Percentage: &pct}
	}
	return splits, nil
}

func exactSplits(total float64, entries []ExactEntry) ([]models.Split, error) {
	t := models.SplitTypeExact
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.UserID
	}
	if err := checkParticipants(t, ids); err != nil {
		return nil, err
	}

	sum := decimal.Zero
	splits := make([]models.Split, len(entries))
	for i, e := range entries {
		if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount < 0 {
			return nil, invalid(t, ErrNegativeAmount)
		}
		sum = sum.Add(decimal.NewFromFloat(e.Amount))
		splits[i] = models.Split{UserID: e.UserID, Amount: e.Amount}
	}
	if sum.Sub(decimal.NewFromFloat(total)).Abs().GreaterThan(cent) {
		return nil, invalid(t, fmt.Errorf("%w: got %s, want %v", ErrExactSumMismatch, sum.String(), total))
	}
	return splits, nil
}

// ValidateSplits checks an already resolved split list against its expense
// total: no blank or duplicate participants, no negative amounts, and a sum
// within one cent of total.
func ValidateSplits(t models.SplitType, total float64, splits []models.Split) error {
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return invalid(t, ErrNonPositiveTotal)
	}
	ids := make([]string, len(splits))
	for i, s := range splits {
		ids[i] = s.UserID
	}
	if err := checkParticipants(t, ids); err != nil {
		return err
	}

	sum := decimal.Zero
	for _, s := range splits {
		if math.IsNaN(s.Amount) || math.IsInf(s.Amount, 0) || s.Amount < 0 {
			return invalid(t, ErrNegativeAmount)
		}
		sum = sum.Add(decimal.NewFromFloat(s.Amount))
	}
	if sum.Sub(decimal.NewFromFloat(total)).Abs().GreaterThan(cent) {
		return invalid(t, fmt.Errorf("%w: got %s, want %v", ErrSplitSumMismatch, sum.String(), total))
	}
	return nil
}
