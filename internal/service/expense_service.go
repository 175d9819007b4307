package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/wiselyspent/backend/internal/calculator"
	"github.com/wiselyspent/backend/internal/models"
	"github.com/wiselyspent/backend/internal/rpc"
	"github.com/wiselyspent/backend/internal/storage"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store storage.Store
}

var _ rpc.ExpenseServiceHandler = (*ExpenseService)(nil)

func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// CreateExpense divides the amount with the requested split and records the
// expense. Personal expenses must involve the caller; group expenses require
// the caller, the payer and every participant to be group members.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[rpc.CreateExpenseRequest]) (*connect.Response[rpc.CreateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("CreateExpense request received",
		"amount", msg.Amount,
		"split_type", msg.Split.Type,
		"group_id", msg.GroupID,
		"user_id", userID,
	)

	description := strings.TrimSpace(msg.Description)
	if description == "" {
		return nil, invalidArgument("description is required")
	}
	paidBy := msg.PaidBy
	if paidBy == "" {
		paidBy = userID
	}

	splitReq, err := splitRequest(msg.Split)
	if err != nil {
		return nil, err
	}
	splits, err := calculator.GenerateSplits(msg.Amount, splitReq)
	if err != nil {
		slog.Warn("CreateExpense rejected", "error", err)
		return nil, toConnectError(err)
	}
	// PERCENTAGE splits may drift from the total; reject anything beyond a cent.
	if err := calculator.ValidateSplits(splitReq.Type(), msg.Amount, splits); err != nil {
		slog.Warn("CreateExpense rejected", "error", err)
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		Description: description,
		Amount:      msg.Amount,
		PaidBy:      paidBy,
		GroupID:     msg.GroupID,
		Date:        msg.Date,
		SplitType:   splitReq.Type(),
		Splits:      splits,
		CreatedBy:   userID,
	}
	if err := s.checkParties(ctx, userID, expense); err != nil {
		slog.Warn("CreateExpense rejected", "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "splits_count", len(expense.Splits))
	return connect.NewResponse(&rpc.CreateExpenseResponse{Expense: toExpense(expense)}), nil
}

func (s *ExpenseService) checkParties(ctx context.Context, userID string, e *models.Expense) error {
	if e.GroupID == "" {
		if !e.Involves(userID) {
			return errNotInvolved
		}
		return nil
	}

	group, err := s.store.GetGroup(ctx, e.GroupID)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return errNotMember
	}
	if !group.HasMember(e.PaidBy) {
		return invalidArgument(fmt.Sprintf("payer %s is not a group member", e.PaidBy))
	}
	for _, split := range e.Splits {
		if !group.HasMember(split.UserID) {
			return invalidArgument(fmt.Sprintf("participant %s is not a group member", split.UserID))
		}
	}
	return nil
}

// splitRequest converts the wire split description into a calculator request.
func splitRequest(spec rpc.SplitSpec) (calculator.SplitRequest, error) {
	t, err := models.ParseSplitType(strings.ToUpper(strings.TrimSpace(spec.Type)))
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	switch t {
	case models.SplitTypeEqual:
		return calculator.EqualSplit{Participants: spec.ParticipantIDs}, nil
	case models.SplitTypePercentage:
		entries := make([]calculator.PercentageEntry, len(spec.Entries))
		for i, e := range spec.Entries {
			entries[i] = calculator.PercentageEntry{UserID: e.UserID, Percentage: e.Value}
		}
		return calculator.PercentageSplit{Entries: entries}, nil
	case models.SplitTypeExact:
		entries := make([]calculator.ExactEntry, len(spec.Entries))
		for i, e := range spec.Entries {
			entries[i] = calculator.ExactEntry{UserID: e.UserID, Amount: e.Value}
		}
		return calculator.ExactSplit{Entries: entries}, nil
	case models.SplitTypeShares:
		return calculator.SharesSplit{Entries: shareEntries(spec.Entries)}, nil
	default:
		return calculator.AdjustmentSplit{Entries: shareEntries(spec.Entries)}, nil
	}
}

func shareEntries(in []rpc.SplitEntry) []calculator.ShareEntry {
	out := make([]calculator.ShareEntry, len(in))
	for i, e := range in {
		out[i] = calculator.ShareEntry{UserID: e.UserID, Value: e.Value}
	}
	return out
}

// canView reports whether userID may read e: they take part in it, or it
// belongs to a group they are a member of.
func (s *ExpenseService) canView(ctx context.Context, userID string, e *models.Expense) (bool, error) {
	if e.Involves(userID) || e.CreatedBy == userID {
		return true, nil
	}
	if e.GroupID == "" {
		return false, nil
	}
	group, err := s.store.GetGroup(ctx, e.GroupID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return group.HasMember(userID), nil
}

// GetExpense retrieves an expense visible to the caller.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[rpc.GetExpenseRequest]) (*connect.Response[rpc.GetExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Warn("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	ok, err := s.canView(ctx, userID, expense)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !ok {
		return nil, toConnectError(errNotInvolved)
	}
	return connect.NewResponse(&rpc.GetExpenseResponse{Expense: toExpense(expense)}), nil
}

// ListExpenses lists the expenses of one group, the caller's personal
// expenses, or everything the caller takes part in.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[rpc.ListExpensesRequest]) (*connect.Response[rpc.ListExpensesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	if msg.GroupID != "" && msg.PersonalOnly {
		return nil, invalidArgument("group_id and personal_only are mutually exclusive")
	}

	var expenses []*models.Expense
	if msg.GroupID != "" {
		group, err := s.store.GetGroup(ctx, msg.GroupID)
		if err != nil {
			return nil, toConnectError(err)
		}
		if !group.HasMember(userID) {
			return nil, toConnectError(errNotMember)
		}
		expenses, err = s.store.ListExpensesByGroup(ctx, msg.GroupID)
		if err != nil {
			return nil, toConnectError(err)
		}
	} else {
		all, err := s.store.ListExpensesForUser(ctx, userID)
		if err != nil {
			return nil, toConnectError(err)
		}
		scope := calculator.AllScope()
		if msg.PersonalOnly {
			scope = calculator.PersonalScope()
		}
		for _, e := range all {
			if scope.Matches(e.GroupID) {
				expenses = append(expenses, e)
			}
		}
	}

	out := make([]*rpc.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toExpense(e)
	}
	slog.Info("ListExpenses successful", "user_id", userID, "group_id", msg.GroupID, "count", len(out))
	return connect.NewResponse(&rpc.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense. Only the payer or the user who recorded
// it may delete it.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[rpc.DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if expense.PaidBy != userID && expense.CreatedBy != userID {
		return nil, toConnectError(errNotInvolved)
	}
	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", expense.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}
