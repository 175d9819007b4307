package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/wiselyspent/backend/internal/calculator"
	"github.com/wiselyspent/backend/internal/rpc"
	"github.com/wiselyspent/backend/internal/storage"
)

// BalanceService answers "who owes whom" questions from the caller's
// perspective. Positive amounts mean the other user owes the caller.
type BalanceService struct {
	store storage.Store
}

var _ rpc.BalanceServiceHandler = (*BalanceService)(nil)

func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// GetBalance returns the balance with one friend: outside any group, within
// each group they share, and in total. The total also covers groups that are
// no longer shared.
func (s *BalanceService) GetBalance(ctx context.Context, req *connect.Request[rpc.GetBalanceRequest]) (*connect.Response[rpc.GetBalanceResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	friendID := req.Msg.FriendID
	if friendID == "" {
		return nil, invalidArgument("friend_id required")
	}
	if friendID == userID {
		return nil, toConnectError(errSelf)
	}

	snap, err := loadSnapshot(ctx, s.store, userID)
	if err != nil {
		slog.Error("GetBalance failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	groupNames := make(map[string]string, len(snap.groups))
	for _, g := range snap.groups {
		groupNames[g.ID] = g.Name
	}

	resp := &rpc.GetBalanceResponse{FriendID: friendID}
	for _, cb := range calculator.ContextBalances(userID, friendID, snap.groups, snap.expenses, snap.payments) {
		if cb.Scope.IsPersonal() {
			resp.Direct = calculator.RoundCents(cb.Amount)
			continue
		}
		resp.Groups = append(resp.Groups, rpc.GroupBalance{
			GroupID:   cb.Scope.GroupID(),
			GroupName: groupNames[cb.Scope.GroupID()],
			Amount:    calculator.RoundCents(cb.Amount),
		})
	}
	resp.Total = calculator.RoundCents(calculator.BalanceBetween(userID, friendID, snap.expenses, snap.payments))

	slog.Info("GetBalance successful", "user_id", userID, "friend_id", friendID, "total", resp.Total)
	return connect.NewResponse(resp), nil
}

// GetNetBalance returns the caller's overall position, split into what others
// owe them and what they owe others.
func (s *BalanceService) GetNetBalance(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[rpc.GetNetBalanceResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(ctx, s.store, userID)
	if err != nil {
		slog.Error("GetNetBalance failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	var owedToMe, iOwe float64
	for _, other := range calculator.Counterparties(userID, snap.expenses, snap.payments) {
		b := calculator.BalanceBetween(userID, other, snap.expenses, snap.payments)
		if b > 0 {
			owedToMe += b
		} else {
			iOwe -= b
		}
	}

	return connect.NewResponse(&rpc.GetNetBalanceResponse{
		NetBalance: calculator.RoundCents(calculator.NetBalanceOf(userID, snap.expenses, snap.payments)),
		OwedToMe:   calculator.RoundCents(owedToMe),
		IOwe:       calculator.RoundCents(iOwe),
	}), nil
}

// ListFriendBalances lists every user the caller has an unsettled balance with.
func (s *BalanceService) ListFriendBalances(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[rpc.ListFriendBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(ctx, s.store, userID)
	if err != nil {
		slog.Error("ListFriendBalances failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	var friends []rpc.FriendBalance
	for _, other := range calculator.Counterparties(userID, snap.expenses, snap.payments) {
		b := calculator.BalanceBetween(userID, other, snap.expenses, snap.payments)
		if calculator.IsSettled(b) {
			continue
		}
		friends = append(friends, rpc.FriendBalance{UserID: other, Amount: calculator.RoundCents(b)})
	}

	ids := make([]string, len(friends))
	for i, f := range friends {
		ids[i] = f.UserID
	}
	names := displayNames(ctx, s.store, ids)
	for i := range friends {
		friends[i].Name = names[friends[i].UserID]
	}

	slog.Info("ListFriendBalances successful", "user_id", userID, "count", len(friends))
	return connect.NewResponse(&rpc.ListFriendBalancesResponse{Friends: friends}), nil
}
