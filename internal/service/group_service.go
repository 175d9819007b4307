package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/wiselyspent/backend/internal/calculator"
	"github.com/wiselyspent/backend/internal/models"
	"github.com/wiselyspent/backend/internal/rpc"
	"github.com/wiselyspent/backend/internal/storage"
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store storage.Store
}

var _ rpc.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group. The caller becomes its creator and first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIDs),
		"user_id", userID,
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}

	group := &models.Group{
		Name:      name,
		Members:   append([]string{userID}, req.Msg.MemberIDs...),
		CreatedBy: userID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return connect.NewResponse(&rpc.CreateGroupResponse{Group: toGroup(group)}), nil
}

// memberGroup loads a group and checks that userID belongs to it.
func (s *GroupService) memberGroup(ctx context.Context, groupID, userID string) (*models.Group, error) {
	if groupID == "" {
		return nil, invalidArgument("group_id required")
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, errNotMember
	}
	return group, nil
}

// GetGroup retrieves a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[rpc.GetGroupRequest]) (*connect.Response[rpc.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.memberGroup(ctx, req.Msg.GroupID, userID)
	if err != nil {
		slog.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rpc.GetGroupResponse{Group: toGroup(group)}), nil
}

// ListGroups retrieves every group the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[rpc.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*rpc.Group, len(groups))
	for i, g := range groups {
		out[i] = toGroup(g)
	}

	slog.Info("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&rpc.ListGroupsResponse{Groups: out}), nil
}

// AddMembers adds users to a group the caller belongs to.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[rpc.AddMembersRequest]) (*connect.Response[rpc.AddMembersResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddMembers request received", "group_id", req.Msg.GroupID, "members_count", len(req.Msg.MemberIDs))

	if len(req.Msg.MemberIDs) == 0 {
		return nil, invalidArgument("member_ids required")
	}
	if _, err := s.memberGroup(ctx, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.AddGroupMembers(ctx, req.Msg.GroupID, req.Msg.MemberIDs); err != nil {
		slog.Error("AddMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Group members added", "group_id", group.ID, "members_count", len(group.Members))
	return connect.NewResponse(&rpc.AddMembersResponse{Group: toGroup(group)}), nil
}

// DeleteGroup removes a group. Only its creator may delete it, and only once
// every member's balance within the group is settled. Expenses and payments
// tagged with the group are kept.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[rpc.DeleteGroupRequest]) (*connect.Response[emptypb.Empty], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.memberGroup(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if group.CreatedBy != userID {
		return nil, toConnectError(errNotCreator)
	}

	expenses, payments, err := loadGroupActivity(ctx, s.store, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	balances, _ := calculator.GroupBalances(group.Members, expenses, payments)
	for _, b := range balances {
		if !calculator.IsSettled(b.NetBalance) {
			slog.Warn("DeleteGroup refused", "group_id", group.ID, "user_id", b.UserID, "balance", b.NetBalance)
			return nil, toConnectError(errUnsettledGroup)
		}
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", group.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// GetGroupBalances reports every member's net position within the group and
// a simplified set of payments that would settle it.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[rpc.GetGroupBalancesRequest]) (*connect.Response[rpc.GetGroupBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	group, err := s.memberGroup(ctx, groupID, userID)
	if err != nil {
		slog.Warn("GetGroupBalances failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	expenses, payments, err := loadGroupActivity(ctx, s.store, group.ID)
	if err != nil {
		slog.Error("GetGroupBalances failed - could not load activity", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	memberBalances, debtEdges := calculator.GroupBalances(group.Members, expenses, payments)

	ids := make([]string, len(memberBalances))
	for i, b := range memberBalances {
		ids[i] = b.UserID
	}
	names := displayNames(ctx, s.store, ids)

	pbBalances := make([]rpc.MemberBalance, len(memberBalances))
	for i, bal := range memberBalances {
		pbBalances[i] = rpc.MemberBalance{
			UserID:     bal.UserID,
			Name:       names[bal.UserID],
			NetBalance: calculator.RoundCents(bal.NetBalance),
			TotalPaid:  calculator.RoundCents(bal.TotalPaid),
			TotalOwed:  calculator.RoundCents(bal.TotalOwed),
		}
	}

	pbDebts := make([]rpc.DebtEdge, len(debtEdges))
	for i, debt := range debtEdges {
		pbDebts[i] = rpc.DebtEdge{
			From:   debt.From,
			To:     debt.To,
			Amount: debt.Amount,
		}
	}

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"members_count", len(memberBalances),
		"debts_count", len(debtEdges),
	)

	return connect.NewResponse(&rpc.GetGroupBalancesResponse{
		MemberBalances: pbBalances,
		DebtMatrix:     pbDebts,
	}), nil
}
