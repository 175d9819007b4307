package service

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/wiselyspent/backend/internal/calculator"
	"github.com/wiselyspent/backend/internal/models"
	"github.com/wiselyspent/backend/internal/notify"
	"github.com/wiselyspent/backend/internal/rpc"
	"github.com/wiselyspent/backend/internal/storage"
)

// SettlementObserver records settle-up activity, typically as metrics.
type SettlementObserver interface {
	ObserveSettlement(payments int, total float64)
	ObserveReminder()
}

type noopObserver struct{}

func (noopObserver) ObserveSettlement(int, float64) {}
func (noopObserver) ObserveReminder()               {}

// SettlementService plans and records payments between users.
type SettlementService struct {
	store    storage.Store
	notifier notify.Notifier
	observer SettlementObserver
	now      func() time.Time
}

var _ rpc.SettlementServiceHandler = (*SettlementService)(nil)

// NewSettlementService creates a SettlementService. A nil notifier logs
// reminders and a nil observer discards observations.
func NewSettlementService(store storage.Store, notifier notify.Notifier, observer SettlementObserver) *SettlementService {
	if notifier == nil {
		notifier = notify.NewLogNotifier(nil)
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &SettlementService{
		store:    store,
		notifier: notifier,
		observer: observer,
		now:      time.Now,
	}
}

func (s *SettlementService) plan(ctx context.Context, userID, targetID string) (calculator.SettlementPlan, error) {
	if targetID == "" {
		return calculator.SettlementPlan{}, invalidArgument("target_id required")
	}
	if targetID == userID {
		return calculator.SettlementPlan{}, errSelf
	}
	snap, err := loadSnapshot(ctx, s.store, userID)
	if err != nil {
		return calculator.SettlementPlan{}, err
	}
	return calculator.PlanSettlement(userID, targetID, snap.groups, snap.expenses, snap.payments), nil
}

// PlanSettlement previews the payments Settle would record. Nothing is stored.
func (s *SettlementService) PlanSettlement(ctx context.Context, req *connect.Request[rpc.PlanSettlementRequest]) (*connect.Response[rpc.PlanSettlementResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := s.plan(ctx, userID, req.Msg.TargetID)
	if err != nil {
		return nil, toConnectError(err)
	}

	payments := make([]*rpc.Payment, len(plan.Payments))
	for i := range plan.Payments {
		payments[i] = toPayment(&plan.Payments[i])
	}
	slog.Info("PlanSettlement successful", "user_id", userID, "target_id", req.Msg.TargetID, "payments", len(payments), "total", plan.Total)
	return connect.NewResponse(&rpc.PlanSettlementResponse{Payments: payments, Total: plan.Total}), nil
}

// Settle records every payment needed to clear what the caller owes the
// target, as one atomic batch.
func (s *SettlementService) Settle(ctx context.Context, req *connect.Request[rpc.SettleRequest]) (*connect.Response[rpc.SettleResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Settle request received", "user_id", userID, "target_id", req.Msg.TargetID)

	plan, err := s.plan(ctx, userID, req.Msg.TargetID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if plan.Empty() {
		return nil, toConnectError(errNothingToSettle)
	}

	now := s.now().Unix()
	notes := strings.TrimSpace(req.Msg.Notes)
	batch := make([]*models.Payment, len(plan.Payments))
	for i := range plan.Payments {
		p := plan.Payments[i]
		p.Date = now
		p.Notes = notes
		p.CreatedBy = userID
		batch[i] = &p
	}

	if err := s.store.SubmitPayments(ctx, batch); err != nil {
		slog.Error("Settle failed", "user_id", userID, "target_id", req.Msg.TargetID, "error", err)
		return nil, toConnectError(err)
	}
	s.observer.ObserveSettlement(len(batch), plan.Total)

	slog.Info("Settled up", "user_id", userID, "target_id", req.Msg.TargetID, "payments", len(batch), "total", plan.Total)
	return connect.NewResponse(&rpc.SettleResponse{Payments: toPayments(batch), Total: plan.Total}), nil
}

// RecordPayment records a manual payment from the caller to the payee.
func (s *SettlementService) RecordPayment(ctx context.Context, req *connect.Request[rpc.RecordPaymentRequest]) (*connect.Response[rpc.RecordPaymentResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("RecordPayment request received", "user_id", userID, "payee_id", msg.PayeeID, "amount", msg.Amount)

	if msg.PayeeID == "" {
		return nil, invalidArgument("payee_id required")
	}
	if msg.PayeeID == userID {
		return nil, toConnectError(errSelf)
	}
	if math.IsNaN(msg.Amount) || math.IsInf(msg.Amount, 0) || msg.Amount < calculator.SettledThreshold {
		return nil, invalidArgument("amount must be at least 0.01")
	}

	if msg.GroupID != "" {
		group, err := s.store.GetGroup(ctx, msg.GroupID)
		if err != nil {
			return nil, toConnectError(err)
		}
		if !group.HasMember(userID) || !group.HasMember(msg.PayeeID) {
			return nil, toConnectError(errNotMember)
		}
	}

	payment := &models.Payment{
		PayerID:   userID,
		PayeeID:   msg.PayeeID,
		Amount:    calculator.RoundCents(msg.Amount),
		GroupID:   msg.GroupID,
		Date:      msg.Date,
		Notes:     strings.TrimSpace(msg.Notes),
		CreatedBy: userID,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("RecordPayment failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Payment recorded", "payment_id", payment.ID)
	return connect.NewResponse(&rpc.RecordPaymentResponse{Payment: toPayment(payment)}), nil
}

// ListPayments lists the payments of one group, or every payment the caller
// made or received.
func (s *SettlementService) ListPayments(ctx context.Context, req *connect.Request[rpc.ListPaymentsRequest]) (*connect.Response[rpc.ListPaymentsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var payments []*models.Payment
	if req.Msg.GroupID != "" {
		group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
		if err != nil {
			return nil, toConnectError(err)
		}
		if !group.HasMember(userID) {
			return nil, toConnectError(errNotMember)
		}
		payments, err = s.store.ListPaymentsByGroup(ctx, req.Msg.GroupID)
		if err != nil {
			return nil, toConnectError(err)
		}
	} else {
		payments, err = s.store.ListPaymentsForUser(ctx, userID)
		if err != nil {
			return nil, toConnectError(err)
		}
	}

	return connect.NewResponse(&rpc.ListPaymentsResponse{Payments: toPayments(payments)}), nil
}

// DeletePayment removes a payment the caller made or recorded.
func (s *SettlementService) DeletePayment(ctx context.Context, req *connect.Request[rpc.DeletePaymentRequest]) (*connect.Response[emptypb.Empty], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	payment, err := s.store.GetPayment(ctx, req.Msg.PaymentID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if payment.PayerID != userID && payment.CreatedBy != userID {
		return nil, toConnectError(errNotInvolved)
	}
	if err := s.store.DeletePayment(ctx, payment.ID); err != nil {
		slog.Error("DeletePayment failed", "payment_id", payment.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Payment deleted", "payment_id", payment.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// Remind asks the target to pay what they owe the caller, summed over the
// personal context and every shared group.
func (s *SettlementService) Remind(ctx context.Context, req *connect.Request[rpc.RemindRequest]) (*connect.Response[rpc.RemindResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	targetID := req.Msg.TargetID
	if targetID == "" {
		return nil, invalidArgument("target_id required")
	}
	if targetID == userID {
		return nil, toConnectError(errSelf)
	}

	snap, err := loadSnapshot(ctx, s.store, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	var owed float64
	for _, cb := range calculator.ContextBalances(userID, targetID, snap.groups, snap.expenses, snap.payments) {
		owed += cb.Amount
	}
	owed = calculator.RoundCents(owed)
	if owed < calculator.SettledThreshold {
		return nil, toConnectError(errNothingOwed)
	}

	users, err := s.store.GetUsersByIDs(ctx, []string{userID, targetID})
	if err != nil {
		return nil, toConnectError(err)
	}
	creditorName, debtorName, debtorEmail := userID, targetID, ""
	if u := users[userID]; u != nil {
		creditorName = u.DisplayName()
	}
	if u := users[targetID]; u != nil {
		debtorName = u.DisplayName()
		debtorEmail = u.Email
	}

	reminder := notify.NewReminder(userID, creditorName, targetID, debtorName, debtorEmail, owed)
	if err := s.notifier.SendReminder(ctx, reminder); err != nil {
		slog.Error("Remind failed", "user_id", userID, "target_id", targetID, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	s.observer.ObserveReminder()

	slog.Info("Reminder sent", "reminder_id", reminder.ID, "target_id", targetID, "amount", owed)
	return connect.NewResponse(&rpc.RemindResponse{Amount: owed}), nil
}
