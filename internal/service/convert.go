package service

import (
	"context"
	"log/slog"

	"github.com/wiselyspent/backend/internal/models"
	"github.com/wiselyspent/backend/internal/rpc"
	"github.com/wiselyspent/backend/internal/storage"
)

// toUser converts a user for the wire. Emails are only exposed when
// includeEmail is set.
func toUser(u *models.User, includeEmail bool) *rpc.User {
	out := &rpc.User{
		ID:        u.ID,
		CustomID:  u.CustomID,
		Name:      u.DisplayName(),
		CreatedAt: u.CreatedAt,
	}
	if includeEmail {
		out.Email = u.Email
	}
	return out
}

func toGroup(g *models.Group) *rpc.Group {
	return &rpc.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   g.Members,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
}

func toExpense(e *models.Expense) *rpc.Expense {
	splits := make([]rpc.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = rpc.Split{
			UserID:     s.UserID,
			Amount:     s.Amount,
			Percentage: s.Percentage,
			Shares:     s.Shares,
		}
	}
	return &rpc.Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		GroupID:     e.GroupID,
		Date:        e.Date,
		SplitType:   string(e.SplitType),
		Splits:      splits,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func toPayment(p *models.Payment) *rpc.Payment {
	return &rpc.Payment{
		ID:        p.ID,
		PayerID:   p.PayerID,
		PayeeID:   p.PayeeID,
		Amount:    p.Amount,
		GroupID:   p.GroupID,
		Date:      p.Date,
		Notes:     p.Notes,
		CreatedBy: p.CreatedBy,
	}
}

func toPayments(payments []*models.Payment) []*rpc.Payment {
	out := make([]*rpc.Payment, len(payments))
	for i, p := range payments {
		out[i] = toPayment(p)
	}
	return out
}

// displayNames resolves user IDs to display names. IDs without an account
// map to themselves; lookup failures are logged and fall back the same way.
func displayNames(ctx context.Context, store storage.Store, ids []string) map[string]string {
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		names[id] = id
	}
	users, err := store.GetUsersByIDs(ctx, ids)
	if err != nil {
		slog.Warn("Failed to resolve user names", "count", len(ids), "error", err)
		return names
	}
	for id, u := range users {
		names[id] = u.DisplayName()
	}
	return names
}
