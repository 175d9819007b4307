package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wiselyspent/backend/internal/models"
	"github.com/wiselyspent/backend/internal/storage"
)

// snapshot is the read-only view of everything one user takes part in.
// Balances are computed over it without further store access.
type snapshot struct {
	groups   []models.Group
	expenses []models.Expense
	payments []models.Payment
}

// loadSnapshot fetches the user's groups, expenses and payments concurrently.
func loadSnapshot(ctx context.Context, store storage.Store, userID string) (*snapshot, error) {
	var (
		groups   []*models.Group
		expenses []*models.Expense
		payments []*models.Payment
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = store.ListGroupsForUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("load groups: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = store.ListExpensesForUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("load expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		payments, err = store.ListPaymentsForUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("load payments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &snapshot{
		groups:   deref(groups),
		expenses: deref(expenses),
		payments: deref(payments),
	}, nil
}

// loadGroupActivity fetches every expense and payment tagged with groupID.
func loadGroupActivity(ctx context.Context, store storage.Store, groupID string) ([]models.Expense, []models.Payment, error) {
	var (
		expenses []*models.Expense
		payments []*models.Payment
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = store.ListExpensesByGroup(ctx, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = store.ListPaymentsByGroup(ctx, groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load group activity: %w", err)
	}
	return deref(expenses), deref(payments), nil
}

func deref[T any](ptrs []*T) []T {
	out := make([]T, len(ptrs))
	for i, p := range ptrs {
		out[i] = *p
	}
	return out
}
