package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wiselyspent/backend/internal/models"
)

const expenseColumns = `id, description, amount, paid_by, group_id, date, split_type, created_by, created_at`

// CreateExpense persists a new expense and its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount, expense.PaidBy,
		nullString(expense.GroupID), expense.Date, string(expense.SplitType),
		expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expense_splits (expense_id, user_id, position, amount, percentage, shares)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			expense.ID, split.UserID, i, split.Amount,
			nullFloat(split.Percentage), nullFloat(split.Shares),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`,
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadSplits(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesForUser retrieves every expense the user paid or has a split in.
func (s *SQLiteStore) ListExpensesForUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses e
		 WHERE e.paid_by = ?
		    OR EXISTS (SELECT 1 FROM expense_splits s WHERE s.expense_id = e.id AND s.user_id = ?)
		 ORDER BY e.date, e.created_at, e.id`,
		userID, userID,
	)
}

// ListExpensesByGroup retrieves all expenses tagged with the group.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE group_id = ? ORDER BY date, created_at, id`,
		groupID,
	)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.loadSplits(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// loadSplits fills Splits for every expense with a single query.
func (s *SQLiteStore) loadSplits(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	byID := make(map[string]*models.Expense, len(expenses))
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		ids[i] = e.ID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, user_id, amount, percentage, shares
		 FROM expense_splits
		 WHERE expense_id IN (`+placeholders(len(ids))+`)
		 ORDER BY expense_id, position`,
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var split models.Split
		var percentage, shares sql.NullFloat64
		if err := rows.Scan(&expenseID, &split.UserID, &split.Amount, &percentage, &shares); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		split.Percentage = floatPtr(percentage)
		split.Shares = floatPtr(shares)
		if e, ok := byID[expenseID]; ok {
			e.Splits = append(e.Splits, split)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense; its splits are removed by cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.deleteByID(ctx, "expenses", "expense", expenseID)
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var groupID sql.NullString
	var splitType string
	if err := row.Scan(
		&expense.ID, &expense.Description, &expense.Amount, &expense.PaidBy,
		&groupID, &expense.Date, &splitType, &expense.CreatedBy, &expense.CreatedAt,
	); err != nil {
		return nil, err
	}
	expense.GroupID = groupID.String
	expense.SplitType = models.SplitType(splitType)
	return expense, nil
}
