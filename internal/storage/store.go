// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/wiselyspent/backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// PaymentSubmitter persists a batch of payments as one unit: either all of
// them are stored or none are.
type PaymentSubmitter interface {
	SubmitPayments(ctx context.Context, payments []*models.Payment) error
}

// Store defines the interface for storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	PaymentSubmitter

	// CreateUser persists a new user. The ID is generated if empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID, GetUserByEmail and GetUserByCustomID return ErrNotFound
	// (wrapped) when no user matches.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByCustomID(ctx context.Context, customID string) (*models.User, error)

	// GetUsersByIDs returns a map of user ID to user.
	// Users that don't exist are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateGroup persists a new group and its members.
	// The group.ID and CreatedAt fields will be populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	// ListGroupsForUser returns the groups userID is a member of, oldest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)
	// AddGroupMembers adds members, ignoring IDs already in the group.
	AddGroupMembers(ctx context.Context, groupID string, members []string) error
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateExpense persists a new expense with its splits.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// ListExpensesForUser returns every expense userID paid for or has a split in.
	ListExpensesForUser(ctx context.Context, userID string) ([]*models.Expense, error)
	// ListExpensesByGroup returns every expense tagged with groupID.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreatePayment persists a single payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	// ListPaymentsForUser returns every payment userID made or received.
	ListPaymentsForUser(ctx context.Context, userID string) ([]*models.Payment, error)
	// ListPaymentsByGroup returns every payment tagged with groupID.
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) error

	// Close releases any resources held by the store.
	Close() error
}
