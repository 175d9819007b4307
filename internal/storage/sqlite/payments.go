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

const paymentColumns = `id, payer_id, payee_id, amount, group_id, date, notes, created_by`

// CreatePayment persists a new payment to the database.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return insertPayment(ctx, s.db, payment)
}

// SubmitPayments persists a batch of payments in a single transaction.
// If any insert fails, none of the payments are stored.
func (s *SQLiteStore) SubmitPayments(ctx context.Context, payments []*models.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range payments {
		if err := insertPayment(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertPayment(ctx context.Context, q queryer, payment *models.Payment) error {
	// Generate ID if not set
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if payment.Date == 0 {
		payment.Date = now
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.PayerID, payment.PayeeID, payment.Amount,
		nullString(payment.GroupID), payment.Date, nullString(payment.Notes),
		payment.CreatedBy, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`,
		paymentID,
	)
	payment, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("payment", paymentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListPaymentsForUser retrieves every payment the user made or received.
func (s *SQLiteStore) ListPaymentsForUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE payer_id = ? OR payee_id = ?
		 ORDER BY date, created_at, id`,
		userID, userID,
	)
}

// ListPaymentsByGroup retrieves all payments for a group.
func (s *SQLiteStore) ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE group_id = ? ORDER BY date, created_at, id`,
		groupID,
	)
}

func (s *SQLiteStore) listPayments(ctx context.Context, query string, args ...any) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// DeletePayment removes a payment by ID.
func (s *SQLiteStore) DeletePayment(ctx context.Context, paymentID string) error {
	return s.deleteByID(ctx, "payments", "payment", paymentID)
}

func scanPayment(row scanner) (*models.Payment, error) {
	payment := &models.Payment{}
	var groupID, notes sql.NullString
	if err := row.Scan(
		&payment.ID, &payment.PayerID, &payment.PayeeID, &payment.Amount,
		&groupID, &payment.Date, &notes, &payment.CreatedBy,
	); err != nil {
		return nil, err
	}
	payment.GroupID = groupID.String
	payment.Notes = notes.String
	return payment, nil
}
