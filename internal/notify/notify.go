// Package notify delivers payment reminders to the people who owe money.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Reminder asks Debtor to pay Creditor the given amount.
type Reminder struct {
	ID           string    `json:"id"`
	CreditorID   string    `json:"creditorId"`
	CreditorName string    `json:"creditorName"`
	DebtorID     string    `json:"debtorId"`
	DebtorName   string    `json:"debtorName"`
	DebtorEmail  string    `json:"debtorEmail,omitempty"`
	Amount       float64   `json:"amount"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewReminder creates a reminder with a fresh ID and the current time.
func NewReminder(creditorID, creditorName, debtorID, debtorName, debtorEmail string, amount float64) *Reminder {
	return &Reminder{
		ID:           uuid.NewString(),
		CreditorID:   creditorID,
		CreditorName: creditorName,
		DebtorID:     debtorID,
		DebtorName:   debtorName,
		DebtorEmail:  debtorEmail,
		Amount:       amount,
		Timestamp:    time.Now().UTC(),
	}
}

// ToJSON converts the reminder to JSON bytes.
func (r *Reminder) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// ReminderFromJSON decodes a reminder published by a Notifier.
func ReminderFromJSON(data []byte) (*Reminder, error) {
	var r Reminder
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Notifier hands reminders to a delivery channel.
type Notifier interface {
	SendReminder(ctx context.Context, r *Reminder) error
	Close() error
}

// LogNotifier writes reminders to the structured log. It is used when no
// message broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a LogNotifier writing to logger, or to the default
// logger when logger is nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendReminder(ctx context.Context, r *Reminder) error {
	n.logger.InfoContext(ctx, "Payment reminder",
		"reminder_id", r.ID,
		"creditor_id", r.CreditorID,
		"debtor_id", r.DebtorID,
		"amount", r.Amount,
	)
	return nil
}

func (n *LogNotifier) Close() error { return nil }
