package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/wiselyspent/backend/internal/models"
	"github.com/wiselyspent/backend/internal/rpc"
)

// snapshotFile uses the same JSON shapes as the RPC API, so responses from
// ListGroups, ListExpenses and ListPayments can be pasted in as they are.
type snapshotFile struct {
	Users    []rpc.User    `json:"users"`
	Groups   []rpc.Group   `json:"groups"`
	Expenses []rpc.Expense `json:"expenses"`
	Payments []rpc.Payment `json:"payments"`
}

type snapshot struct {
	names    map[string]string
	groups   []models.Group
	expenses []models.Expense
	payments []models.Payment
}

func loadSnapshot(path string) (*snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	s, err := readSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func readSnapshot(r io.Reader) (*snapshot, error) {
	var file snapshotFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s := &snapshot{
		names:    make(map[string]string, len(file.Users)),
		groups:   make([]models.Group, len(file.Groups)),
		expenses: make([]models.Expense, len(file.Expenses)),
		payments: make([]models.Payment, len(file.Payments)),
	}
	for _, u := range file.Users {
		if u.Name != "" {
			s.names[u.ID] = u.Name
		}
	}
	for i, g := range file.Groups {
		s.groups[i] = models.Group{
			ID:        g.ID,
			Name:      g.Name,
			Members:   g.Members,
			CreatedBy: g.CreatedBy,
			CreatedAt: g.CreatedAt,
		}
	}
	for i, e := range file.Expenses {
		splits := make([]models.Split, len(e.Splits))
		for j, sp := range e.Splits {
			splits[j] = models.Split{
				UserID:     sp.UserID,
				Amount:     sp.Amount,
				Percentage: sp.Percentage,
				Shares:     sp.Shares,
			}
		}
		s.expenses[i] = models.Expense{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount,
			PaidBy:      e.PaidBy,
			GroupID:     e.GroupID,
			Date:        e.Date,
			SplitType:   models.SplitType(e.SplitType),
			Splits:      splits,
			CreatedBy:   e.CreatedBy,
			CreatedAt:   e.CreatedAt,
		}
	}
	for i, p := range file.Payments {
		s.payments[i] = models.Payment{
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
	return s, nil
}

// name returns the display name for id, or id itself.
func (s *snapshot) name(id string) string {
	if n, ok := s.names[id]; ok {
		return n
	}
	return id
}
