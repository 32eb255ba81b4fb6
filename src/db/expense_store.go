package db

import (
	"bytes"
	"encoding/json"
	"sync"

	"expense-backend/src/models"
)

// ExpenseStore keeps one running total per category, in the order categories were first seen.
// Contents live only as long as the process.
type ExpenseStore struct {
	mu       sync.RWMutex
	expenses []models.Expense
	index    map[string]int
}

func NewExpenseStore() *ExpenseStore {
	return &ExpenseStore{index: make(map[string]int)}
}

// Upsert adds amount to the category's total, creating the category at the end of the list
// if it is new. date is any JSON value and is stored unvalidated. On an existing category only
// a non-blank date (not null, "", false, 0, [] or {}) replaces the stored one.
// The returned bool reports whether the category was created.
func (s *ExpenseStore) Upsert(category string, amount float64, date json.RawMessage) (models.Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[category]; ok {
		e := &s.expenses[i]
		e.Amount += amount
		if !blankJSON(date) {
			e.Date = copyRaw(date)
		}
		return cloneExpense(*e), false
	}

	e := models.Expense{Category: category, Amount: amount}
	if !isNull(date) {
		e.Date = copyRaw(date)
	}
	s.index[category] = len(s.expenses)
	s.expenses = append(s.expenses, e)
	return cloneExpense(e), true
}

// List returns a snapshot of every expense in insertion order. Never nil.
func (s *ExpenseStore) List() []models.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Expense, len(s.expenses))
	for i, e := range s.expenses {
		out[i] = cloneExpense(e)
	}
	return out
}

func cloneExpense(e models.Expense) models.Expense {
	e.Date = copyRaw(e.Date)
	return e
}

func copyRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func blankJSON(raw json.RawMessage) bool {
	if isNull(raw) {
		return true
	}
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case `""`, "false", "[]", "{}":
		return true
	}
	if raw[0] != '-' && (raw[0] < '0' || raw[0] > '9') {
		return false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		f, err := n.Float64()
		return err == nil && f == 0
	}
	return false
}
