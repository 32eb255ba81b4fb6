package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"expense-backend/src/db"
	"expense-backend/src/metrics"
	"expense-backend/src/models"
	"expense-backend/src/util"
)

const (
	msgExpenseAdded         = "Expense added"
	msgExpenseAddedExisting = "Expense added to existing category"
)

type addExpenseRequest struct {
	Category *string         `json:"category"`
	Amount   json.RawMessage `json:"amount"`
	Date     json.RawMessage `json:"date"`
}

func AddExpense(store *db.ExpenseStore, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addExpenseRequest
		if err := decodeBody(w, r, &req); err != nil {
			slog.Warn("Failed to decode add expense request body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid data")
			return
		}
		if req.Category == nil || !util.ValidateCategory(*req.Category) || len(req.Amount) == 0 {
			slog.Warn("Add expense request missing category or amount")
			writeError(w, http.StatusBadRequest, "Invalid data")
			return
		}

		amount, err := util.ParseAmount(req.Amount)
		if err != nil {
			slog.Warn("Rejected add expense amount", "category", *req.Category, "amount", string(req.Amount), "error", err)
			if errors.Is(err, util.ErrAmountMissing) {
				writeError(w, http.StatusBadRequest, "Invalid data")
			} else {
				writeError(w, http.StatusBadRequest, "Invalid amount")
			}
			return
		}

		expense, created := store.Upsert(*req.Category, amount, req.Date)
		m.ObserveUpsert(created)

		msg := msgExpenseAddedExisting
		if created {
			msg = msgExpenseAdded
		}
		slog.Info("Expense recorded", "category", expense.Category, "amount", amount, "total", expense.Amount, "new_category", created)
		writeJSON(w, http.StatusCreated, models.AddExpenseResponse{Message: msg, Expense: expense})
	}
}

func GetExpenses(store *db.ExpenseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.List())
	}
}
