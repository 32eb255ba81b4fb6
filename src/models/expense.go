package models

import "encoding/json"

// Expense is the running total for one category. Date holds whatever JSON value the caller
// last supplied and encodes as null until then.
type Expense struct {
	Category string          `json:"category"`
	Amount   float64         `json:"amount"`
	Date     json.RawMessage `json:"date"`
}

type AddExpenseResponse struct {
	Message string  `json:"message"`
	Expense Expense `json:"expense"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
