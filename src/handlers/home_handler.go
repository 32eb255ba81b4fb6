package handlers

import "net/http"

const homeMessage = "Expense Tracker Backend is running!"

func Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(homeMessage))
	}
}
