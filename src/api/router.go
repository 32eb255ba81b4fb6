package api

import (
	"net/http"

	"expense-backend/src/chat"
	"expense-backend/src/db"
	"expense-backend/src/handlers"
	"expense-backend/src/metrics"
	"expense-backend/src/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(store *db.ExpenseStore, relay *chat.Relay, m *metrics.Metrics, allowedOrigins []string, readOnly bool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(m.Middleware)
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	// Recoverer stays inside CORS and metrics.
	r.Use(chimw.Recoverer)
	r.Use(middleware.ReadOnlyMiddleware(readOnly))

	r.Get("/", handlers.Home())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Expenses
	r.Post("/add_expense", handlers.AddExpense(store, m))
	r.Get("/get_expenses", handlers.GetExpenses(store))

	// Chat
	r.Post("/chat", handlers.Chat(relay, m))

	return r
}
