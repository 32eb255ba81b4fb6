package handlers

import (
	"log/slog"
	"net/http"

	"expense-backend/src/chat"
	"expense-backend/src/metrics"
	"expense-backend/src/models"
)

func Chat(relay *chat.Relay, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
		}
		if err := decodeBody(w, r, &req); err != nil {
			slog.Warn("Failed to decode chat request body", "error", err)
			writeError(w, http.StatusBadRequest, "Message is required")
			return
		}

		res := relay.Send(r.Context(), req.Message)
		m.ObserveChat(res.Outcome.String(), res.Reason)

		switch res.Outcome {
		case chat.OutcomeReply:
			writeJSON(w, http.StatusOK, models.ChatResponse{Reply: res.Reply})
		case chat.OutcomeInvalid:
			writeError(w, http.StatusBadRequest, "Message is required")
		default:
			slog.Error("Chat relay failed", "reason", res.Reason, "error", res.Err)
			writeError(w, http.StatusInternalServerError, res.Err.Error())
		}
	}
}
