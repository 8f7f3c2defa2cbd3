package api

import (
	"log/slog"
	"net/http"

	"github.com/plazadigital/tribubot/internal/history"
)

// SessionHistoryResponse lists the stored turns for one session.
type SessionHistoryResponse struct {
	SessionID string         `json:"session_id"`
	Turns     []history.Turn `json:"turns"`
}

// SessionHandler exposes session history inspection and cleanup.
type SessionHandler struct {
	history history.Store
	logger  *slog.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(store history.Store, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{history: store, logger: logger}
}

// RegisterRoutes registers session routes on the mux.
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /sessions/{id}/history", h.handleHistory)
	mux.HandleFunc("DELETE /sessions/{id}", h.handleDelete)
}

// handleHistory returns the turns for a session. Unknown sessions return an
// empty list rather than 404: sessions are created implicitly, so "never
// seen" and "no turns yet" are the same state.
func (h *SessionHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "El identificador de sesión es obligatorio.")
		return
	}

	writeJSON(w, http.StatusOK, SessionHistoryResponse{
		SessionID: id,
		Turns:     h.history.History(id),
	})
}

// handleDelete clears a session's history. Idempotent.
func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "El identificador de sesión es obligatorio.")
		return
	}

	h.history.Clear(id)
	h.logger.Info("session cleared", "session_id", truncateID(id))
	w.WriteHeader(http.StatusNoContent)
}
