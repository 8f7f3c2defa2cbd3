package api

import (
	"log/slog"
	"net/http"

	"github.com/plazadigital/tribubot/internal/chat"
	"github.com/plazadigital/tribubot/internal/history"
)

// Spanish user-facing error messages. Kept identical across handlers so no
// internal details leak through the error path.
const (
	msgNotInitialized = "El chatbot no está inicializado. Intenta de nuevo en unos segundos."
	msgChatFailed     = "Ocurrió un error al procesar tu pregunta."
)

// ChatRequest is the /chat request body.
type ChatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

// ChatResponse mirrors the nested envelope the web client consumes.
type ChatResponse struct {
	Response InnerResponse `json:"response"`
}

// InnerResponse wraps the generated text.
type InnerResponse struct {
	Response string `json:"response"`
}

// ChatHandler serves the general conversation endpoint.
type ChatHandler struct {
	completer Completer
	history   history.Store
	logger    *slog.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(completer Completer, store history.Store, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{completer: completer, history: store, logger: logger}
}

// RegisterRoutes registers chat routes on the mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /chat", h.handleChat)
}

// handleChat answers a query grounded on the knowledge index, replaying the
// session's history. The exchange is appended to history only after the
// model call fully succeeds, so a failed request leaves the session as it
// was.
func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	if h.completer == nil {
		writeError(w, http.StatusServiceUnavailable, "not_initialized", msgNotInitialized)
		return
	}

	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Cuerpo de la solicitud inválido.")
		return
	}
	if req.Query == "" || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Los campos query y session_id son obligatorios.")
		return
	}

	h.logger.Info("chat request", "session_id", truncateID(req.SessionID), "query_length", len(req.Query))

	turns := history.ContextFor(h.history, req.SessionID, chat.SystemPrompt)

	answer, err := h.completer.Answer(r.Context(), req.Query, turns)
	if err != nil {
		h.logger.Error("chat completion failed", "session_id", truncateID(req.SessionID), "error", err)
		writeError(w, http.StatusInternalServerError, "processing_error", msgChatFailed)
		return
	}

	h.history.AppendExchange(req.SessionID, req.Query, answer)

	writeJSON(w, http.StatusOK, ChatResponse{Response: InnerResponse{Response: answer}})
}

// truncateID shortens session IDs for logs.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
