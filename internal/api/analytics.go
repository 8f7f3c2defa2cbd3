package api

import (
	"log/slog"
	"net/http"

	"github.com/plazadigital/tribubot/internal/analytics"
)

const msgAnalyticsFailed = "Error al procesar analytics."

// AnalyticsRequest is the /analytics-chat request body.
type AnalyticsRequest struct {
	Query     string            `json:"query"`
	SessionID string            `json:"session_id"`
	UserData  AnalyticsUserData `json:"user_data"`
}

// AnalyticsUserData wraps the metrics payload and prompt modifiers.
type AnalyticsUserData struct {
	AnalyticsData analytics.Payload `json:"analytics_data"`
	City          string            `json:"city"`
	QueryType     string            `json:"query_type"`
	OriginalQuery string            `json:"original_query"`
}

// AnalyticsHandler serves personalized analytics summaries.
type AnalyticsHandler struct {
	completer Completer
	logger    *slog.Logger
}

// NewAnalyticsHandler creates an analytics-chat handler.
func NewAnalyticsHandler(completer Completer, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{completer: completer, logger: logger}
}

// RegisterRoutes registers analytics routes on the mux.
func (h *AnalyticsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /analytics-chat", h.handleAnalytics)
}

// handleAnalytics renders the analytics prompt from the user's metrics and
// completes it. An empty metrics payload falls back to answering the raw
// query as a normal grounded question. History is not consulted: the prompt
// already carries all relevant data.
func (h *AnalyticsHandler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if h.completer == nil {
		writeError(w, http.StatusServiceUnavailable, "not_initialized", msgNotInitialized)
		return
	}

	var req AnalyticsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Cuerpo de la solicitud inválido.")
		return
	}
	if req.Query == "" || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Los campos query y session_id son obligatorios.")
		return
	}

	h.logger.Info("analytics chat", "session_id", truncateID(req.SessionID), "query_type", req.UserData.QueryType)

	if req.UserData.AnalyticsData.Empty() {
		answer, err := h.completer.Answer(r.Context(), req.Query, nil)
		if err != nil {
			h.logger.Error("analytics fallback completion failed", "error", err)
			writeError(w, http.StatusInternalServerError, "processing_error", msgAnalyticsFailed)
			return
		}
		writeJSON(w, http.StatusOK, ChatResponse{Response: InnerResponse{Response: answer}})
		return
	}

	prompt := analytics.BuildPrompt(req.Query, req.UserData.AnalyticsData, analytics.PromptOptions{
		QueryType:     analytics.ParseQueryType(req.UserData.QueryType),
		CityName:      req.UserData.City,
		OriginalQuery: req.UserData.OriginalQuery,
	})

	answer, err := h.completer.Complete(r.Context(), prompt, nil)
	if err != nil {
		h.logger.Error("analytics completion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "processing_error", msgAnalyticsFailed)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: InnerResponse{Response: answer}})
}
