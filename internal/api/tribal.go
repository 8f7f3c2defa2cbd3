package api

import (
	"log/slog"
	"net/http"

	"github.com/plazadigital/tribubot/internal/tribal"
)

const msgTribalFailed = "Error al procesar la consulta."

// TribalRequest is the /tribal-analysis request body.
type TribalRequest struct {
	Query     string         `json:"query"`
	SessionID string         `json:"session_id"`
	UserData  TribalUserData `json:"user_data"`
}

// TribalUserData carries the optional user identity for link generation.
type TribalUserData struct {
	Name         string `json:"name"`
	ReferralCode string `json:"referral_code"`
}

// TribalResponse reports the classification and the generated reply.
type TribalResponse struct {
	IsTribalRequest    bool   `json:"is_tribal_request"`
	AIResponse         string `json:"ai_response"`
	ReferralCode       string `json:"referral_code"`
	UserName           string `json:"user_name"`
	ShouldGenerateLink bool   `json:"should_generate_link"`
}

// TribalHandler serves the referral-link classification endpoint.
type TribalHandler struct {
	completer Completer
	matcher   *tribal.Matcher
	logger    *slog.Logger
}

// NewTribalHandler creates a tribal-analysis handler.
func NewTribalHandler(completer Completer, matcher *tribal.Matcher, logger *slog.Logger) *TribalHandler {
	return &TribalHandler{completer: completer, matcher: matcher, logger: logger}
}

// RegisterRoutes registers tribal routes on the mux.
func (h *TribalHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /tribal-analysis", h.handleAnalysis)
}

// handleAnalysis classifies the query against the pattern table. A match
// produces a link-request reply built from the user's name and referral
// code; anything else is answered as a normal grounded query. Neither path
// touches session history.
func (h *TribalHandler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if h.completer == nil {
		writeError(w, http.StatusServiceUnavailable, "not_initialized", msgNotInitialized)
		return
	}

	var req TribalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Cuerpo de la solicitud inválido.")
		return
	}
	if req.Query == "" || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Los campos query y session_id son obligatorios.")
		return
	}

	h.logger.Info("tribal analysis", "session_id", truncateID(req.SessionID))

	if !h.matcher.IsTribalRequest(req.Query) {
		answer, err := h.completer.Answer(r.Context(), req.Query, nil)
		if err != nil {
			h.logger.Error("tribal fallback completion failed", "error", err)
			writeError(w, http.StatusInternalServerError, "processing_error", msgTribalFailed)
			return
		}
		writeJSON(w, http.StatusOK, TribalResponse{
			IsTribalRequest:    false,
			AIResponse:         answer,
			ShouldGenerateLink: false,
		})
		return
	}

	prompt := tribal.LinkRequestPrompt(req.UserData.Name, req.UserData.ReferralCode)
	answer, err := h.completer.Complete(r.Context(), prompt, nil)
	if err != nil {
		h.logger.Error("tribal completion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "processing_error", msgTribalFailed)
		return
	}

	writeJSON(w, http.StatusOK, TribalResponse{
		IsTribalRequest:    true,
		AIResponse:         answer,
		ReferralCode:       req.UserData.ReferralCode,
		UserName:           req.UserData.Name,
		ShouldGenerateLink: true,
	})
}
