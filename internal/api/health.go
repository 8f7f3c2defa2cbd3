package api

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RootMessage is the liveness banner served at GET /.
const RootMessage = "El Chatbot de Política y Tribus API está funcionando. Usa /chat para enviar preguntas."

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	pool      *pgxpool.Pool
	completer Completer
	logger    *slog.Logger
}

// NewHealthHandler creates a health handler. pool may be nil in tests;
// readiness then reports unavailable.
func NewHealthHandler(pool *pgxpool.Pool, completer Completer, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{pool: pool, completer: completer, logger: logger}
}

// RegisterRoutes registers health routes on the mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.root)
	mux.HandleFunc("GET /health", h.liveness)
	mux.HandleFunc("GET /ready", h.readiness)
}

func (h *HealthHandler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": RootMessage})
}

// liveness reports that the process is alive.
func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readiness reports whether dependencies can serve traffic: the engine is
// initialized and the document index database answers a ping.
func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	if h.completer == nil {
		http.Error(w, "engine not initialized", http.StatusServiceUnavailable)
		return
	}
	if h.pool == nil {
		http.Error(w, "database pool not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.pool.Ping(r.Context()); err != nil {
		h.logger.Error("readiness check failed", "error", err)
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
