package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/plazadigital/tribubot/internal/history"
	"github.com/plazadigital/tribubot/internal/testutil"
)

func corsServer(origins []string) *Server {
	return NewServer(Deps{
		Completer:   &mockCompleter{answer: "ok"},
		History:     history.NewMemoryStore(),
		Logger:      testutil.SilentLogger(),
		CORSOrigins: origins,
	})
}

func TestCORSAllowedOrigin(t *testing.T) {
	t.Parallel()

	srv := corsServer([]string{"https://tribu.example.co"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://tribu.example.co")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://tribu.example.co" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the request origin", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	t.Parallel()

	srv := corsServer([]string{"https://tribu.example.co"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
	}
}

func TestCORSWildcard(t *testing.T) {
	t.Parallel()

	srv := corsServer([]string{"*"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the request origin", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	srv := corsServer([]string{"*"})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://tribu.example.co")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("preflight response missing Access-Control-Allow-Methods")
	}
}

func TestCORSDisabledWhenUnconfigured(t *testing.T) {
	t.Parallel()

	srv := corsServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://tribu.example.co")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty when CORS disabled", got)
	}
}
