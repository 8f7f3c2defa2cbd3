package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/plazadigital/tribubot/internal/history"
	"github.com/plazadigital/tribubot/internal/testutil"
)

// mockCompleter records calls and returns canned answers.
type mockCompleter struct {
	answer      string
	err         error
	lastQuery   string
	lastPrompt  string
	lastTurns   []history.Turn
	answerCalls int
	promptCalls int
}

func (m *mockCompleter) Answer(_ context.Context, query string, turns []history.Turn) (string, error) {
	m.answerCalls++
	m.lastQuery = query
	m.lastTurns = turns
	return m.answer, m.err
}

func (m *mockCompleter) Complete(_ context.Context, prompt string, turns []history.Turn) (string, error) {
	m.promptCalls++
	m.lastPrompt = prompt
	m.lastTurns = turns
	return m.answer, m.err
}

func newTestServer(completer Completer, store history.Store) *Server {
	if store == nil {
		store = history.NewMemoryStore()
	}
	return NewServer(Deps{
		Completer: completer,
		History:   store,
		Logger:    testutil.SilentLogger(),
	})
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatNotInitialized(t *testing.T) {
	t.Parallel()

	srv := newTestServer(nil, nil)
	rec := postJSON(t, srv.Handler(), "/chat", ChatRequest{Query: "hola", SessionID: "s1"})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Message != msgNotInitialized {
		t.Errorf("message = %q, want %q", resp.Message, msgNotInitialized)
	}
}

func TestChatInvalidRequests(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&mockCompleter{answer: "ok"}, nil)
	handler := srv.Handler()

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{no es json"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		rec := postJSON(t, handler, "/chat", ChatRequest{SessionID: "s1"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		rec := postJSON(t, handler, "/chat", ChatRequest{Query: "hola"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestChatSuccessAppendsHistory(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{answer: "¡Hola! ¿En qué te ayudo?"}
	store := history.NewMemoryStore()
	srv := newTestServer(completer, store)

	rec := postJSON(t, srv.Handler(), "/chat", ChatRequest{Query: "hola", SessionID: "s1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Response.Response != completer.answer {
		t.Errorf("response = %q, want %q", resp.Response.Response, completer.answer)
	}

	// First exchange: a synthetic system turn is sent.
	if len(completer.lastTurns) != 1 || completer.lastTurns[0].Role != history.RoleSystem {
		t.Errorf("first-exchange turns = %+v, want single system turn", completer.lastTurns)
	}

	turns := store.History("s1")
	if len(turns) != 2 {
		t.Fatalf("stored turns = %d, want 2", len(turns))
	}
	if turns[0].Role != history.RoleUser || turns[0].Content != "hola" {
		t.Errorf("turn[0] = %+v", turns[0])
	}
	if turns[1].Role != history.RoleAssistant || turns[1].Content != completer.answer {
		t.Errorf("turn[1] = %+v", turns[1])
	}

	// Second exchange: the stored pair, no system turn.
	rec = postJSON(t, srv.Handler(), "/chat", ChatRequest{Query: "¿y las tribus?", SessionID: "s1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("second status = %d", rec.Code)
	}
	if len(completer.lastTurns) != 2 {
		t.Errorf("second-exchange turns = %d, want 2 stored turns", len(completer.lastTurns))
	}
	for _, turn := range completer.lastTurns {
		if turn.Role == history.RoleSystem {
			t.Error("system turn leaked into non-empty history")
		}
	}
}

func TestChatDownstreamFailure(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{err: errors.New("model exploded")}
	store := history.NewMemoryStore()
	srv := newTestServer(completer, store)

	rec := postJSON(t, srv.Handler(), "/chat", ChatRequest{Query: "hola", SessionID: "s1"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Message != msgChatFailed {
		t.Errorf("message = %q, want %q", resp.Message, msgChatFailed)
	}
	if strings.Contains(resp.Message+resp.Error, "exploded") {
		t.Error("internal error detail leaked to the client")
	}
	if got := len(store.History("s1")); got != 0 {
		t.Errorf("history has %d turns after failure, want 0", got)
	}
}

func TestChatOversizedBody(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&mockCompleter{answer: "ok"}, nil)

	huge := strings.Repeat("a", maxBodyBytes+1)
	body := `{"query":"` + huge + `","session_id":"s1"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
