package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/plazadigital/tribubot/internal/analytics"
)

func intp(v int) *int { return &v }

func TestAnalyticsWithPayload(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{answer: "En Medellín estás #3 de 150."}
	srv := newTestServer(completer, nil)

	rec := postJSON(t, srv.Handler(), "/analytics-chat", AnalyticsRequest{
		Query:     "¿cómo voy en mi ciudad?",
		SessionID: "s1",
		UserData: AnalyticsUserData{
			AnalyticsData: analytics.Payload{
				Name: "Ana",
				City: analytics.Standing{Position: intp(3), TotalParticipants: 150},
			},
			City:      "Medellín",
			QueryType: "city",
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Response.Response != completer.answer {
		t.Errorf("response = %q", resp.Response.Response)
	}

	if completer.promptCalls != 1 || completer.answerCalls != 0 {
		t.Fatalf("calls: prompt=%d answer=%d, want prompt path", completer.promptCalls, completer.answerCalls)
	}
	for _, want := range []string{"Ana", "Medellín", "#3", `"¿cómo voy en mi ciudad?"`} {
		if !strings.Contains(completer.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnalyticsEmptyPayloadFallsBack(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{answer: "Respuesta general."}
	srv := newTestServer(completer, nil)

	rec := postJSON(t, srv.Handler(), "/analytics-chat", AnalyticsRequest{
		Query:     "¿qué propone la campaña?",
		SessionID: "s1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if completer.answerCalls != 1 || completer.promptCalls != 0 {
		t.Errorf("calls: answer=%d prompt=%d, want grounded fallback", completer.answerCalls, completer.promptCalls)
	}
	if completer.lastQuery != "¿qué propone la campaña?" {
		t.Errorf("fallback query = %q", completer.lastQuery)
	}
}

func TestAnalyticsUnknownQueryType(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{answer: "ok"}
	srv := newTestServer(completer, nil)

	rec := postJSON(t, srv.Handler(), "/analytics-chat", AnalyticsRequest{
		Query:     "¿cómo voy?",
		SessionID: "s1",
		UserData: AnalyticsUserData{
			AnalyticsData: analytics.Payload{Name: "Ana"},
			QueryType:     "trimestral",
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// Unknown types fall back to the general template, which still renders.
	if completer.promptCalls != 1 {
		t.Errorf("prompt calls = %d, want 1", completer.promptCalls)
	}
}

func TestAnalyticsDownstreamFailure(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{err: errors.New("timeout")}
	srv := newTestServer(completer, nil)

	rec := postJSON(t, srv.Handler(), "/analytics-chat", AnalyticsRequest{
		Query:     "¿cómo voy?",
		SessionID: "s1",
		UserData:  AnalyticsUserData{AnalyticsData: analytics.Payload{Name: "Ana"}},
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Message != msgAnalyticsFailed {
		t.Errorf("message = %q, want %q", resp.Message, msgAnalyticsFailed)
	}
}

func TestAnalyticsNotInitialized(t *testing.T) {
	t.Parallel()

	srv := newTestServer(nil, nil)
	rec := postJSON(t, srv.Handler(), "/analytics-chat", AnalyticsRequest{Query: "q", SessionID: "s1"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
