package history

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAppendExchange_OrderedPair(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()

	s.AppendExchange("s1", "hola", "¡hola! ¿en qué te ayudo?")

	turns := s.History("s1")
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Role != RoleUser || turns[0].Content != "hola" {
		t.Errorf("first turn = %+v, want user/hola", turns[0])
	}
	if turns[1].Role != RoleAssistant {
		t.Errorf("second turn role = %q, want assistant", turns[1].Role)
	}
}

func TestHistory_UnknownSessionEmpty(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	s.AppendExchange("known", "a", "b")

	if got := s.History("unknown"); len(got) != 0 {
		t.Errorf("unknown session returned %d turns, want 0", len(got))
	}
}

func TestHistory_ReturnsCopy(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	s.AppendExchange("s1", "a", "b")

	turns := s.History("s1")
	turns[0].Content = "mutated"

	if s.History("s1")[0].Content != "a" {
		t.Error("mutating the returned slice must not affect stored history")
	}
}

func TestContextFor_SystemTurnOnlyWhenEmpty(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	const sysPrompt = "eres un asistente de campaña"

	// Fresh session: a single synthetic system turn.
	ctx := ContextFor(s, "s1", sysPrompt)
	if len(ctx) != 1 || ctx[0].Role != RoleSystem || ctx[0].Content != sysPrompt {
		t.Fatalf("fresh session context = %+v, want one system turn", ctx)
	}

	// The synthetic turn is not persisted.
	if got := s.History("s1"); len(got) != 0 {
		t.Fatalf("system turn leaked into the store: %+v", got)
	}

	// After a real exchange the system turn is never re-sent.
	s.AppendExchange("s1", "hola", "respuesta")
	ctx = ContextFor(s, "s1", sysPrompt)
	if len(ctx) != 2 {
		t.Fatalf("got %d context turns, want 2", len(ctx))
	}
	for _, turn := range ctx {
		if turn.Role == RoleSystem {
			t.Error("system turn re-sent after history exists")
		}
	}
}

func TestClear(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	s.AppendExchange("s1", "a", "b")
	s.Clear("s1")

	if got := s.History("s1"); len(got) != 0 {
		t.Errorf("cleared session returned %d turns, want 0", len(got))
	}
	// Clearing an unknown session is a no-op.
	s.Clear("never-seen")
}

func TestWithMaxTurns_DropsOldestPairs(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(WithMaxTurns(4))

	for i := range 5 {
		s.AppendExchange("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	turns := s.History("s1")
	if len(turns) != 4 {
		t.Fatalf("got %d turns, want 4", len(turns))
	}
	if turns[0].Content != "q3" {
		t.Errorf("oldest kept turn = %q, want q3", turns[0].Content)
	}
	if turns[0].Role != RoleUser || turns[1].Role != RoleAssistant {
		t.Error("cap broke user/assistant pairing")
	}
}

func TestSessions(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	if s.Sessions() != 0 {
		t.Error("fresh store should have no sessions")
	}
	s.AppendExchange("a", "1", "2")
	s.AppendExchange("b", "1", "2")
	s.AppendExchange("a", "3", "4")
	if got := s.Sessions(); got != 2 {
		t.Errorf("Sessions() = %d, want 2", got)
	}
}

func TestAppendExchange_ConcurrentSameSession(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()

	const workers = 16
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AppendExchange("shared", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		}()
	}
	wg.Wait()

	turns := s.History("shared")
	if len(turns) != workers*2 {
		t.Fatalf("got %d turns, want %d (lost appends under concurrency)", len(turns), workers*2)
	}
	// Pairing must survive interleaving: even indexes user, odd assistant.
	for i, turn := range turns {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if turn.Role != want {
			t.Fatalf("turn %d role = %q, want %q", i, turn.Role, want)
		}
	}
}
