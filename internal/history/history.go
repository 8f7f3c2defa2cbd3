// Package history provides per-session conversational history.
//
// Responsibilities: keep the ordered turns of each chat session in process
// memory and replay them as LLM context. Sessions are created implicitly on
// first use and mutated only by appending a user/assistant turn pair after a
// successful exchange.
//
// Thread safety: MemoryStore serializes mutations per session, so concurrent
// exchanges on the same session cannot lose or interleave turns.
package history

import (
	"log/slog"
	"sync"
)

// Role identifies who produced a turn.
type Role string

// Valid turn roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one message in a session's ordered history.
// Turns are immutable once appended; ordering is insertion order and is
// replayed verbatim as conversational context.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Store is the session history contract consumed by the HTTP handlers.
type Store interface {
	// History returns the stored turns for the session, or an empty slice
	// if the session has never been seen.
	History(sessionID string) []Turn

	// AppendExchange appends a user turn followed by an assistant turn,
	// creating the session entry if absent. The pair is appended atomically.
	AppendExchange(sessionID, userContent, assistantContent string)

	// Clear removes all turns for the session.
	Clear(sessionID string)

	// Sessions returns the number of known sessions.
	Sessions() int
}

// ContextFor assembles the turn list to send downstream for a session.
//
// When the session has no stored turns, it returns a single synthetic system
// turn carrying systemPrompt. The synthetic turn is never persisted: it is
// re-synthesized on every call that finds an empty history, and once real
// turns exist it is never sent again.
func ContextFor(s Store, sessionID, systemPrompt string) []Turn {
	turns := s.History(sessionID)
	if len(turns) == 0 {
		return []Turn{{Role: RoleSystem, Content: systemPrompt}}
	}
	return turns
}

// MemoryStore is an in-memory Store.
//
// Sessions are never expired: without a cap, every session accumulates turns
// for the life of the process. Set a cap via WithMaxTurns for anything beyond
// a prototype deployment.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	maxTurns int
	logger   *slog.Logger
}

// sessionEntry owns one session's turns. Its mutex serializes mutations for
// that session without blocking unrelated sessions.
type sessionEntry struct {
	mu    sync.Mutex
	turns []Turn
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithMaxTurns caps the number of turns kept per session; the oldest turns
// are dropped in pairs once the cap is exceeded. Zero means unbounded.
func WithMaxTurns(n int) Option {
	return func(s *MemoryStore) { s.maxTurns = n }
}

// WithLogger sets the store's logger. Nil falls back to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *MemoryStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*sessionEntry),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// entry returns the session's entry, creating it when create is set.
func (s *MemoryStore) entry(sessionID string, create bool) *sessionEntry {
	s.mu.RLock()
	e := s.sessions[sessionID]
	s.mu.RUnlock()
	if e != nil || !create {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e = s.sessions[sessionID]; e == nil {
		e = &sessionEntry{}
		s.sessions[sessionID] = e
	}
	return e
}

// History returns a copy of the session's turns.
func (s *MemoryStore) History(sessionID string) []Turn {
	e := s.entry(sessionID, false)
	if e == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Turn, len(e.turns))
	copy(out, e.turns)
	return out
}

// AppendExchange appends the user/assistant turn pair atomically.
func (s *MemoryStore) AppendExchange(sessionID, userContent, assistantContent string) {
	e := s.entry(sessionID, true)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.turns = append(e.turns,
		Turn{Role: RoleUser, Content: userContent},
		Turn{Role: RoleAssistant, Content: assistantContent},
	)
	if s.maxTurns > 0 && len(e.turns) > s.maxTurns {
		drop := len(e.turns) - s.maxTurns
		if drop%2 != 0 {
			drop++ // keep user/assistant pairing intact
		}
		e.turns = e.turns[drop:]
		s.logger.Debug("trimmed session history",
			"session_id", sessionID, "dropped", drop, "kept", len(e.turns))
	}
}

// Clear removes the session's turns but keeps the session entry, so an
// in-flight append on the same session still lands on a consistent slice.
func (s *MemoryStore) Clear(sessionID string) {
	e := s.entry(sessionID, false)
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.turns = nil
}

// Sessions returns the number of known sessions.
func (s *MemoryStore) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
