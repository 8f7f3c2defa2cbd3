package tribal

import (
	"strings"
	"testing"
)

func TestIsTribalRequest_KnownPhrases(t *testing.T) {
	t.Parallel()
	m := Default()

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"exact tribe phrase", "mándame el link de mi tribu", true},
		{"uppercase input", "MÁNDAME EL LINK DE MI TRIBU", true},
		{"mixed case", "Pásame El Link De La Tribu", true},
		{"phrase embedded in sentence", "hola, ¿me puedes mandar el enlace de mi tribu? gracias", true},
		{"keyboard shorthand", "mandame el link d mi tribu", true},
		{"slang phrasing", "parce, mándame el link de mi tribu", true},
		{"referral synonym", "dame mi link de referidos", true},
		{"bare referral word", "referido", true},
		{"bare short phrase", "dame el link", true},
		{"unrelated question", "¿Cuáles son las propuestas?", false},
		{"unrelated greeting", "hola, ¿cómo estás?", false},
		{"empty query", "", false},
		{"policy question", "¿qué propone la campaña en salud?", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := m.IsTribalRequest(tt.query); got != tt.want {
				t.Errorf("IsTribalRequest(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

// Substring matching is the contract: short table entries fire inside longer,
// unrelated words. These false positives are accepted behavior, and switching
// to whole-word matching would silently change classification.
func TestIsTribalRequest_SubstringSemantics(t *testing.T) {
	t.Parallel()
	m := Default()

	falsePositives := []string{
		"el candidato fue referido por la prensa",    // "referido" inside a different sense
		"los referidos del informe técnico",          // plural, unrelated context
		"por favor dame el link del calendario",      // "dame el link" about something else
	}
	for _, q := range falsePositives {
		if !m.IsTribalRequest(q) {
			t.Errorf("IsTribalRequest(%q) = false, want true (substring semantics)", q)
		}
	}
}

func TestIsTribalRequest_CaseInsensitive(t *testing.T) {
	t.Parallel()
	m := Default()

	queries := []string{
		"MÁNDAME EL LINK DE MI TRIBU",
		"Quiero Mi Link De Referidos",
		"¿cuáles SON las Propuestas?",
		"REFERIDO",
	}
	for _, q := range queries {
		if m.IsTribalRequest(q) != m.IsTribalRequest(strings.ToLower(q)) {
			t.Errorf("IsTribalRequest(%q) differs from lowercased form", q)
		}
	}
}

func TestNewMatcher_CustomTable(t *testing.T) {
	t.Parallel()
	m := NewMatcher([]string{"Equipo Azul"})

	if !m.IsTribalRequest("quiero unirme al EQUIPO AZUL ya") {
		t.Error("custom pattern should match case-insensitively")
	}
	if m.IsTribalRequest("mándame el link de mi tribu") {
		t.Error("default patterns must not leak into a custom matcher")
	}
}

func TestMatcherPatterns_Copy(t *testing.T) {
	t.Parallel()
	m := NewMatcher([]string{"tribu"})
	got := m.Patterns()
	got[0] = "mutated"

	if m.IsTribalRequest("mutated") {
		t.Error("mutating the returned slice must not affect the matcher")
	}
	if !m.IsTribalRequest("tribu") {
		t.Error("matcher lost its original pattern")
	}
}

func TestLinkRequestPrompt(t *testing.T) {
	t.Parallel()

	p := LinkRequestPrompt("Ana", "TRIBU-123")
	for _, want := range []string{"Ana", "TRIBU-123", "español", "coordinador"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Empty user data still renders a complete prompt.
	empty := LinkRequestPrompt("", "")
	if !strings.Contains(empty, "Nombre:") || !strings.Contains(empty, "Código de referido:") {
		t.Error("prompt with empty user data should keep its field lines")
	}
}
