// Package tribal classifies user queries as tribe/referral-link requests.
//
// Detection is intentionally simple: the query is lowercased and tested
// against a fixed table of known phrasings via substring matching. The table
// contains very short entries ("referido", "dame el link"), so the matcher
// over-triggers on unrelated text containing them. That trade-off is
// deliberate — in volunteer tooling, missing a tribe request costs more than
// answering one that wasn't.
package tribal

import "strings"

// Matcher detects tribe/referral requests in free-text queries.
//
// Matcher is immutable after construction and safe for concurrent use.
type Matcher struct {
	patterns []string
}

// NewMatcher creates a Matcher over the given pattern table.
// Patterns are matched in order as case-insensitive substrings.
// Entries are lowercased once at construction.
func NewMatcher(patterns []string) *Matcher {
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	return &Matcher{patterns: lowered}
}

// Default returns a Matcher over the production pattern table.
func Default() *Matcher {
	return NewMatcher(DefaultPatterns())
}

// IsTribalRequest reports whether the query asks for a tribe/referral link.
//
// The whole input is lowercased, then each table entry is tested as a
// substring, returning on the first hit. No whitespace, punctuation, or
// accent normalization is applied beyond case folding: "tribu" matches
// inside "tributo", and that is expected behavior.
func (m *Matcher) IsTribalRequest(query string) bool {
	lowered := strings.ToLower(query)
	for _, p := range m.patterns {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the matcher's pattern table.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}
