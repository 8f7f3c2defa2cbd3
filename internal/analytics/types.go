// Package analytics builds personalized LLM prompts from campaign
// participation metrics.
//
// The package has two halves, kept separable on purpose:
//
//   - typed payload records with an explicit default policy for absent fields
//   - a deterministic prompt builder that renders a data block, a per-query-type
//     instruction block, and a fixed closing block
//
// The builder is a pure function: same inputs, byte-identical output. It never
// performs I/O and never fails — absent fields resolve to documented defaults
// instead of errors.
package analytics

import "strings"

// MissingValue is the literal rendered for a position-like field that is
// absent from the payload. Count-like fields render 0 instead; the
// distinction matters because "sin posición" and "posición cero" read very
// differently to a volunteer.
const MissingValue = "N/A"

// QueryType selects which instruction template governs prompt rendering.
// The value is caller-supplied; this package never classifies queries.
type QueryType string

// Known query types. Anything else resolves to QueryTypeGeneral.
const (
	QueryTypeToday     QueryType = "today"
	QueryTypeWeek      QueryType = "week"
	QueryTypeMonth     QueryType = "month"
	QueryTypeCity      QueryType = "city"
	QueryTypeRegion    QueryType = "region"
	QueryTypeCountry   QueryType = "country"
	QueryTypeReferrals QueryType = "referrals"
	QueryTypeGeneral   QueryType = "general"
)

// ParseQueryType maps a caller-supplied tag to a QueryType.
// Matching is case-insensitive; unrecognized or empty input yields
// QueryTypeGeneral.
func ParseQueryType(s string) QueryType {
	switch QueryType(strings.ToLower(strings.TrimSpace(s))) {
	case QueryTypeToday, QueryTypeWeek, QueryTypeMonth, QueryTypeCity,
		QueryTypeRegion, QueryTypeCountry, QueryTypeReferrals, QueryTypeGeneral:
		return QueryType(strings.ToLower(strings.TrimSpace(s)))
	default:
		return QueryTypeGeneral
	}
}

// Payload carries a user's campaign analytics. Every field is optional:
// position-like fields are pointers (nil renders MissingValue), count-like
// fields are plain values (absent decodes to zero and renders 0).
type Payload struct {
	Name      string        `json:"name"`
	City      Standing      `json:"city"`
	Region    Standing      `json:"region"`
	Ranking   Ranking       `json:"ranking"`
	Referrals ReferralStats `json:"referrals"`
}

// Empty reports whether the payload carries no data at all.
// Handlers use it to fall back to a plain completion.
func (p Payload) Empty() bool {
	return p == Payload{}
}

// Standing is a user's rank within a geographic scope.
type Standing struct {
	Position          *int `json:"position"`
	TotalParticipants int  `json:"totalParticipants"`
}

// Ranking groups per-period rank entries.
type Ranking struct {
	Today RankEntry `json:"today"`
	Week  RankEntry `json:"week"`
	Month RankEntry `json:"month"`
}

// RankEntry is a position plus accumulated points for one period.
type RankEntry struct {
	Position *int `json:"position"`
	Points   int  `json:"points"`
}

// ReferralStats carries recruitment metrics. All counts default to zero.
type ReferralStats struct {
	TotalInvited       int     `json:"totalInvited"`
	ActiveVolunteers   int     `json:"activeVolunteers"`
	ReferralsThisMonth int     `json:"referralsThisMonth"`
	ConversionRate     float64 `json:"conversionRate"`
	ReferralPoints     int     `json:"referralPoints"`
}
