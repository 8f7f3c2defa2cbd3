package analytics

import (
	"fmt"
	"strconv"
	"strings"
)

// PromptOptions carries the caller-supplied auxiliary data for BuildPrompt.
type PromptOptions struct {
	// QueryType selects the instruction template. Zero value renders the
	// general template.
	QueryType QueryType

	// CityName overrides the display name of the user's city.
	// Empty falls back to "tu ciudad".
	CityName string

	// OriginalQuery is the pre-processed query text to quote in the prompt.
	// Empty falls back to the query passed to BuildPrompt.
	OriginalQuery string
}

// DefaultCityName is used when the caller does not supply a city.
const DefaultCityName = "tu ciudad"

// DefaultUserName is used when the payload has no name.
const DefaultUserName = "Voluntario"

// BuildPrompt renders the full analytics prompt: data block, per-type
// instruction block, and the closing directives, in that order.
//
// The output always quotes the original query verbatim. Absent positions
// render MissingValue; absent counts render 0; the conversion rate is
// formatted to one decimal. For QueryTypeReferrals the data block carries
// referral metrics only — no position, ranking, city, or country values.
func BuildPrompt(query string, data Payload, opts PromptOptions) string {
	v := resolve(data, opts.CityName)

	originalQuery := opts.OriginalQuery
	if originalQuery == "" {
		originalQuery = query
	}

	var b strings.Builder
	b.WriteString(dataBlock(v, opts.QueryType))
	fmt.Fprintf(&b, "\nCONSULTA DEL USUARIO: \"%s\"\n", originalQuery)
	b.WriteString("\n")
	b.WriteString(instructionBlock(v, opts.QueryType))
	b.WriteString("\n")
	b.WriteString(closingBlock)
	return b.String()
}

// resolved holds every payload field pre-formatted for template substitution.
// Resolution happens once so the data block and instruction templates can't
// disagree on defaults.
type resolved struct {
	name     string
	cityName string

	cityPos, cityTotal     string
	regionPos, regionTotal string

	todayPos, todayPoints string
	weekPos, weekPoints   string
	monthPos, monthPoints string

	totalInvited, activeVolunteers string
	referralsThisMonth             string
	conversionRate                 string
	referralPoints                 string
}

func resolve(data Payload, cityName string) resolved {
	name := data.Name
	if name == "" {
		name = DefaultUserName
	}
	if cityName == "" {
		cityName = DefaultCityName
	}
	return resolved{
		name:     name,
		cityName: cityName,

		cityPos:     position(data.City.Position),
		cityTotal:   strconv.Itoa(data.City.TotalParticipants),
		regionPos:   position(data.Region.Position),
		regionTotal: strconv.Itoa(data.Region.TotalParticipants),

		todayPos:    position(data.Ranking.Today.Position),
		todayPoints: strconv.Itoa(data.Ranking.Today.Points),
		weekPos:     position(data.Ranking.Week.Position),
		weekPoints:  strconv.Itoa(data.Ranking.Week.Points),
		monthPos:    position(data.Ranking.Month.Position),
		monthPoints: strconv.Itoa(data.Ranking.Month.Points),

		totalInvited:       strconv.Itoa(data.Referrals.TotalInvited),
		activeVolunteers:   strconv.Itoa(data.Referrals.ActiveVolunteers),
		referralsThisMonth: strconv.Itoa(data.Referrals.ReferralsThisMonth),
		conversionRate:     fmt.Sprintf("%.1f", data.Referrals.ConversionRate),
		referralPoints:     strconv.Itoa(data.Referrals.ReferralPoints),
	}
}

// position renders a position-like field: the value, or MissingValue when absent.
func position(p *int) string {
	if p == nil {
		return MissingValue
	}
	return strconv.Itoa(*p)
}

// dataBlock renders the data-substitution portion of the prompt.
//
// For QueryTypeReferrals the block is restricted to referral metrics: it must
// not carry position, ranking, city, or country values anywhere, so that a
// model that echoes its input cannot leak geographic or ranking data into a
// referral answer.
func dataBlock(v resolved, qt QueryType) string {
	if qt == QueryTypeReferrals {
		return fmt.Sprintf(`Eres una IA política especializada en campañas. El usuario pregunta por su red de referidos.

DATOS DE REFERIDOS DEL USUARIO:
- Nombre: %s
- Total de invitados: %s
- Voluntarios activos: %s
- Referidos este mes: %s
- Tasa de conversión: %s%%
- Puntos por referidos: %s
`, v.name, v.totalInvited, v.activeVolunteers, v.referralsThisMonth, v.conversionRate, v.referralPoints)
	}

	return fmt.Sprintf(`Eres una IA política especializada en campañas. El usuario pregunta por su desempeño en la campaña.

DATOS DEL USUARIO:
- Nombre: %s
- Ciudad: %s
- Posición en %s: #%s de %s participantes
- Posición en Colombia: #%s de %s participantes
- Ranking hoy: #%s con %s puntos
- Ranking esta semana: #%s con %s puntos
- Ranking este mes: #%s con %s puntos
- Total de invitados: %s
- Voluntarios activos: %s
- Referidos este mes: %s
- Tasa de conversión: %s%%
- Puntos por referidos: %s
`, v.name, v.cityName,
		v.cityName, v.cityPos, v.cityTotal,
		v.regionPos, v.regionTotal,
		v.todayPos, v.todayPoints,
		v.weekPos, v.weekPoints,
		v.monthPos, v.monthPoints,
		v.totalInvited, v.activeVolunteers, v.referralsThisMonth,
		v.conversionRate, v.referralPoints)
}
