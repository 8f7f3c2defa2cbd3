package analytics

import "fmt"

// instructionBlock returns the hand-authored instruction template for the
// query type, with the resolved data values substituted into its worked
// examples. Unknown types fall back to the general template.
func instructionBlock(v resolved, qt QueryType) string {
	switch qt {
	case QueryTypeToday:
		return todayInstructions(v)
	case QueryTypeWeek:
		return weekInstructions(v)
	case QueryTypeMonth:
		return monthInstructions(v)
	case QueryTypeCity:
		return cityInstructions(v)
	case QueryTypeRegion:
		return regionInstructions(v)
	case QueryTypeCountry:
		return countryInstructions(v)
	case QueryTypeReferrals:
		return referralsInstructions(v)
	default:
		return generalInstructions(v)
	}
}

func todayInstructions(v resolved) string {
	return fmt.Sprintf(`INSTRUCCIONES:
1. Responde SOLO con la posición y los puntos del usuario en el día de hoy
2. Mantén la respuesta MUY CORTA (máximo 2 líneas)
3. Usa un tono motivacional pero directo
4. NO menciones el ranking semanal ni el mensual
5. Ve directo al punto: posición de hoy y puntos de hoy

EJEMPLOS DE RESPUESTAS:
- "Hoy vas #%s con %s puntos. ¡Sigue sumando!"
- "Tu posición de hoy es #%s con %s puntos. ¡Buen ritmo, %s!"
`, v.todayPos, v.todayPoints, v.todayPos, v.todayPoints, v.name)
}

func weekInstructions(v resolved) string {
	return fmt.Sprintf(`INSTRUCCIONES:
1. Responde SOLO con la posición y los puntos del usuario en esta semana
2. Mantén la respuesta MUY CORTA (máximo 2 líneas)
3. Usa un tono motivacional pero directo
4. NO menciones el ranking de hoy ni el mensual
5. Ve directo al punto: posición semanal y puntos semanales

EJEMPLOS DE RESPUESTAS:
- "Esta semana vas #%s con %s puntos. ¡No aflojes!"
- "Posición semanal: #%s con %s puntos. ¡Vamos con toda, %s!"
`, v.weekPos, v.weekPoints, v.weekPos, v.weekPoints, v.name)
}

func monthInstructions(v resolved) string {
	return fmt.Sprintf(`INSTRUCCIONES:
1. Responde SOLO con la posición y los puntos del usuario en este mes
2. Mantén la respuesta MUY CORTA (máximo 2 líneas)
3. Usa un tono motivacional pero directo
4. NO menciones el ranking de hoy ni el semanal
5. Ve directo al punto: posición mensual y puntos mensuales

EJEMPLOS DE RESPUESTAS:
- "Este mes vas #%s con %s puntos. ¡Gran trabajo!"
- "Posición del mes: #%s con %s puntos. ¡Cierra el mes fuerte, %s!"
`, v.monthPos, v.monthPoints, v.monthPos, v.monthPoints, v.name)
}

func cityInstructions(v resolved) string {
	return fmt.Sprintf(`INSTRUCCIONES:
1. Responde SOLO con la posición del usuario en %s
2. Mantén la respuesta MUY CORTA (máximo 2 líneas)
3. Usa un tono motivacional pero directo
4. NO menciones otras ciudades ni el ranking nacional
5. Ve directo al punto: posición en %s

EJEMPLOS DE RESPUESTAS:
- "En %s estás #%s de %s participantes. ¡Sigue así!"
- "Posición #%s en %s. ¡Tu ciudad te necesita, %s!"
`, v.cityName, v.cityName,
		v.cityName, v.cityPos, v.cityTotal,
		v.cityPos, v.cityName, v.name)
}

func regionInstructions(v resolved) string {
	return fmt.Sprintf(`INSTRUCCIONES:
1. Responde SOLO con la posición del usuario en su región
2. Mantén la respuesta MUY CORTA (máximo 2 líneas)
3. Usa un tono motivacional pero directo
4. NO menciones ciudades específicas ni el ranking por períodos
5. Ve directo al punto: posición regional

EJEMPLOS DE RESPUESTAS:
- "En tu región estás #%s de %s participantes. ¡Excelente!"
- "Posición regional: #%s de %s. ¡Vas muy bien, %s!"
`, v.regionPos, v.regionTotal, v.regionPos, v.regionTotal, v.name)
}

func countryInstructions(v resolved) string {
	return fmt.Sprintf(`INSTRUCCIONES:
1. Responde SOLO con la posición del usuario en Colombia
2. Mantén la respuesta MUY CORTA (máximo 2 líneas)
3. Usa un tono motivacional pero directo
4. NO menciones ciudades ni regiones específicas
5. Ve directo al punto: posición nacional

EJEMPLOS DE RESPUESTAS:
- "En Colombia estás #%s de %s participantes. ¡Imparable!"
- "Posición nacional: #%s de %s. ¡Todo el país te ve, %s!"
`, v.regionPos, v.regionTotal, v.regionPos, v.regionTotal, v.name)
}

func referralsInstructions(v resolved) string {
	return fmt.Sprintf(`INSTRUCCIONES:
1. Responde SOLO con las métricas de referidos del usuario
2. Mantén la respuesta MUY CORTA (máximo 3 líneas)
3. Usa un tono motivacional pero directo
4. NO incluyas ranking ni posición del usuario
5. NO menciones su ciudad ni datos de Colombia
6. Ve directo al punto: invitados, activos y puntos por referidos

EJEMPLOS DE RESPUESTAS:
- "Has invitado a %s personas y %s ya son voluntarios activos. ¡Gran red!"
- "Llevas %s referidos este mes con una conversión del %s%%. ¡Sigue invitando, %s!"
`, v.totalInvited, v.activeVolunteers, v.referralsThisMonth, v.conversionRate, v.name)
}

func generalInstructions(v resolved) string {
	return fmt.Sprintf(`INSTRUCCIONES:
1. Responde con un resumen breve del desempeño del usuario en la campaña
2. Mantén la respuesta CORTA (máximo 3 líneas)
3. Usa un tono motivacional pero directo
4. NO incluyas análisis complejos ni métricas que el usuario no pidió
5. Prioriza lo más relevante: posición en %s y en Colombia

EJEMPLOS DE RESPUESTAS:
- "En %s estás #%s de %s. En Colombia #%s de %s."
- "Posición #%s en %s, #%s en Colombia. ¡Sigue así, %s!"
`, v.cityName,
		v.cityName, v.cityPos, v.cityTotal, v.regionPos, v.regionTotal,
		v.cityPos, v.cityName, v.regionPos, v.name)
}

// closingBlock is appended to every analytics prompt regardless of query
// type. It guards against generic, padded model output.
const closingBlock = `FORMATO FINAL:
- Responde SIEMPRE en español.
- No repitas la consulta del usuario ni enumeres los datos recibidos.
- No uses frases genéricas de relleno ("como asistente de IA...", "según los datos proporcionados...").
- No inventes métricas que no estén en los datos.
- Si un dato aparece como N/A, dilo con naturalidad ("aún no tenemos tu posición") sin tecnicismos.

Responde de forma directa y concisa:
`
