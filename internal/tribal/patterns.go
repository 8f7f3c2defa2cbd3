package tribal

// DefaultPatterns returns the production tribe/referral pattern table.
//
// The table mirrors the phrasings volunteers actually use, including
// regional slang ("parce", "mijo") and keyboard shorthand ("d mi tribu").
// Order matters only for short-circuit speed; the most common full phrases
// come first, the short high-recall single words last.
func DefaultPatterns() []string {
	return []string{
		// Tribe link requests
		"mándame el link de mi tribu", "envíame el link de mi tribu", "¿me puedes mandar el enlace de mi tribu?",
		"pásame el link de la tribu", "¿dónde está el link de mi tribu?", "mandame el link d mi tribu",
		"mandame el link mi tribu", "pasame el link d mi tribu", "pasame link tribu", "mandame link tribu",
		"enlace tribu porfa", "link tribu ya", "dame el enlace de mi grupo", "pásame el link del grupo",
		"¿dónde está el grupo?", "¿cómo entro a la tribu?", "¿cuál es el link de ingreso a la tribu?",
		"parce, mándame el link de mi tribu", "oe, ¿tenés el enlace de la tribu?", "mijo, pásame el link del parche",
		"mija, pásame el link del parche", "necesito el link pa entrar a mi tribu", "¿dónde está el bendito link de la tribu?",
		"hágame el favor y me manda el link de la tribu", "¿y el enlace pa unirme?", "manda ese link pues",
		"quiero entrar a mi tribu", "cómo ingreso a mi tribu", "no encuentro el link de mi tribu",
		"perdí el link de la tribu", "ayúdame con el link de la tribu", "me puedes enviar el link de mi grupo",
		"necesito volver a entrar a mi tribu", "como es que invito gente?", "dame el link",
		"¿dónde está mi link de tribu?",
		// Referral link requests (tribe synonyms)
		"mándame el link de mis referidos", "envíame el enlace de mis referidos", "¿me puedes mandar el link de referidos?",
		"pásame el link de referidos", "¿dónde está mi enlace de referidos?", "mandame el link d mis referidos",
		"dame el enlace de referidos", "pásame el enlace de referidos", "link de referidos porfa",
		"¿cómo obtengo mi link de referidos?", "¿dónde está mi link de referidos?", "necesito mi enlace de referidos",
		"parce, mándame el link de mis referidos", "oe, ¿tenés mi enlace de referidos?", "mijo, pásame el link de referidos",
		"perdí mi link de referidos", "ayúdame con mi enlace de referidos", "no encuentro mi link de referidos",
		"quiero mi link de referidos", "cómo obtengo mi enlace de referidos", "dame mi link de referidos",
		"dame mi enlace de referidos", "mandame el link de referidos", "pasame el link de referidos", "enlace de referidos ya",
		"¿dónde está el link de referidos?", "¿cómo entro a mis referidos?", "¿cuál es el link de mis referidos?",
		"necesito el link pa mis referidos", "¿dónde está el bendito link de referidos?", "hágame el favor y me manda el link de referidos",
		"quiero entrar a mis referidos", "cómo ingreso a mis referidos",
		"me puedes enviar mi link de referidos",
		// Bare referral words — high recall, known false positives
		"referido", "referidos", "mi referido", "mis referidos", "el referido", "los referidos",
		"dame referido", "dame referidos", "quiero referido", "quiero referidos", "necesito referido", "necesito referidos",
		"link referido", "link referidos", "enlace referido", "enlace referidos", "mi link referido", "mi link referidos",
	}
}
