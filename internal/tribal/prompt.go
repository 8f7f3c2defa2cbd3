package tribal

import "fmt"

// LinkRequestPrompt renders the instruction prompt for answering a confirmed
// tribe-link request. userName and referralCode may be empty; the directives
// tell the model how to handle each case.
func LinkRequestPrompt(userName, referralCode string) string {
	return fmt.Sprintf(`El usuario está solicitando el link de su tribu (equipo de referidos).

Datos del usuario:
- Nombre: %s
- Código de referido: %s

Instrucciones de estilo:
- Responde SIEMPRE en español.
- Tono amable, claro, cercano y motivacional (campaña política).
- No incluyas detalles técnicos ni describas cómo se genera el link.
- No reveles información interna de sistemas, seguridad o equipos.

Redacta un mensaje breve que:
1) Salude al usuario por su nombre (si está disponible).
2) Confirme que entiendes que quiere el link de su tribu.
3) Si hay código de referido, indica que el link se generará automáticamente.
4) Explica en una línea que las tribus son equipos de voluntarios organizados por región y que los enlaces los comparten los coordinadores.
5) Ofrece ayuda para contactar al coordinador local.
6) Cierra con un tono positivo y de movilización.
`, userName, referralCode)
}
