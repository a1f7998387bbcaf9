package aiprovider

import (
	"fmt"
	"strings"
)

// systemPrompt is the shared criteria/negatives instruction every
// adapter sends.
const systemPrompt = `Oceniasz, czy fragment wypowiedzi z polskiego Sejmu jest zamierzenie śmieszny.
Bierz pod uwagę: zamierzony humor, ironię, absurd, gafy, reakcję sali.
Nie oceniaj jako śmieszne: neutralnych zasług merytorycznych, standardowej procedury.
Odpowiedz WYŁĄCZNIE obiektem JSON: {"is_funny": bool, "confidence": 0..1, "reason": "krótkie uzasadnienie"}.`

// buildUserMessage prefixes the fragment text and, when evalCtx carries
// speaker/keyword hints, appends them.
func buildUserMessage(text string, evalCtx EvalContext) string {
	var b strings.Builder
	b.WriteString(text)
	if evalCtx.SpeakerName != "" {
		b.WriteString(fmt.Sprintf("\n\nMówca: %s", evalCtx.SpeakerName))
		if evalCtx.SpeakerClub != "" {
			b.WriteString(fmt.Sprintf(" (%s)", evalCtx.SpeakerClub))
		}
	}
	if len(evalCtx.Keywords) > 0 {
		b.WriteString(fmt.Sprintf("\nSłowa kluczowe: %s", strings.Join(evalCtx.Keywords, ", ")))
	}
	return b.String()
}

// extractJSONObject locates the first '{' and last '}' in raw and
// returns the substring between them (models may prepend prose before
// the JSON object).
func extractJSONObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}
