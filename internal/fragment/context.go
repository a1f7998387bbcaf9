package fragment

import "regexp"

var sentenceSplitRe = regexp.MustCompile(`[^.!?]*[.!?]+|[^.!?]+$`)

// sentenceSpan is one sentence's trimmed text and its byte range within
// the text it was split from.
type sentenceSpan struct {
	text       string
	start, end int
}

func splitSentences(text string) []sentenceSpan {
	locs := sentenceSplitRe.FindAllStringIndex(text, -1)
	spans := make([]sentenceSpan, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, sentenceSpan{text: text[loc[0]:loc[1]], start: loc[0], end: loc[1]})
	}
	return spans
}

// sentenceContext returns the sentence immediately before and after the
// sentence containing pos. Either may be empty when pos falls in the
// first/last sentence.
func sentenceContext(text string, pos int) (before, after string) {
	spans := splitSentences(text)
	if len(spans) == 0 {
		return "", ""
	}
	idx := -1
	for i, s := range spans {
		if pos >= s.start && pos < s.end {
			idx = i
			break
		}
	}
	if idx == -1 {
		idx = len(spans) - 1
	}
	if idx > 0 {
		before = trimSpace(spans[idx-1].text)
	}
	if idx+1 < len(spans) {
		after = trimSpace(spans[idx+1].text)
	}
	return before, after
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpaceByte(s[start]) {
		start++
	}
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
