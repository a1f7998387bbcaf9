package transcript

import (
	"regexp"
	"strings"
	"unicode"
)

// hyphenAllowList preserves the hyphen when either side of the join
// would otherwise form one of these (sub)strings.
var hyphenAllowList = []string{
	"ex-minister", "wice-premier", "post-komunist", "anty-europejsk",
	"pro-unijn", "pseudo-", "multi-", "inter-", "super-",
}

// hyphenEndings are morphological suffixes that indicate word2 completes a
// single Polish word rather than starting a new one.
var hyphenEndings = []string{
	"lament", "ment", "owy", "ny", "ski", "cki", "nej", "ty", "nia", "arz", "yczny",
}

var hyphenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)(\w+)\s*-\s*\n\s*(\w+)`),
	regexp.MustCompile(`(\w+)\s*-\s+(\w+)`),
	regexp.MustCompile(`(\w+)\s+-\s*(\w+)`),
	regexp.MustCompile(`(\w{2,})-(\w{2,})`),
}

// fixHyphenatedWords joins words split across a hyphen (typically a line
// wrap in the source PDF) unless the allow-list or the typical-ending
// heuristic says the hyphen is a genuine word-forming hyphen.
func fixHyphenatedWords(text string) string {
	result := text
	for _, re := range hyphenPatterns {
		result = re.ReplaceAllStringFunc(result, func(match string) string {
			groups := re.FindStringSubmatch(match)
			if len(groups) != 3 {
				return match
			}
			return joinHyphenatedPair(groups[1], groups[2])
		})
	}
	return result
}

func joinHyphenatedPair(before, after string) string {
	if shouldPreserveHyphen(before, after) {
		return before + "-" + after
	}
	if after == "" {
		return before + "-" + after
	}
	firstRune := []rune(after)[0]
	if unicode.IsLower(firstRune) || len(before) <= 4 || hasTypicalEnding(after) {
		return before + after
	}
	return before + "-" + after
}

func shouldPreserveHyphen(before, after string) bool {
	phrase := strings.ToLower(before + "-" + after)
	for _, exception := range hyphenAllowList {
		if strings.Contains(phrase, exception) {
			return true
		}
	}
	return false
}

func hasTypicalEnding(word string) bool {
	lower := strings.ToLower(word)
	for _, ending := range hyphenEndings {
		if strings.HasSuffix(lower, ending) {
			return true
		}
	}
	return false
}
