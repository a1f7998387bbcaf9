package roster

import (
	"regexp"
	"strings"
)

var titles = []string{"dr", "prof", "mgr", "inż", "ks", "gen"}

var parenRe = regexp.MustCompile(`\([^)]*\)`)
var titlePrefixRe = regexp.MustCompile(`(?i)^(Poseł|Posłanka|Marszałek|Wicemarszałek|Minister|Przewodniczący|Sekretarz)\s+`)
var brakKlubuRe = regexp.MustCompile(`(?i)\bbrak\s+klubu\b`)
var whitespaceRe = regexp.MustCompile(`\s+`)

// extractNameFromSpeaker strips bracketed asides, an official title, and a
// stray "brak klubu" marker from a raw speaker string.
func extractNameFromSpeaker(speakerRaw string) string {
	name := parenRe.ReplaceAllString(speakerRaw, "")
	name = strings.TrimSpace(name)
	name = titlePrefixRe.ReplaceAllString(name, "")
	name = brakKlubuRe.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// normalizeName lowercases and collapses whitespace, optionally stripping
// academic/official titles and hyphens from a trailing compound surname.
func normalizeName(name string, removeTitles, removeHyphens bool) string {
	if name == "" {
		return ""
	}
	normalized := strings.TrimSpace(name)

	if removeTitles {
		for _, title := range titles {
			re := regexp.MustCompile(`(?i)\b` + title + `\.?\s+`)
			normalized = re.ReplaceAllString(normalized, "")
		}
	}

	if removeHyphens {
		parts := strings.Fields(normalized)
		if len(parts) >= 2 {
			last := strings.ReplaceAll(parts[len(parts)-1], "-", "")
			parts = append(parts[:len(parts)-1], last)
			normalized = strings.Join(parts, " ")
		}
	}

	normalized = whitespaceRe.ReplaceAllString(normalized, " ")
	return strings.ToLower(strings.TrimSpace(normalized))
}

// normalizedVariants returns the three normalization passes tried in order
// during both cache-building and exact lookup.
func normalizedVariants(name string) []string {
	return []string{
		normalizeName(name, false, false),
		normalizeName(name, true, false),
		normalizeName(name, true, true),
	}
}
