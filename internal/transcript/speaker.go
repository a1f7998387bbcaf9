package transcript

import (
	"regexp"
	"strings"
)

// speakerPattern pairs a compiled speaker cue with whether it captures an
// inline club name.
type speakerPattern struct {
	re      *regexp.Regexp
	hasClub bool
}

// titleCaseWord matches a single capitalized Polish word via Unicode letter
// categories, avoiding a hand-maintained diacritic table.
const titleCaseWord = `\p{Lu}\p{Ll}+`

var bareNameWithClub = regexp.MustCompile(`^(` + titleCaseWord + `\s+` + titleCaseWord + `(?:\s+` + titleCaseWord + `)?)\s*\(([^)]+)\)\s*:`)
var bareNameNoClub = regexp.MustCompile(`^(` + titleCaseWord + `\s+` + titleCaseWord + `(?:\s+` + titleCaseWord + `)?)\s*:`)

// speakerPatterns is tried in order; with-club variants are preferred
// over bare-name variants.
var speakerPatterns = []speakerPattern{
	{regexp.MustCompile(`(?i)^Poseł(?:anka)?\s+([^:()]+?)\s*\(([^)]+)\)\s*:`), true},
	{regexp.MustCompile(`(?i)^(?:Wice)?marszałek\s+([^:()]+?)\s*\(([^)]+)\)\s*:`), true},
	{regexp.MustCompile(`(?i)^Minister\s+([^:()]+?)\s*\(([^)]+)\)\s*:`), true},
	{regexp.MustCompile(`(?i)^Przewodniczący\s+([^:()]+?)\s*\(([^)]+)\)\s*:`), true},
	{regexp.MustCompile(`(?i)^Sekretarz\s+([^:()]+?)\s*\(([^)]+)\)\s*:`), true},
	{bareNameWithClub, true},

	{regexp.MustCompile(`(?i)^Poseł(?:anka)?\s+([^:()]+?)(?:\s*\([^)]+\))?\s*:`), false},
	{regexp.MustCompile(`(?i)^(?:Wice)?marszałek\s+([^:()]+?)(?:\s*\([^)]+\))?\s*:`), false},
	{regexp.MustCompile(`(?i)^Minister\s+([^:()]+?)(?:\s*\([^)]+\))?\s*:`), false},
	{regexp.MustCompile(`(?i)^Przewodniczący\s+([^:()]+?)(?:\s*\([^)]+\))?\s*:`), false},
	{regexp.MustCompile(`(?i)^Sekretarz\s+([^:()]+?)(?:\s*\([^)]+\))?\s*:`), false},
	{bareNameNoClub, false},
}

var skipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*\(.*\)\s*$`),
	regexp.MustCompile(`^\s*\[.*\]\s*$`),
	regexp.MustCompile(`(?i)^\s*Głosy?\s+z\s+sali\s*:`),
	regexp.MustCompile(`^\s*\d+\.\s*$`),
	regexp.MustCompile(`(?i)^\s*Punkt\s+\d+`),
	regexp.MustCompile(`(?i)^\s*Przerwa\s*$`),
	regexp.MustCompile(`(?i)^\s*Koniec\s+posiedzenia`),
}

var titlePrefixRe = regexp.MustCompile(`(?i)^(Poseł|Posłanka|Marszałek|Wicemarszałek|Minister|Przewodniczący|Sekretarz)\s+`)
var trailingClubRe = regexp.MustCompile(`\s*\([^)]+\)\s*$`)

// findSpeaker tries each speaker pattern in order and returns the matched
// text, the raw (uncleaned) captured name, and the inline club if any.
func findSpeaker(line string) (matchText, rawName, club string, ok bool) {
	for _, sp := range speakerPatterns {
		m := sp.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if sp.hasClub {
			return m[0], strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
		}
		return m[0], strings.TrimSpace(m[1]), "", true
	}
	return "", "", "", false
}

// cleanSpeakerName strips a leading title and any trailing "(Club)" suffix.
func cleanSpeakerName(rawName string) string {
	cleaned := titlePrefixRe.ReplaceAllString(rawName, "")
	cleaned = trailingClubRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

func shouldSkipLine(line string) bool {
	for _, re := range skipPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
