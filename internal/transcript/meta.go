package transcript

import (
	"regexp"
	"strings"
)

var kadencjaRe = regexp.MustCompile(`(?i)kadencja\s+([IVX]+)`)
var posiedzenieRe = regexp.MustCompile(`(?i)(\d+)\.\s*posiedzeni[a-z]*`)
var sejmRe = regexp.MustCompile(`(?i)sejm\s+rzeczypospolitej\s+polskiej`)
var dataRe = regexp.MustCompile(`(?i)w\s+dniu\s+(\d+\s+\S+\s+\d{4})`)
var collapseSpaceRe = regexp.MustCompile(`\s+`)

// extractSittingInfo pulls sitting metadata from the first 1,500 runes of
// the raw (uncleaned) transcript.
func extractSittingInfo(rawText string) SittingInfo {
	header := headRunes(rawText, 1500)

	info := SittingInfo{}
	if sejmRe.MatchString(header) {
		info.Sejm = "Sejm RP"
	}
	if m := kadencjaRe.FindStringSubmatch(header); m != nil {
		info.Kadencja = "Kadencja " + strings.ToUpper(m[1])
	}
	if m := posiedzenieRe.FindStringSubmatch(header); m != nil {
		info.Posiedzenie = m[1] + ". posiedzenie"
	}
	if m := dataRe.FindStringSubmatch(header); m != nil {
		info.Data = strings.TrimSpace(collapseSpaceRe.ReplaceAllString(m[1], " "))
	}
	return info
}

func headRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
