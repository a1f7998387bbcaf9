// Package transcript implements the single-pass stenogram parser:
// table-of-contents stripping, hyphenation repair, speaker detection,
// and utterance extraction.
package transcript

import (
	"regexp"
	"strings"

	"github.com/sejmbot-go/detektor/internal/model"
)

// ClubFinder resolves a cleaned speaker name to a canonical club, when
// known. Implemented by internal/roster.Matcher; declared here so this
// package doesn't import roster directly.
type ClubFinder interface {
	FindClub(name string) (club string, ok bool)
}

// SittingInfo is the metadata block extracted from a transcript's header.
type SittingInfo struct {
	Sejm        string
	Kadencja    string
	Posiedzenie string
	Data        string
	Plik        string
}

// Stats accumulates per-parse counters for observability.
type Stats struct {
	TotalUtterances         int
	UtterancesWithClub      int
	UtterancesWithoutClub   int
	UnknownSpeakers         int
	SkippedProtocolElements int
	TotalWords              int
}

// Result is the full output of one parse.
type Result struct {
	Utterances  []model.Utterance
	SittingInfo SittingInfo
	TotalWords  int
	Stats       Stats
}

// Parser segments transcripts with the package-level compiled pattern
// families; it holds only the optional ClubFinder.
type Parser struct {
	clubs ClubFinder
}

// NewParser builds a Parser. clubs may be nil, in which case every
// speaker resolves with an empty club.
func NewParser(clubs ClubFinder) *Parser {
	return &Parser{clubs: clubs}
}

// Parse segments rawText into speaker-attributed utterances in one pass.
func (p *Parser) Parse(rawText, sourceName string) Result {
	if strings.TrimSpace(rawText) == "" {
		return Result{SittingInfo: SittingInfo{}, Stats: Stats{}}
	}

	cleaned := cleanText(rawText)
	info := extractSittingInfo(rawText)
	info.Plik = sourceName
	utterances, stats := p.splitIntoUtterances(cleaned, rawText)

	totalWords := 0
	for _, u := range utterances {
		totalWords += u.WordCount()
	}
	stats.TotalWords = totalWords
	stats.TotalUtterances = len(utterances)

	return Result{Utterances: utterances, SittingInfo: info, TotalWords: totalWords, Stats: stats}
}

var tocMarkers = []string{"spis", "porządek dziennego", "punkt 1.", "punkt 2."}
var tocEndMarkers = []string{"Poseł ", "Minister ", "Marszałek "}

var horizontalWhitespaceRe = regexp.MustCompile(`[ \t]+`)

// cleanText strips the table of contents, repairs hyphenated words, and
// collapses horizontal whitespace while preserving newlines.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	skippingTOC := false

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)

		if containsAny(lower, tocMarkers) {
			skippingTOC = true
			continue
		}
		if skippingTOC && containsAny(line, tocEndMarkers) {
			skippingTOC = false
		}
		if !skippingTOC && len(line) > 10 {
			kept = append(kept, line)
		}
	}

	joined := strings.Join(kept, "\n")
	joined = fixHyphenatedWords(joined)
	joined = horizontalWhitespaceRe.ReplaceAllString(joined, " ")
	return joined
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
