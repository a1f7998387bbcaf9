package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/sejmbot-go/detektor/internal/model"
)

// Hit is one keyword occurrence found by FindKeywords, sorted by
// character position.
type Hit struct {
	Keyword string
	CharPos int
}

// Scorer holds compiled-once keyword data for a Config. Keyword
// word-boundary semantics are hand-rolled (see findWordBoundaryMatches)
// because Go's RE2 \b is ASCII-only and Polish letters must count as
// word characters.
type Scorer struct {
	cfg              Config
	excludePattern   *regexp.Regexp
	stenogramPattern *regexp.Regexp
}

// NewScorer compiles cfg into a ready-to-use Scorer.
func NewScorer(cfg Config) *Scorer {
	s := &Scorer{cfg: cfg}
	if len(cfg.ExcludeKeywords) > 0 {
		parts := make([]string, 0, len(cfg.ExcludeKeywords))
		for kw := range cfg.ExcludeKeywords {
			parts = append(parts, regexp.QuoteMeta(kw))
		}
		sort.Strings(parts)
		s.excludePattern = regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\w*`)
	}
	markerParts := make([]string, 0, len(stenogramMarkers))
	for _, m := range stenogramMarkers {
		markerParts = append(markerParts, regexp.QuoteMeta(m))
	}
	s.stenogramPattern = regexp.MustCompile(`(?i)[\[(][^\])]*(?:` + strings.Join(markerParts, "|") + `)[^\])]*[\])]`)
	return s
}

// isWordRune treats any Unicode letter or digit, plus underscore, as a
// word character so Polish diacritics count for boundary purposes.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// findWordBoundaryMatches returns the byte offsets in text where keyword
// occurs at a word-start boundary (case-insensitive), i.e. `\b<kw>\w*`
// semantics: the keyword's own end need not be a boundary since \w*
// consumes any further word runes.
func findWordBoundaryMatches(text, keyword string) []int {
	if keyword == "" {
		return nil
	}
	lowerText := []rune(strings.ToLower(text))
	lowerKw := []rune(strings.ToLower(keyword))
	n, m := len(lowerText), len(lowerKw)
	if m == 0 || m > n {
		return nil
	}

	// byteOffsets[i] is the byte offset of rune i in the original text.
	byteOffsets := make([]int, 0, n+1)
	bi := 0
	for _, r := range text {
		byteOffsets = append(byteOffsets, bi)
		bi += len(string(r))
	}
	byteOffsets = append(byteOffsets, bi)

	var out []int
	for i := 0; i+m <= n; i++ {
		if i > 0 && isWordRune(lowerText[i-1]) {
			continue
		}
		if !runesEqual(lowerText[i:i+m], lowerKw) {
			continue
		}
		out = append(out, byteOffsets[i])
	}
	return out
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FindKeywords returns every configured keyword occurrence in text,
// sorted by character (byte) position.
func (s *Scorer) FindKeywords(text string) []Hit {
	var hits []Hit
	for kw := range s.cfg.FunnyKeywords {
		for _, pos := range findWordBoundaryMatches(text, kw) {
			hits = append(hits, Hit{Keyword: kw, CharPos: pos})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].CharPos != hits[j].CharPos {
			return hits[i].CharPos < hits[j].CharPos
		}
		return hits[i].Keyword < hits[j].Keyword
	})
	return hits
}

// CountExclude counts exclude-keyword occurrences in text via the
// combined exclude regex.
func (s *Scorer) CountExclude(text string) int {
	if s.excludePattern == nil {
		return 0
	}
	return len(s.excludePattern.FindAllString(text, -1))
}

// FilterStenogramMarkers removes parenthetical stenogram-marker groups
// (e.g. "(oklaski)", "[śmiech]") and collapses the resulting whitespace.
func (s *Scorer) FilterStenogramMarkers(text string) string {
	stripped := s.stenogramPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(stripped), " ")
}

// VerifyKeywords returns the subset of claimed keywords that actually
// match text under word-boundary semantics.
func (s *Scorer) VerifyKeywords(text string, claimed []string) []string {
	verified := make([]string, 0, len(claimed))
	for _, kw := range claimed {
		if len(findWordBoundaryMatches(text, kw)) > 0 {
			verified = append(verified, kw)
		}
	}
	return verified
}

// CountKeyword returns how many times keyword occurs in text under
// word-boundary semantics.
func (s *Scorer) CountKeyword(text, keyword string) int {
	return len(findWordBoundaryMatches(text, keyword))
}

// Confidence computes a fragment's confidence and diagnostic sub-scores
// from its text and its verified matched keywords. keywordScore is the
// diagnostic integer sum-of-weights, returned unchanged and never used
// for gating.
func (s *Scorer) Confidence(text string, matched []model.MatchedKeyword) (confidence float64, scores model.FragmentScores, keywordScore int) {
	sumWeights := 0
	for _, mk := range matched {
		sumWeights += mk.Weight * mk.Count
		keywordScore += mk.Weight * mk.Count
	}
	base := min(0.7, float64(sumWeights)*0.15)

	unique := len(matched)
	varietyBonus := min(0.15, 0.05*float64(unique))

	excludeCount := s.CountExclude(text)
	excludePenalty := 0.08 * float64(excludeCount)

	wordCount := len(strings.Fields(text))
	lengthModifier := 1.0
	switch {
	case wordCount < 8:
		lengthModifier = 0.8
	case wordCount > 50:
		lengthModifier = 1.1
	}

	raw := (base + varietyBonus - excludePenalty) * lengthModifier
	confidence = clamp(raw, 0.1, 0.95)
	if excludeCount > 4 {
		confidence = 0.1
	}

	scores = model.FragmentScores{
		KeywordScore: base,
		ContextScore: varietyBonus - excludePenalty,
		LengthBonus:  lengthModifier,
	}
	return confidence, scores, keywordScore
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// CategoryFor picks the humor category with the highest summed keyword
// weight among matched keywords, breaking ties by the configured
// category insertion order and defaulting to "other" when no category
// scores positively.
func (s *Scorer) CategoryFor(matched []model.MatchedKeyword) string {
	scores := map[string]int{}
	for category, kws := range s.cfg.HumorCategoryKeywords {
		for _, kw := range kws {
			for _, mk := range matched {
				if mk.Keyword == kw {
					scores[category] += s.cfg.Weight(kw) * mk.Count
				}
			}
		}
	}

	best := "other"
	bestScore := 0
	for _, category := range categoryOrder {
		if category == "other" {
			continue
		}
		if sc := scores[category]; sc > bestScore {
			bestScore = sc
			best = category
		}
	}
	return best
}
