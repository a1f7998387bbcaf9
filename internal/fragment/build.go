package fragment

import (
	"strings"

	"github.com/sejmbot-go/detektor/internal/config"
	"github.com/sejmbot-go/detektor/internal/keywords"
	"github.com/sejmbot-go/detektor/internal/model"
)

// Extractor builds Fragments from a parsed transcript's Utterances and
// keyword matches.
type Extractor struct {
	scorer *keywords.Scorer
	cfg    config.DetectionConfig
}

// NewExtractor builds an Extractor backed by scorer, using cfg's window
// sizes and thresholds.
func NewExtractor(scorer *keywords.Scorer, cfg config.DetectionConfig) *Extractor {
	return &Extractor{scorer: scorer, cfg: cfg}
}

// Input is one transcript's worth of extractor input: the parsed
// utterances belonging to a single statement, the keyword matches found
// within them (keywords.Scorer.DetectMatches), and the statement's raw
// (pre-cleaning) text used for sentence-context lookup.
type Input struct {
	StatementNum int
	Utterances   []model.Utterance
	Matches      []model.KeywordMatch
	RawText      string
}

// Build runs the full extraction pipeline over in: grouping, windowing,
// verification, scoring, sentence context, deduplication, skip policy,
// and the optional overlap-merge / diversity-cap final passes. The
// returned slice is sorted by confidence descending, ties by earliest
// position.
func (e *Extractor) Build(in Input) []model.Fragment {
	groups := groupMatches(in.Matches, e.cfg.GroupingDistanceWords)

	var fragments []model.Fragment
	var texts []string
	for _, g := range groups {
		if g.utteranceIdx < 0 || g.utteranceIdx >= len(in.Utterances) {
			continue
		}
		u := in.Utterances[g.utteranceIdx]
		frag, ok := e.buildFromGroup(g, u, in.StatementNum, in.RawText)
		if !ok {
			continue
		}
		if isDuplicate(frag.Text, texts, e.cfg.DedupJaccardThreshold, e.cfg.DedupFirst5Threshold) {
			continue
		}
		if e.shouldSkip(frag) {
			continue
		}
		fragments = append(fragments, frag)
		texts = append(texts, frag.Text)
	}

	if e.cfg.EnableOverlapMerge {
		fragments = mergeOverlapping(fragments)
	}

	sortByConfidenceDesc(fragments)

	if e.cfg.EnableDiversityCap && e.cfg.TargetFragmentCount > 0 {
		fragments = selectDiverse(fragments, e.cfg.TargetFragmentCount)
	}

	return fragments
}

func (e *Extractor) buildFromGroup(g group, u model.Utterance, statementNum int, rawText string) (model.Fragment, bool) {
	words := strings.Fields(u.Text)
	if len(words) == 0 {
		return model.Fragment{}, false
	}

	center := g.center.WordPosition
	start := center - e.cfg.ContextBeforeWords
	if start < 0 {
		start = 0
	}
	end := center + e.cfg.ContextAfterWords + 1
	if end > len(words) {
		end = len(words)
	}
	if start >= end {
		return model.Fragment{}, false
	}

	text := strings.Join(words[start:end], " ")
	if len(text) < 10 {
		return model.Fragment{}, false
	}

	claimed := uniqueKeywords(g.matches)
	verified := e.scorer.VerifyKeywords(text, claimed)
	if len(verified) == 0 {
		return model.Fragment{}, false
	}

	matched := make([]model.MatchedKeyword, 0, len(verified))
	for _, kw := range verified {
		matched = append(matched, model.MatchedKeyword{
			Keyword: kw,
			Count:   e.scorer.CountKeyword(text, kw),
			Weight:  e.scorer.Weight(kw),
		})
	}

	confidence, scores, keywordScore := e.scorer.Confidence(text, matched)
	category := e.scorer.CategoryFor(matched)

	startChar, endChar := wordRangeToCharRange(u.WordPositions, words, start, end)
	rawPos := approxRawPosition(u, startChar)
	ctxBefore, ctxAfter := sentenceContext(rawText, rawPos)

	frag := model.Fragment{
		ID:              model.NewFragmentID(),
		StatementNum:    statementNum,
		Text:            text,
		ContextBefore:   ctxBefore,
		ContextAfter:    ctxAfter,
		MatchedKeywords: matched,
		Scores:          scores,
		Confidence:      confidence,
		Category:        category,
		TooShort:        len(strings.Fields(text)) < e.cfg.TooShortWordCount,
		SpeakerName:     u.Speaker.DisplayName(),
		SpeakerClub:     u.Speaker.Club,
		StartChar:       startChar,
		EndChar:         endChar,
		UtteranceIdx:    u.Index,
	}
	_ = keywordScore // integer sum-of-weights, diagnostic only
	return frag, true
}

func uniqueKeywords(matches []model.KeywordMatch) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.Keyword]; ok {
			continue
		}
		seen[m.Keyword] = struct{}{}
		out = append(out, m.Keyword)
	}
	return out
}

func wordRangeToCharRange(wordPositions []int, words []string, start, end int) (startChar, endChar int) {
	if start < len(wordPositions) {
		startChar = wordPositions[start]
	}
	if end-1 >= 0 && end-1 < len(wordPositions) {
		endChar = wordPositions[end-1] + len(words[end-1])
	} else if len(wordPositions) > 0 {
		endChar = wordPositions[len(wordPositions)-1]
	}
	return startChar, endChar
}

// approxRawPosition maps a char offset within an utterance's cleaned
// text back to an offset in the statement's raw text, via the same
// length-ratio approximation as transcript.Parse's position sync.
func approxRawPosition(u model.Utterance, charInText int) int {
	textLen := len(u.Text)
	if textLen == 0 {
		return u.ByteOffset
	}
	ratio := float64(len(u.RawText)) / float64(textLen)
	return u.ByteOffset + int(float64(charInText)*ratio)
}

// shouldSkip applies the post-scoring skip policy: low confidence,
// unattributed speakers without strong confidence, and tiny windows.
func (e *Extractor) shouldSkip(f model.Fragment) bool {
	if f.Confidence < e.cfg.MinConfidence {
		return true
	}
	if f.SpeakerName == model.UnknownSpeaker && f.Confidence < 0.6 {
		return true
	}
	if len(strings.Fields(f.Text)) < 5 {
		return true
	}
	return false
}
