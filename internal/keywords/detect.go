package keywords

import (
	"sort"
	"strings"

	"github.com/sejmbot-go/detektor/internal/model"
)

// contextRadius is how many words around a keyword hit are captured as
// ContextWords.
const contextRadius = 10

// DetectMatches scans the cleaned text of every utterance with at least
// 5 words for keyword hits (shorter utterances are skipped)
// and returns the full KeywordMatch list, sorted by (utterance index,
// word position) as fragment grouping expects.
func (s *Scorer) DetectMatches(utterances []model.Utterance) []model.KeywordMatch {
	var matches []model.KeywordMatch
	for idx, u := range utterances {
		if u.WordCount() < 5 {
			continue
		}
		words := strings.Fields(u.Text)
		for _, hit := range s.FindKeywords(u.Text) {
			weight := s.cfg.Weight(hit.Keyword)
			wordPos := wordPositionFor(u.WordPositions, hit.CharPos)
			matches = append(matches, model.KeywordMatch{
				Keyword:        hit.Keyword,
				UtteranceIdx:   idx,
				WordPosition:   wordPos,
				CharPosition:   hit.CharPos,
				ContextWords:   contextWords(words, wordPos),
				Category:       s.categoryForKeyword(hit.Keyword),
				BaseConfidence: min(0.7, float64(weight)*0.15),
			})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].UtteranceIdx != matches[j].UtteranceIdx {
			return matches[i].UtteranceIdx < matches[j].UtteranceIdx
		}
		return matches[i].WordPosition < matches[j].WordPosition
	})
	return matches
}

// wordPositionFor finds the index of the word containing charPos, via
// the last entry of wordPositions not exceeding it.
func wordPositionFor(wordPositions []int, charPos int) int {
	idx := sort.Search(len(wordPositions), func(i int) bool {
		return wordPositions[i] > charPos
	})
	if idx == 0 {
		return 0
	}
	return idx - 1
}

func contextWords(words []string, center int) []string {
	if len(words) == 0 {
		return nil
	}
	start := center - contextRadius
	if start < 0 {
		start = 0
	}
	end := center + contextRadius + 1
	if end > len(words) {
		end = len(words)
	}
	if start >= end {
		return nil
	}
	out := make([]string, end-start)
	copy(out, words[start:end])
	return out
}

// categoryForKeyword returns the single humor category a keyword belongs
// to (first match in the fixed category order), or "other".
func (s *Scorer) categoryForKeyword(keyword string) string {
	for _, category := range categoryOrder {
		for _, kw := range s.cfg.HumorCategoryKeywords[category] {
			if kw == keyword {
				return category
			}
		}
	}
	return "other"
}
