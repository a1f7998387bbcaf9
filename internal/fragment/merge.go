package fragment

import (
	"sort"

	"github.com/sejmbot-go/detektor/internal/model"
)

const overlapThreshold = 50

// mergeOverlapping merges adjacent fragments whose character ranges
// overlap or are separated by fewer than overlapThreshold characters.
// Fragments are first ordered by StartChar (within a statement) so
// adjacency is meaningful.
func mergeOverlapping(fragments []model.Fragment) []model.Fragment {
	if len(fragments) < 2 {
		return fragments
	}
	ordered := make([]model.Fragment, len(fragments))
	copy(ordered, fragments)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].StatementNum != ordered[j].StatementNum {
			return ordered[i].StatementNum < ordered[j].StatementNum
		}
		return ordered[i].StartChar < ordered[j].StartChar
	})

	merged := []model.Fragment{ordered[0]}
	for _, cur := range ordered[1:] {
		last := &merged[len(merged)-1]
		if overlaps(*last, cur) {
			*last = mergeTwo(*last, cur)
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}

func overlaps(a, b model.Fragment) bool {
	if a.StatementNum != b.StatementNum {
		return false
	}
	return a.EndChar > b.StartChar-overlapThreshold
}

func mergeTwo(a, b model.Fragment) model.Fragment {
	base, other := a, b
	if b.Confidence > a.Confidence {
		base, other = b, a
	}

	seen := map[string]model.MatchedKeyword{}
	for _, mk := range base.MatchedKeywords {
		seen[mk.Keyword] = mk
	}
	for _, mk := range other.MatchedKeywords {
		if existing, ok := seen[mk.Keyword]; ok {
			existing.Count += mk.Count
			seen[mk.Keyword] = existing
		} else {
			seen[mk.Keyword] = mk
		}
	}
	merged := base
	merged.MatchedKeywords = make([]model.MatchedKeyword, 0, len(seen))
	for _, mk := range seen {
		merged.MatchedKeywords = append(merged.MatchedKeywords, mk)
	}
	sort.Slice(merged.MatchedKeywords, func(i, j int) bool {
		return merged.MatchedKeywords[i].Keyword < merged.MatchedKeywords[j].Keyword
	})
	merged.Confidence = (a.Confidence + b.Confidence) / 2
	if b.EndChar > merged.EndChar {
		merged.EndChar = b.EndChar
	}
	return merged
}

func sortByConfidenceDesc(fragments []model.Fragment) {
	sort.SliceStable(fragments, func(i, j int) bool {
		if fragments[i].Confidence != fragments[j].Confidence {
			return fragments[i].Confidence > fragments[j].Confidence
		}
		if fragments[i].StatementNum != fragments[j].StatementNum {
			return fragments[i].StatementNum < fragments[j].StatementNum
		}
		return fragments[i].StartChar < fragments[j].StartChar
	})
}

// selectDiverse caps fragments per speaker to max(1, target/10), filling
// any remainder from the highest-confidence leftovers.
func selectDiverse(fragments []model.Fragment, target int) []model.Fragment {
	if len(fragments) <= target {
		return fragments
	}
	maxPerSpeaker := target / 10
	if maxPerSpeaker < 1 {
		maxPerSpeaker = 1
	}

	selected := make([]model.Fragment, 0, target)
	counts := map[string]int{}
	var leftover []model.Fragment

	for _, f := range fragments {
		if len(selected) >= target {
			leftover = append(leftover, f)
			continue
		}
		if counts[f.SpeakerName] < maxPerSpeaker {
			selected = append(selected, f)
			counts[f.SpeakerName]++
		} else {
			leftover = append(leftover, f)
		}
	}

	if len(selected) < target {
		need := target - len(selected)
		if need > len(leftover) {
			need = len(leftover)
		}
		selected = append(selected, leftover[:need]...)
	}
	return selected
}
