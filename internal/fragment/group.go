// Package fragment builds scored fragments from keyword matches:
// grouping nearby hits, windowing context around a group's center match,
// scoring and verifying, deduplicating, and the optional overlap-merge
// and diversity-cap final passes.
package fragment

import "github.com/sejmbot-go/detektor/internal/model"

// group is one cluster of nearby KeywordMatches destined to become a
// single Fragment.
type group struct {
	utteranceIdx int
	matches      []model.KeywordMatch
	center       model.KeywordMatch
}

// groupMatches clusters matches (already sorted by utterance index then
// word position, as keywords.Scorer.DetectMatches returns them) into
// groups, extending the current group while the next match is in the
// same utterance and within distance words.
func groupMatches(matches []model.KeywordMatch, distance int) []group {
	if len(matches) == 0 {
		return nil
	}
	var groups []group
	cur := []model.KeywordMatch{matches[0]}

	flush := func() {
		if len(cur) == 0 {
			return
		}
		groups = append(groups, group{
			utteranceIdx: cur[0].UtteranceIdx,
			matches:      cur,
			center:       centerMatch(cur),
		})
	}

	for i := 1; i < len(matches); i++ {
		prev := cur[len(cur)-1]
		m := matches[i]
		if shouldGroup(prev, m, distance) {
			cur = append(cur, m)
			continue
		}
		flush()
		cur = []model.KeywordMatch{m}
	}
	flush()
	return groups
}

func shouldGroup(a, b model.KeywordMatch, distance int) bool {
	if a.UtteranceIdx != b.UtteranceIdx {
		return false
	}
	d := b.WordPosition - a.WordPosition
	if d < 0 {
		d = -d
	}
	return d <= distance
}

// centerMatch picks the group member with the highest base confidence,
// ties broken by earliest word position (earliest in cur, since cur is
// already position-ordered).
func centerMatch(matches []model.KeywordMatch) model.KeywordMatch {
	best := matches[0]
	for _, m := range matches[1:] {
		if m.BaseConfidence > best.BaseConfidence {
			best = m
		}
	}
	return best
}
