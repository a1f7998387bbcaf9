package fragment

import "strings"

// longWordSet returns the set of lowercase words longer than 3
// characters in text.
func longWordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len([]rune(w)) > 3 {
			set[w] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// first5Overlap returns the fraction of the first 5 words of a and b
// that match positionally.
func first5Overlap(a, b string) float64 {
	wa := strings.Fields(strings.ToLower(a))
	wb := strings.Fields(strings.ToLower(b))
	n := 5
	if len(wa) < n {
		n = len(wa)
	}
	if len(wb) < n {
		n = len(wb)
	}
	if n == 0 {
		return 0
	}
	matches := 0
	for i := 0; i < n; i++ {
		if wa[i] == wb[i] {
			matches++
		}
	}
	return float64(matches) / 5.0
}

// isDuplicate reports whether candidate should be treated as a duplicate
// of any already-emitted text: long-word Jaccard >= jaccardThreshold OR
// first-5-word overlap >= first5Threshold.
func isDuplicate(candidate string, existing []string, jaccardThreshold, first5Threshold float64) bool {
	candSet := longWordSet(candidate)
	for _, e := range existing {
		if jaccard(candSet, longWordSet(e)) >= jaccardThreshold || first5Overlap(candidate, e) >= first5Threshold {
			return true
		}
	}
	return false
}
