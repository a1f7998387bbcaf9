package keywords

import (
	"testing"

	"github.com/sejmbot-go/detektor/internal/model"
)

func TestFindKeywordsRespectsWordBoundary(t *testing.T) {
	s := NewScorer(DefaultConfig())
	hits := s.FindKeywords("To jest prawdziwy cyrk na sali, niesamowity cyrkowiec tam był.")
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits (cyrk + cyrkowiec via \\w*), got %d: %+v", len(hits), hits)
	}
}

func TestFindKeywordsIgnoresSubstringWithinAnotherWord(t *testing.T) {
	s := NewScorer(DefaultConfig())
	hits := s.FindKeywords("Rozwiązywał skomplikowaną zagadkę przez całą noc.")
	for _, h := range hits {
		if h.Keyword == "gag" {
			t.Fatalf("matched 'gag' inside 'zagadkę', which isn't a word-start boundary: %+v", h)
		}
	}
}

func TestFindKeywordsHandlesPolishDiacriticsAtBoundary(t *testing.T) {
	s := NewScorer(DefaultConfig())
	hits := s.FindKeywords("Posłowie zareagowali śmiechem na tę żenującą wypowiedź.")
	found := map[string]bool{}
	for _, h := range hits {
		found[h.Keyword] = true
	}
	if !found["śmiech"] {
		t.Fatalf("expected to find 'śmiech' within 'śmiechem', got %+v", hits)
	}
}

func TestCountExclude(t *testing.T) {
	s := NewScorer(DefaultConfig())
	n := s.CountExclude("Zgodnie z art. ustawy oraz projekt sprawozdania komisji.")
	if n == 0 {
		t.Fatalf("expected at least one exclude keyword match")
	}
}

func TestFilterStenogramMarkers(t *testing.T) {
	s := NewScorer(DefaultConfig())
	got := s.FilterStenogramMarkers("Poseł powiedział coś (oklaski) i usiadł.")
	if got != "Poseł powiedział coś i usiadł." {
		t.Fatalf("unexpected filtered text: %q", got)
	}
}

func TestVerifyKeywordsDropsUnmatchedClaims(t *testing.T) {
	s := NewScorer(DefaultConfig())
	verified := s.VerifyKeywords("To był prawdziwy cyrk.", []string{"cyrk", "bzdura"})
	if len(verified) != 1 || verified[0] != "cyrk" {
		t.Fatalf("expected only 'cyrk' verified, got %+v", verified)
	}
}

// Keywords absurd/bzdura/cyrk (all weight 4) in a short fragment should
// land the personal_attack category, since cyrk is the only one of the
// three carrying a category tag.
func TestConfidenceWorkedExampleCategory(t *testing.T) {
	s := NewScorer(DefaultConfig())
	text := "To jest kompletny absurd i bzdura, a cała ta debata to jeden wielki cyrk."
	matched := []model.MatchedKeyword{
		{Keyword: "absurd", Count: 1, Weight: s.Weight("absurd")},
		{Keyword: "bzdura", Count: 1, Weight: s.Weight("bzdura")},
		{Keyword: "cyrk", Count: 1, Weight: s.Weight("cyrk")},
	}
	confidence, _, keywordScore := s.Confidence(text, matched)
	if keywordScore != 12 {
		t.Fatalf("expected keyword_score 12 (3 keywords x weight 4), got %d", keywordScore)
	}
	if confidence <= 0 || confidence > 0.95 {
		t.Fatalf("confidence out of expected range: %v", confidence)
	}
	if category := s.CategoryFor(matched); category != "personal_attack" {
		t.Fatalf("expected personal_attack category, got %q", category)
	}
}

func TestConfidenceForcedLowWhenExcludeCountHigh(t *testing.T) {
	s := NewScorer(DefaultConfig())
	text := "art ustawa projekt sprawozdanie komisja podkomisja żart art art art art"
	matched := []model.MatchedKeyword{{Keyword: "żart", Count: 1, Weight: s.Weight("żart")}}
	confidence, _, _ := s.Confidence(text, matched)
	if confidence != 0.1 {
		t.Fatalf("expected confidence forced to 0.1 with >4 exclude hits, got %v", confidence)
	}
}

func TestCategoryForDefaultsToOther(t *testing.T) {
	s := NewScorer(DefaultConfig())
	matched := []model.MatchedKeyword{{Keyword: "ciekawy", Count: 1, Weight: s.Weight("ciekawy")}}
	if got := s.CategoryFor(matched); got != "other" {
		t.Fatalf("expected 'other', got %q", got)
	}
}
