package fragment

import (
	"testing"

	"github.com/sejmbot-go/detektor/internal/config"
	"github.com/sejmbot-go/detektor/internal/keywords"
	"github.com/sejmbot-go/detektor/internal/model"
)

func testUtterance(text string) model.Utterance {
	return model.Utterance{
		Index:         0,
		Speaker:       model.Speaker{Name: "Jan Kowalski", Club: "KO"},
		Text:          text,
		RawText:       text,
		ByteOffset:    0,
		WordPositions: wordPositionsFor(text),
	}
}

// wordPositionsFor is a small test helper mirroring transcript.wordPositions,
// kept local to avoid importing the transcript package from fragment's tests.
func wordPositionsFor(text string) []int {
	var positions []int
	inWord := false
	for i, r := range text {
		isSpace := r == ' ' || r == '\n' || r == '\t' || r == '\r'
		if !isSpace && !inWord {
			positions = append(positions, i)
			inWord = true
		} else if isSpace {
			inWord = false
		}
	}
	return positions
}

func buildExtractor() *Extractor {
	cfg := config.Default().Detection
	cfg.TooShortWordCount = 3
	cfg.MinConfidence = 0.0
	scorer := keywords.NewScorer(keywords.DefaultConfig())
	return NewExtractor(scorer, cfg)
}

func TestBuildProducesFragmentWithVerifiedKeyword(t *testing.T) {
	text := "Poseł powiedział, że cała ta debata to jeden wielki cyrk i bzdura."
	u := testUtterance(text)
	scorer := keywords.NewScorer(keywords.DefaultConfig())
	matches := scorer.DetectMatches([]model.Utterance{u})
	if len(matches) == 0 {
		t.Fatalf("expected keyword matches in fixture text")
	}

	e := buildExtractor()
	fragments := e.Build(Input{
		StatementNum: 7,
		Utterances:   []model.Utterance{u},
		Matches:      matches,
		RawText:      text,
	})
	if len(fragments) == 0 {
		t.Fatalf("expected at least one fragment")
	}
	f := fragments[0]
	if f.StatementNum != 7 {
		t.Fatalf("expected statement num 7, got %d", f.StatementNum)
	}
	if len(f.MatchedKeywords) == 0 {
		t.Fatalf("expected at least one matched keyword")
	}
	if f.SpeakerName != "Jan Kowalski" || f.SpeakerClub != "KO" {
		t.Fatalf("unexpected speaker attribution: %+v", f)
	}
}

func TestGroupMatchesClustersWithinDistance(t *testing.T) {
	matches := []model.KeywordMatch{
		{Keyword: "cyrk", UtteranceIdx: 0, WordPosition: 10, BaseConfidence: 0.6},
		{Keyword: "bzdura", UtteranceIdx: 0, WordPosition: 15, BaseConfidence: 0.6},
		{Keyword: "absurd", UtteranceIdx: 0, WordPosition: 200, BaseConfidence: 0.6},
	}
	groups := groupMatches(matches, 50)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups (near pair + distant outlier), got %d", len(groups))
	}
	if len(groups[0].matches) != 2 {
		t.Fatalf("expected first group to contain the 2 nearby matches, got %d", len(groups[0].matches))
	}
}

func TestGroupMatchesSeparatesDifferentUtterances(t *testing.T) {
	matches := []model.KeywordMatch{
		{Keyword: "cyrk", UtteranceIdx: 0, WordPosition: 5, BaseConfidence: 0.6},
		{Keyword: "bzdura", UtteranceIdx: 1, WordPosition: 5, BaseConfidence: 0.6},
	}
	groups := groupMatches(matches, 50)
	if len(groups) != 2 {
		t.Fatalf("expected groups to never span utterances, got %d", len(groups))
	}
}

func TestIsDuplicateByJaccard(t *testing.T) {
	existing := []string{"to jest kompletny absurd i totalna bzdura mówiona przez posła"}
	candidate := "wczoraj to jest kompletny absurd i totalna bzdura mówiona przez posła"
	if !isDuplicate(candidate, existing, 0.85, 0.8) {
		t.Fatalf("expected near-identical fragments to be flagged as duplicates")
	}
}

func TestIsDuplicateByFirst5Overlap(t *testing.T) {
	existing := []string{"poseł kowalski powiedział że cała sala wybuchła śmiechem na sali"}
	candidate := "poseł kowalski powiedział że cała debata toczyła się zupełnie inaczej"
	if !isDuplicate(candidate, existing, 0.99, 0.8) {
		t.Fatalf("expected first-5-word overlap to trigger duplicate detection")
	}
}

func TestIsDuplicateFalseForDistinctText(t *testing.T) {
	existing := []string{"poseł nowak mówił o budżecie i podatkach przez długi czas"}
	candidate := "minister przedstawił zupełnie inny temat dotyczący oświaty"
	if isDuplicate(candidate, existing, 0.85, 0.8) {
		t.Fatalf("expected distinct fragments not to be flagged as duplicates")
	}
}

func TestMergeOverlappingMergesAdjacentFragments(t *testing.T) {
	a := model.Fragment{StatementNum: 1, StartChar: 0, EndChar: 100, Confidence: 0.6,
		MatchedKeywords: []model.MatchedKeyword{{Keyword: "cyrk", Count: 1, Weight: 4}}}
	b := model.Fragment{StatementNum: 1, StartChar: 80, EndChar: 200, Confidence: 0.7,
		MatchedKeywords: []model.MatchedKeyword{{Keyword: "bzdura", Count: 1, Weight: 4}}}
	merged := mergeOverlapping([]model.Fragment{a, b})
	if len(merged) != 1 {
		t.Fatalf("expected overlapping fragments to merge into 1, got %d", len(merged))
	}
	if len(merged[0].MatchedKeywords) != 2 {
		t.Fatalf("expected merged fragment to carry both keywords, got %+v", merged[0].MatchedKeywords)
	}
}

func TestMergeOverlappingKeepsDistantFragmentsSeparate(t *testing.T) {
	a := model.Fragment{StatementNum: 1, StartChar: 0, EndChar: 50, Confidence: 0.6}
	b := model.Fragment{StatementNum: 1, StartChar: 500, EndChar: 600, Confidence: 0.7}
	merged := mergeOverlapping([]model.Fragment{a, b})
	if len(merged) != 2 {
		t.Fatalf("expected distant fragments to remain separate, got %d", len(merged))
	}
}

func TestSelectDiverseCapsPerSpeaker(t *testing.T) {
	var fragments []model.Fragment
	for i := 0; i < 30; i++ {
		fragments = append(fragments, model.Fragment{
			SpeakerName: "Jan Kowalski",
			Confidence:  1.0 - float64(i)*0.01,
			StartChar:   i * 10,
		})
	}
	fragments = append(fragments, model.Fragment{SpeakerName: "Anna Nowak", Confidence: 0.99, StartChar: 1})

	selected := selectDiverse(fragments, 10)
	if len(selected) != 10 {
		t.Fatalf("expected exactly target count, got %d", len(selected))
	}
	// The capped phase admits max(1, target/10)=1 fragment per speaker, so
	// Anna Nowak must make the cut even though every higher-confidence
	// leftover belongs to Jan Kowalski; the remainder then fills from those
	// leftovers by confidence.
	counts := map[string]int{}
	for _, f := range selected {
		counts[f.SpeakerName]++
	}
	if counts["Anna Nowak"] != 1 {
		t.Fatalf("expected the per-speaker cap to admit Anna Nowak, got %+v", counts)
	}
}

func TestSentenceContext(t *testing.T) {
	text := "Pierwsze zdanie tutaj. Drugie zdanie z kluczowym słowem. Trzecie zdanie na koniec."
	pos := len("Pierwsze zdanie tutaj. ") + 5
	before, after := sentenceContext(text, pos)
	if before != "Pierwsze zdanie tutaj." {
		t.Fatalf("unexpected before sentence: %q", before)
	}
	if after != "Trzecie zdanie na koniec." {
		t.Fatalf("unexpected after sentence: %q", after)
	}
}
