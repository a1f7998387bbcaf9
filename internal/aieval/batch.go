package aieval

import (
	"context"
	"time"

	"github.com/sejmbot-go/detektor/internal/aiprovider"
	"github.com/sejmbot-go/detektor/internal/model"
)

// batchPace is the gentle pacing sleep between uncached evaluations.
const batchPace = 500 * time.Millisecond

// minFragmentLength is the shortest fragment text EvaluateBatch will
// send to a provider.
const minFragmentLength = 20

// BatchReport summarizes one EvaluateBatch run.
type BatchReport struct {
	Total       int
	FunnyCount  int
	CachedCount int
	Errors      int
}

// EvaluateBatch evaluates, in place (setting fragment.Evaluation), every
// fragment whose text is at least minFragmentLength bytes long; shorter
// fragments are left without an Evaluation. It paces uncached calls and
// flushes the cache at the end.
func (o *Orchestrator) EvaluateBatch(ctx context.Context, fragments []model.Fragment) ([]model.Fragment, BatchReport) {
	var report BatchReport

	for i := range fragments {
		if ctx.Err() != nil {
			break
		}
		if len(fragments[i].Text) < minFragmentLength {
			continue
		}
		report.Total++

		evalCtx := aiprovider.EvalContext{
			SpeakerName: fragments[i].SpeakerName,
			SpeakerClub: fragments[i].SpeakerClub,
			Keywords:    keywordNames(fragments[i].MatchedKeywords),
		}
		eval := o.Evaluate(ctx, fragments[i].Text, evalCtx)
		fragments[i].Evaluation = &eval

		if eval.ProviderUsed == model.ProviderNone {
			report.Errors++
		}
		if eval.IsFunny {
			report.FunnyCount++
		}
		if eval.Cached {
			report.CachedCount++
		} else {
			_ = sleepCtx(ctx, batchPace)
		}
	}

	if o.cache != nil {
		o.cache.Flush()
	}
	return fragments, report
}

func keywordNames(matched []model.MatchedKeyword) []string {
	names := make([]string, len(matched))
	for i, mk := range matched {
		names[i] = mk.Keyword
	}
	return names
}
