package aieval

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sejmbot-go/detektor/internal/aiprovider"
	"github.com/sejmbot-go/detektor/internal/model"
	"github.com/sejmbot-go/detektor/internal/retry"
)

// backoffStep is the linear retry step: (attempt+1) * 2s.
const backoffStep = 2 * time.Second

// Orchestrator is the evaluation cascade: cache probe, priority-ordered
// provider chain, per-provider rate limiting, retry with linear
// backoff.
type Orchestrator struct {
	providers  []aiprovider.Adapter
	limiters   map[model.Provider]*rateLimiter
	cache      *Cache
	maxRetries int
	log        zerolog.Logger
}

// NewOrchestrator builds an Orchestrator. providers is tried in the
// given order (primary first). callsPerMinute gives each provider's
// token-bucket capacity.
func NewOrchestrator(providers []aiprovider.Adapter, callsPerMinute map[model.Provider]int, cache *Cache, maxRetries int, log zerolog.Logger) *Orchestrator {
	limiters := make(map[model.Provider]*rateLimiter, len(providers))
	for _, p := range providers {
		limiters[p.Name()] = newRateLimiter(callsPerMinute[p.Name()])
	}
	return &Orchestrator{
		providers:  providers,
		limiters:   limiters,
		cache:      cache,
		maxRetries: maxRetries,
		log:        log.With().Str("component", "aieval").Logger(),
	}
}

// Evaluate runs the full cascade for one fragment's text. It never
// returns an error: exhausting every provider yields a non-funny
// Evaluation with ProviderUsed == model.ProviderNone.
func (o *Orchestrator) Evaluate(ctx context.Context, text string, evalCtx aiprovider.EvalContext) model.Evaluation {
	hash := HashFragmentText(text)
	if o.cache != nil {
		if cached, ok := o.cache.Get(hash); ok {
			cached.Cached = true
			return cached
		}
	}

	var lastErr error
	for _, p := range o.providers {
		if limiter, ok := o.limiters[p.Name()]; ok {
			if err := limiter.Wait(ctx); err != nil {
				lastErr = err
				break
			}
		}

		result, err := o.evaluateWithRetry(ctx, p, text, evalCtx)
		if err != nil {
			o.log.Warn().Err(err).Str("provider", string(p.Name())).Msg("provider failed, advancing cascade")
			lastErr = err
			continue
		}

		eval := model.Evaluation{
			IsFunny:      result.IsFunny,
			Confidence:   result.Confidence,
			Reason:       result.Reason,
			ProviderUsed: p.Name(),
			Cached:       false,
			EvaluatedAt:  time.Now().UTC(),
		}
		if o.cache != nil {
			if err := o.cache.Set(hash, eval); err != nil {
				o.log.Warn().Err(err).Msg("cache write failed")
			}
		}
		return eval
	}

	reason := "all providers failed"
	if lastErr != nil {
		reason = lastErr.Error()
	}
	return model.Evaluation{
		IsFunny:      false,
		Confidence:   0,
		Reason:       reason,
		ProviderUsed: model.ProviderNone,
		Cached:       false,
		EvaluatedAt:  time.Now().UTC(),
	}
}

// evaluateWithRetry retries a single provider call up to maxRetries
// times with linear backoff.
func (o *Orchestrator) evaluateWithRetry(ctx context.Context, p aiprovider.Adapter, text string, evalCtx aiprovider.EvalContext) (aiprovider.Result, error) {
	var lastErr error
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		result, err := p.EvaluateHumor(ctx, text, evalCtx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if attempt == o.maxRetries {
			break
		}
		if sleepErr := sleepCtx(ctx, retry.LinearBackoff(attempt, backoffStep)); sleepErr != nil {
			return aiprovider.Result{}, sleepErr
		}
	}
	return aiprovider.Result{}, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
