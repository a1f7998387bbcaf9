// Package httpfetch implements the rate-limited, retrying HTTP GET
// operation. It never raises outside the transport: exhausted retries
// and permanent failures both resolve to a nil Response.
package httpfetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sejmbot-go/detektor/internal/retry"
)

// ContentType identifies how a Response's payload was decoded.
type ContentType int

const (
	ContentUnknown ContentType = iota
	ContentJSON
	ContentHTML
	ContentBinary
)

// Response is the decoded result of a successful fetch.
type Response struct {
	Type  ContentType
	JSON  any
	Text  string
	Bytes []byte
}

// ExpectedType tells Fetch how to dispatch the response body.
type ExpectedType int

const (
	ExpectJSON ExpectedType = iota
	ExpectHTML
	ExpectBinary
)

const errorSentinel = "Wystąpił błąd" // known API-error sentinel text in HTML payloads

// htmlMinLength is the minimum accepted length for an HTML transcript body.
const htmlMinLength = 50

// pacer enforces a minimum inter-request delay per host: a small
// mutex-guarded struct instead of a channel-based limiter.
type pacer struct {
	mu     sync.Mutex
	lastAt time.Time
	minGap time.Duration
}

func (p *pacer) wait(ctx context.Context) {
	p.mu.Lock()
	now := time.Now()
	next := p.lastAt.Add(p.minGap)
	var sleep time.Duration
	if next.After(now) {
		sleep = next.Sub(now)
	}
	p.lastAt = now.Add(sleep)
	p.mu.Unlock()
	if sleep <= 0 {
		return
	}
	timer := time.NewTimer(sleep)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Fetcher performs rate-limited, retrying HTTP GETs.
type Fetcher struct {
	client     *http.Client
	pacer      *pacer
	maxRetries int
	minBackoff time.Duration
	maxBackoff time.Duration
	userAgent  string
	log        zerolog.Logger
}

// New builds a Fetcher. minGap is the minimum delay between requests to the
// same fetcher instance (callers typically keep one Fetcher per host).
func New(timeout time.Duration, minGap time.Duration, maxRetries int, minBackoff, maxBackoff time.Duration, userAgent string, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		pacer:      &pacer{minGap: minGap},
		maxRetries: maxRetries,
		minBackoff: minBackoff,
		maxBackoff: maxBackoff,
		userAgent:  userAgent,
		log:        log.With().Str("component", "httpfetch").Logger(),
	}
}

// Fetch performs a single GET, retrying transient failures.
// Returns (nil, nil) for permanent failures or exhausted retries — callers
// must not treat a nil Response as an error condition.
func (f *Fetcher) Fetch(ctx context.Context, url string, expected ExpectedType) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		f.pacer.wait(ctx)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, class, retryAfter, err := f.attempt(ctx, url, expected)
		if err == nil && resp != nil {
			return resp, nil
		}
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !retry.IsTransientTransportError(err) {
				return nil, nil
			}
			f.sleepBackoff(ctx, attempt, 0)
			continue
		}

		switch class {
		case retry.ClassPermanent:
			return nil, nil
		case retry.ClassRateLimited:
			f.sleepBackoff(ctx, attempt, retryAfter)
			continue
		case retry.ClassTransient:
			f.sleepBackoff(ctx, attempt, 0)
			continue
		default:
			return nil, nil
		}
	}
	f.log.Warn().Str("url", truncate(url, 200)).Err(lastErr).Msg("fetch exhausted retries")
	return nil, nil
}

func (f *Fetcher) sleepBackoff(ctx context.Context, attempt int, retryAfter time.Duration) {
	delay := retry.Backoff(attempt, f.minBackoff, f.maxBackoff)
	if retryAfter > 0 {
		delay = retryAfter
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (f *Fetcher) attempt(ctx context.Context, url string, expected ExpectedType) (*Response, retry.Classification, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.ClassPermanent, 0, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json, text/html, */*")
	req.Header.Set("Accept-Language", "pl,en;q=0.9")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, retry.ClassTransient, 0, err
	}
	defer resp.Body.Close()

	class := retry.ClassifyHTTP(resp.StatusCode)
	if class == retry.ClassRateLimited {
		var retryAfter time.Duration
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, perr := strconv.Atoi(ra); perr == nil {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, retry.ClassRateLimited, retryAfter, nil
	}
	if class != retry.ClassOK {
		return nil, class, 0, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.ClassTransient, 0, err
	}
	elapsed := time.Since(start)
	f.log.Debug().Str("url", truncate(url, 200)).Dur("elapsed", elapsed).Int("status", resp.StatusCode).Msg("fetch ok")

	contentType := resp.Header.Get("Content-Type")
	switch {
	case expected == ExpectJSON || strings.Contains(contentType, "application/json"):
		var decoded any
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, retry.ClassPermanent, 0, nil
		}
		return &Response{Type: ContentJSON, JSON: decoded}, retry.ClassOK, 0, nil
	case expected == ExpectHTML || strings.Contains(contentType, "text/html"):
		text := string(body)
		if len(text) < htmlMinLength || strings.Contains(text, errorSentinel) {
			return nil, retry.ClassPermanent, 0, nil
		}
		return &Response{Type: ContentHTML, Text: text}, retry.ClassOK, 0, nil
	default:
		return &Response{Type: ContentBinary, Bytes: body}, retry.ClassOK, 0, nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
