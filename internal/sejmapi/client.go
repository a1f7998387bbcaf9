// Package sejmapi provides typed wrappers over the upstream parliamentary
// API, each a thin call into internal/httpfetch.
package sejmapi

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sejmbot-go/detektor/internal/httpfetch"
	"github.com/sejmbot-go/detektor/internal/model"
	"github.com/sejmbot-go/detektor/internal/respcache"
)

// Client wraps a Fetcher and a response cache with typed endpoint methods.
type Client struct {
	fetcher *httpfetch.Fetcher
	cache   *respcache.Cache
	baseURL string
	log     zerolog.Logger
}

// New builds an API client.
func New(fetcher *httpfetch.Fetcher, cache *respcache.Cache, baseURL string, log zerolog.Logger) *Client {
	return &Client{fetcher: fetcher, cache: cache, baseURL: baseURL, log: log.With().Str("component", "sejmapi").Logger()}
}

func (c *Client) get(ctx context.Context, endpointPath string, expected httpfetch.ExpectedType) (*httpfetch.Response, error) {
	key := respcache.Key(endpointPath, nil)
	if v, ok := c.cache.Memory.Get(key); ok {
		return v.(*httpfetch.Response), nil
	}
	url := c.baseURL + endpointPath
	resp, err := c.fetcher.Fetch(ctx, url, expected)
	if err != nil || resp == nil {
		return resp, err
	}
	c.cache.Memory.Set(key, resp, c.cache.TTLFor(endpointPath))
	return resp, nil
}

// Terms fetches the array of known terms.
func (c *Client) Terms(ctx context.Context) ([]model.Term, error) {
	resp, err := c.get(ctx, "/sejm/term", httpfetch.ExpectJSON)
	if err != nil || resp == nil {
		return nil, err
	}
	arr, _ := resp.JSON.([]any)
	terms := make([]model.Term, 0, len(arr))
	for _, it := range arr {
		if t, ok := decodeTerm(it); ok {
			terms = append(terms, t)
		}
	}
	return terms, nil
}

// Term fetches a single term by number.
func (c *Client) Term(ctx context.Context, n int) (*model.Term, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/sejm/term%d", n), httpfetch.ExpectJSON)
	if err != nil || resp == nil {
		return nil, err
	}
	if t, ok := decodeTerm(resp.JSON); ok {
		return &t, nil
	}
	return nil, nil
}

// Sittings fetches the list of sittings (proceedings) for a term.
func (c *Client) Sittings(ctx context.Context, term int) ([]model.Sitting, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/sejm/term%d/proceedings", term), httpfetch.ExpectJSON)
	if err != nil || resp == nil {
		return nil, err
	}
	arr, _ := resp.JSON.([]any)
	out := make([]model.Sitting, 0, len(arr))
	for _, it := range arr {
		if s, ok := decodeSitting(it, term); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Sitting fetches a single sitting's detail.
func (c *Client) Sitting(ctx context.Context, term, id int) (*model.Sitting, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/sejm/term%d/proceedings/%d", term, id), httpfetch.ExpectJSON)
	if err != nil || resp == nil {
		return nil, err
	}
	if s, ok := decodeSitting(resp.JSON, term); ok {
		return &s, nil
	}
	return nil, nil
}

// StatementsDay fetches the list of statements for one sitting day.
func (c *Client) StatementsDay(ctx context.Context, term, sittingID int, date string) ([]model.Statement, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/sejm/term%d/proceedings/%d/%s/transcripts", term, sittingID, date), httpfetch.ExpectJSON)
	if err != nil || resp == nil {
		return nil, err
	}
	obj, _ := resp.JSON.(map[string]any)
	arr, _ := obj["statements"].([]any)
	out := make([]model.Statement, 0, len(arr))
	for _, it := range arr {
		if s, ok := decodeStatement(it); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// StatementHTML fetches the raw HTML body of one statement.
func (c *Client) StatementHTML(ctx context.Context, term, sittingID int, date string, num int) (string, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/sejm/term%d/proceedings/%d/%s/transcripts/%d", term, sittingID, date, num), httpfetch.ExpectHTML)
	if err != nil || resp == nil {
		return "", err
	}
	return resp.Text, nil
}

// StatementText fetches and converts a statement to plain text.
func (c *Client) StatementText(ctx context.Context, term, sittingID int, date string, num int) (string, error) {
	html, err := c.StatementHTML(ctx, term, sittingID, date, num)
	if err != nil || html == "" {
		return "", err
	}
	return StatementTextFromHTML(html), nil
}

// Members fetches the roster of members for a term.
func (c *Client) Members(ctx context.Context, term int) ([]model.Member, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/sejm/term%d/MP", term), httpfetch.ExpectJSON)
	if err != nil || resp == nil {
		return nil, err
	}
	arr, _ := resp.JSON.([]any)
	out := make([]model.Member, 0, len(arr))
	for _, it := range arr {
		if m, ok := decodeMember(it); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// Member fetches a single member by id.
func (c *Client) Member(ctx context.Context, term, id int) (*model.Member, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/sejm/term%d/MP/%d", term, id), httpfetch.ExpectJSON)
	if err != nil || resp == nil {
		return nil, err
	}
	if m, ok := decodeMember(resp.JSON); ok {
		return &m, nil
	}
	return nil, nil
}

// MemberPhoto fetches a member's photo as opaque bytes (never decoded).
func (c *Client) MemberPhoto(ctx context.Context, term, id int) ([]byte, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/sejm/term%d/MP/%d/photo", term, id), httpfetch.ExpectBinary)
	if err != nil || resp == nil {
		return nil, err
	}
	return resp.Bytes, nil
}

// Clubs fetches the list of clubs for a term.
func (c *Client) Clubs(ctx context.Context, term int) ([]model.Club, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/sejm/term%d/clubs", term), httpfetch.ExpectJSON)
	if err != nil || resp == nil {
		return nil, err
	}
	arr, _ := resp.JSON.([]any)
	out := make([]model.Club, 0, len(arr))
	for _, it := range arr {
		if cl, ok := decodeClub(it); ok {
			out = append(out, cl)
		}
	}
	return out, nil
}

// Club fetches a single club by id.
func (c *Client) Club(ctx context.Context, term int, id string) (*model.Club, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/sejm/term%d/clubs/%s", term, id), httpfetch.ExpectJSON)
	if err != nil || resp == nil {
		return nil, err
	}
	if cl, ok := decodeClub(resp.JSON); ok {
		return &cl, nil
	}
	return nil, nil
}

// ClubLogo fetches a club's logo as opaque bytes (never decoded).
func (c *Client) ClubLogo(ctx context.Context, term int, id string) ([]byte, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/sejm/term%d/clubs/%s/logo", term, id), httpfetch.ExpectBinary)
	if err != nil || resp == nil {
		return nil, err
	}
	return resp.Bytes, nil
}

// HealthCheckResult reports the health-check outcome: Score out of Checks
// endpoints reachable, plus the per-endpoint errors.
type HealthCheckResult struct {
	Score  int
	Checks int
	Errors []string
}

// HealthCheck exercises terms + sittings + one historical day + one
// statement HTML fetch.
func (c *Client) HealthCheck(ctx context.Context, term int) HealthCheckResult {
	res := HealthCheckResult{Checks: 4}
	// The fetcher reports an unreachable endpoint as an empty result with a
	// nil error, so an empty result also counts as a failed check.
	fail := func(check string, err error) {
		if err == nil {
			err = fmt.Errorf("no response")
		}
		res.Errors = append(res.Errors, check+": "+err.Error())
	}

	if terms, err := c.Terms(ctx); err != nil || terms == nil {
		fail("terms", err)
	} else {
		res.Score++
	}

	sittings, err := c.Sittings(ctx, term)
	if err != nil || sittings == nil {
		fail("sittings", err)
	} else {
		res.Score++
	}

	var pastDate string
	var pastSitting int
	for _, s := range sittings {
		for _, d := range s.Dates {
			if d < time.Now().UTC().Format("2006-01-02") {
				pastDate = d
				pastSitting = s.Number
			}
		}
	}
	if pastDate != "" {
		if statements, err := c.StatementsDay(ctx, term, pastSitting, pastDate); err != nil || statements == nil {
			fail("statements_day", err)
		} else {
			res.Score++
		}
		if html, err := c.StatementHTML(ctx, term, pastSitting, pastDate, 1); err != nil || html == "" {
			fail("statement_html", err)
		} else {
			res.Score++
		}
	} else {
		res.Checks = 2
	}
	return res
}
