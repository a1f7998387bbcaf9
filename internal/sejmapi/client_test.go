package sejmapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sejmbot-go/detektor/internal/httpfetch"
	"github.com/sejmbot-go/detektor/internal/respcache"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	fetcher := httpfetch.New(2*time.Second, 0, 1, time.Millisecond, 5*time.Millisecond, "test-agent", zerolog.Nop())
	cache := respcache.New(16, 0, t.TempDir()+"/cache.db", zerolog.Nop())
	t.Cleanup(func() { cache.Close() })
	return New(fetcher, cache, srv.URL, zerolog.Nop()), srv
}

func TestTermsDecodesArray(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"num":10,"current":true},{"num":9,"current":false}]`))
	})
	defer srv.Close()

	terms, err := c.Terms(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(terms) != 2 || terms[0].Num != 10 || !terms[0].Current {
		t.Fatalf("unexpected terms: %+v", terms)
	}
}

func TestStatementTextRoundTrip(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><p>Pierwsze zdanie.</p><p>Drugie &amp; trzecie.</p></body></html>`))
	})
	defer srv.Close()

	text, err := c.StatementText(context.Background(), 10, 1, "2024-01-01", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Pierwsze zdanie.\n\nDrugie & trzecie."
	if text != want {
		t.Fatalf("got %q want %q", text, want)
	}
}

func TestClubsCachesSecondCall(t *testing.T) {
	calls := 0
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"KO","name":"Klub X","membersCount":5}]`))
	})
	defer srv.Close()

	ctx := context.Background()
	if _, err := c.Clubs(ctx, 10); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := c.Clubs(ctx, 10); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected cache to absorb the second call, got %d upstream calls", calls)
	}
}
