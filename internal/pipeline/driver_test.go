package pipeline

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/sejmbot-go/detektor/internal/config"
	"github.com/sejmbot-go/detektor/internal/model"
)

func TestDedupeSittingsDropsZeroAndDuplicates(t *testing.T) {
	in := []model.Sitting{
		{Number: 0},
		{Number: 5},
		{Number: 5},
		{Number: 6},
	}
	out := dedupeSittings(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 sittings after dedupe, got %d: %+v", len(out), out)
	}
	if out[0].Number != 5 || out[1].Number != 6 {
		t.Fatalf("unexpected dedupe order: %+v", out)
	}
}

func TestSittingWhollyFutureTrueWhenAllDatesAhead(t *testing.T) {
	s := model.Sitting{Dates: []string{"2026-08-01", "2026-08-02"}}
	if !sittingWhollyFuture(s, "2026-07-29") {
		t.Fatalf("expected sitting entirely after today to be wholly future")
	}
}

func TestSittingWhollyFutureFalseWhenAnyDatePast(t *testing.T) {
	s := model.Sitting{Dates: []string{"2026-07-01", "2026-08-02"}}
	if sittingWhollyFuture(s, "2026-07-29") {
		t.Fatalf("expected sitting with a past date to not be wholly future")
	}
}

func TestSittingWhollyFutureFalseWhenNoDates(t *testing.T) {
	s := model.Sitting{}
	if sittingWhollyFuture(s, "2026-07-29") {
		t.Fatalf("expected a sitting with no dates to not be treated as future")
	}
}

func TestProviderCountsTalliesByProvider(t *testing.T) {
	fragments := []model.Fragment{
		{Evaluation: &model.Evaluation{ProviderUsed: model.ProviderLocal}},
		{Evaluation: &model.Evaluation{ProviderUsed: model.ProviderLocal}},
		{Evaluation: &model.Evaluation{ProviderUsed: model.ProviderFreeAPI}},
		{Evaluation: nil},
	}
	counts := providerCounts(fragments)
	if counts["local"] != 2 || counts["free_remote"] != 1 {
		t.Fatalf("unexpected provider counts: %+v", counts)
	}
	if _, ok := counts["none"]; ok {
		t.Fatalf("unevaluated fragments must not contribute a count")
	}
}

func TestProviderCountsNilWhenNoneEvaluated(t *testing.T) {
	fragments := []model.Fragment{{}, {}}
	if counts := providerCounts(fragments); counts != nil {
		t.Fatalf("expected nil provider counts, got %+v", counts)
	}
}

func TestReorderPrimaryFirstMovesPrimaryToFront(t *testing.T) {
	order := []string{"local", "free_remote", "paid_a", "paid_b"}
	got := reorderPrimaryFirst(order, "paid_a")
	want := []string{"paid_a", "local", "free_remote", "paid_b"}
	if len(got) != len(want) {
		t.Fatalf("unexpected length: %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: %+v", got)
		}
	}
}

func TestBoolOrReturnsDefaultWhenNil(t *testing.T) {
	if !boolOr(nil, true) {
		t.Fatalf("expected default true when pointer is nil")
	}
	v := false
	if boolOr(&v, true) {
		t.Fatalf("expected pointer value to override default")
	}
}

func TestNewAdapterUnknownNameReturnsNil(t *testing.T) {
	pc := config.ProviderConfig{Model: "x"}
	if got := newAdapter("unknown-provider", pc, zerolog.Nop()); got != nil {
		t.Fatalf("expected nil adapter for an unrecognized provider name, got %T", got)
	}
}

func TestNewAdapterKnownNamesConstructAdapters(t *testing.T) {
	pc := config.ProviderConfig{APIKey: "key", Model: "some-model"}
	for _, name := range []string{"local", "free_remote", "paid_a", "paid_b"} {
		adapter := newAdapter(name, pc, zerolog.Nop())
		if adapter == nil {
			t.Fatalf("expected an adapter to be constructed for %q", name)
		}
		if string(adapter.Name()) != name {
			t.Fatalf("expected adapter name %q, got %q", name, adapter.Name())
		}
	}
}
