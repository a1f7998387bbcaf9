package respcache

import (
	"testing"
	"time"
)

func TestMemoryGetSetExpiry(t *testing.T) {
	m := NewMemory(10)
	m.Set("a", 1, 20*time.Millisecond)
	if v, ok := m.Get("a"); !ok || v.(int) != 1 {
		t.Fatalf("expected hit with value 1, got %v %v", v, ok)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := m.Get("a"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	stats := m.Stats()
	if stats.Sets != 1 || stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMemoryEvictsAtCapacity(t *testing.T) {
	m := NewMemory(10)
	for i := 0; i < 10; i++ {
		m.Set(string(rune('a'+i)), i, time.Hour)
	}
	m.Set("k", 99, time.Hour) // triggers eviction of the oldest 10%
	count := 0
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"} {
		if _, ok := m.Get(k); ok {
			count++
		}
	}
	if count != 10 {
		t.Fatalf("expected 10 surviving entries after eviction, got %d", count)
	}
}

func TestKeyScheme(t *testing.T) {
	got := Key("/sejm/term10/proceedings", map[string]string{"b": "2", "a": "1"})
	want := "api_sejm_term10_proceedings#a=1&b=2"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
