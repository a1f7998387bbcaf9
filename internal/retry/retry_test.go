package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestClassifyHTTP(t *testing.T) {
	cases := map[int]Classification{
		200: ClassOK,
		204: ClassOK,
		429: ClassRateLimited,
		403: ClassPermanent,
		404: ClassPermanent,
		400: ClassPermanent,
		500: ClassTransient,
		503: ClassTransient,
	}
	for status, want := range cases {
		if got := ClassifyHTTP(status); got != want {
			t.Errorf("ClassifyHTTP(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestBackoffBounds(t *testing.T) {
	min := 500 * time.Millisecond
	max := 30 * time.Second
	for attempt := 0; attempt < 10; attempt++ {
		d := Backoff(attempt, min, max)
		if d < min || d > max+time.Second {
			t.Fatalf("attempt %d: backoff %v out of bounds [%v, %v]", attempt, d, min, max)
		}
	}
}

func TestBackoffGrowsWithAttempt(t *testing.T) {
	min := 100 * time.Millisecond
	max := time.Minute
	// Strip jitter by comparing the deterministic floor each attempt can't
	// go below.
	prevFloor := time.Duration(0)
	for attempt := 0; attempt < 5; attempt++ {
		floor := min
		for i := 0; i < attempt; i++ {
			floor *= 2
			if floor > max {
				floor = max
				break
			}
		}
		if floor < prevFloor {
			t.Fatalf("attempt %d: floor %v should not shrink from %v", attempt, floor, prevFloor)
		}
		if d := Backoff(attempt, min, max); d < floor {
			t.Fatalf("attempt %d: backoff %v below its floor %v", attempt, d, floor)
		}
		prevFloor = floor
	}
}

func TestLinearBackoff(t *testing.T) {
	step := 2 * time.Second
	for attempt, want := range map[int]time.Duration{0: 2 * time.Second, 1: 4 * time.Second, 2: 6 * time.Second} {
		if got := LinearBackoff(attempt, step); got != want {
			t.Errorf("LinearBackoff(%d, %v) = %v, want %v", attempt, step, got, want)
		}
	}
}

func TestIsTransientTransportError(t *testing.T) {
	if IsTransientTransportError(nil) {
		t.Fatalf("nil error should not be transient")
	}
	if IsTransientTransportError(context.Canceled) {
		t.Fatalf("context.Canceled should not be transient")
	}
	if IsTransientTransportError(context.DeadlineExceeded) {
		t.Fatalf("context.DeadlineExceeded should not be transient")
	}
	if !IsTransientTransportError(errors.New("connection reset by peer")) {
		t.Fatalf("generic transport error should be treated as transient")
	}
}
