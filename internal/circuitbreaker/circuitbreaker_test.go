package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

func TestClosedAllowsCalls(t *testing.T) {
	b := New("demo", 3, time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker must allow: %v", err)
	}
}

func TestDisabledNeverTrips(t *testing.T) {
	b := New("demo", 0, time.Minute)
	for i := 0; i < 10; i++ {
		b.Failure(errors.New("boom"))
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("disabled breaker must allow: %v", err)
	}
}

func TestTripsAtThreshold(t *testing.T) {
	b := New("demo", 3, time.Minute)
	for i := 0; i < 2; i++ {
		b.Failure(errors.New("boom"))
		if err := b.Allow(); err != nil {
			t.Fatalf("below threshold must allow: %v", err)
		}
	}
	b.Failure(errors.New("boom"))

	err := b.Allow()
	var open *OpenError
	if !errors.As(err, &open) {
		t.Fatalf("expected OpenError, got %v", err)
	}
	if open.API != "demo" {
		t.Fatalf("unexpected api %q", open.API)
	}
}

func TestSuccessResetsStreak(t *testing.T) {
	b := New("demo", 3, time.Minute)
	b.Failure(errors.New("boom"))
	b.Failure(errors.New("boom"))
	b.Success()
	b.Failure(errors.New("boom"))
	b.Failure(errors.New("boom"))
	if err := b.Allow(); err != nil {
		t.Fatalf("streak should have reset: %v", err)
	}
}

func TestHalfOpenProbeAfterCooldown(t *testing.T) {
	now := time.Now()
	b := New("demo", 1, time.Minute)
	b.now = func() time.Time { return now }

	b.Failure(errors.New("boom"))
	if err := b.Allow(); err == nil {
		t.Fatalf("expected open breaker")
	}

	now = now.Add(2 * time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe after cooldown must be allowed: %v", err)
	}
	if got := b.State(); got != HalfOpen {
		t.Fatalf("expected half-open, got %v", got)
	}

	// Concurrent callers while the probe is in flight are rejected.
	if err := b.Allow(); err == nil {
		t.Fatalf("concurrent call during probe must be rejected")
	}

	b.Success()
	if got := b.State(); got != Closed {
		t.Fatalf("successful probe should close the circuit, got %v", got)
	}
}

func TestFailedProbeReopens(t *testing.T) {
	now := time.Now()
	b := New("demo", 1, time.Minute)
	b.now = func() time.Time { return now }

	b.Failure(errors.New("boom"))
	now = now.Add(2 * time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe must be allowed: %v", err)
	}
	b.Failure(errors.New("still down"))
	if got := b.State(); got != Open {
		t.Fatalf("failed probe should reopen, got %v", got)
	}
}
