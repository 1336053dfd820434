package location

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAcquireDeniedNeverTouchesHardware(t *testing.T) {
	fixed := false
	p := NewProvider(
		GateFunc(func(context.Context) (bool, error) { return false, nil }),
		FixerFunc(func(context.Context, Options) (float64, float64, error) {
			fixed = true
			return 0, 0, nil
		}),
		DefaultOptions,
	)

	sample := p.Acquire(context.Background())
	if sample.State != StatePermissionDenied {
		t.Fatalf("state = %v, want permission denied", sample.State)
	}
	if fixed {
		t.Fatal("fixer called after permission denial")
	}
	if sample.Ready() {
		t.Fatal("denied sample must not be ready")
	}
}

func TestAcquireResolvesAndRounds(t *testing.T) {
	p := NewProvider(nil, StaticFixer{Latitude: 12.9715987654, Longitude: 77.5945661234}, DefaultOptions)

	sample := p.Acquire(context.Background())
	if !sample.Ready() {
		t.Fatalf("state = %v, want resolved", sample.State)
	}
	if got := sample.String(); got != "12.971599, 77.594566" {
		t.Fatalf("String() = %q", got)
	}
}

func TestAcquireHardwareFailure(t *testing.T) {
	p := NewProvider(nil,
		FixerFunc(func(context.Context, Options) (float64, float64, error) {
			return 0, 0, errors.New("no fix")
		}),
		DefaultOptions,
	)
	if sample := p.Acquire(context.Background()); sample.State != StateUnavailable {
		t.Fatalf("state = %v, want unavailable", sample.State)
	}
}

func TestAcquireTimesOut(t *testing.T) {
	opts := DefaultOptions
	opts.Timeout = 10 * time.Millisecond
	p := NewProvider(nil, StaticFixer{Delay: time.Second}, opts)

	start := time.Now()
	sample := p.Acquire(context.Background())
	if sample.State != StateUnavailable {
		t.Fatalf("state = %v, want unavailable", sample.State)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("fix did not honor the timeout")
	}
}

func TestAcquireOwnerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewProvider(nil, StaticFixer{Delay: time.Second}, DefaultOptions)
	if sample := p.Acquire(ctx); sample.State != StateUnavailable {
		t.Fatalf("state = %v, want unavailable after cancel", sample.State)
	}
}

func TestSampleStateText(t *testing.T) {
	if got := (Sample{}).String(); got != "Getting location..." {
		t.Fatalf("pending text = %q", got)
	}
	if got := (Sample{State: StatePermissionDenied}).String(); got != "Location permission denied" {
		t.Fatalf("denied text = %q", got)
	}
	if got := (Sample{State: StateUnavailable}).String(); got != "Unable to get location" {
		t.Fatalf("unavailable text = %q", got)
	}
}
