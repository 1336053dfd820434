package location

import (
	"context"
	"fmt"
	"math"
	"time"
)

// State is the lifecycle of a location sample. Readiness checks compare
// against these values; there are no sentinel strings.
type State int

const (
	StatePending State = iota
	StateResolved
	StatePermissionDenied
	StateUnavailable
)

// String returns the user-facing text for each state.
func (s State) String() string {
	switch s {
	case StateResolved:
		return "resolved"
	case StatePermissionDenied:
		return "Location permission denied"
	case StateUnavailable:
		return "Unable to get location"
	default:
		return "Getting location..."
	}
}

// Sample is one acquired coordinate fix. Immutable once resolved; every
// review cycle requests a fresh one.
type Sample struct {
	Latitude  float64
	Longitude float64
	State     State
}

// Ready reports whether the sample can back a submission.
func (s Sample) Ready() bool {
	return s.State == StateResolved
}

// String formats a resolved sample as "lat, lon" with six decimal places, or
// the state text otherwise.
func (s Sample) String() string {
	if s.State != StateResolved {
		return s.State.String()
	}
	return fmt.Sprintf("%.6f, %.6f", s.Latitude, s.Longitude)
}

// Options control a single hardware fix request.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
	ForceFresh   bool
}

// DefaultOptions match the app's review-screen request: one high-accuracy
// fix, 15 s to produce it, cached fixes older than 10 s rejected.
var DefaultOptions = Options{
	HighAccuracy: true,
	Timeout:      15 * time.Second,
	MaximumAge:   10 * time.Second,
	ForceFresh:   true,
}

// Gate asks for runtime location permission. A nil gate models platforms
// without an explicit permission step.
type Gate interface {
	Request(ctx context.Context) (bool, error)
}

// GateFunc adapts a function to the Gate interface.
type GateFunc func(ctx context.Context) (bool, error)

func (f GateFunc) Request(ctx context.Context) (bool, error) { return f(ctx) }

// Fixer produces one coordinate fix from the positioning hardware.
type Fixer interface {
	Fix(ctx context.Context, opts Options) (lat, lon float64, err error)
}

// FixerFunc adapts a function to the Fixer interface.
type FixerFunc func(ctx context.Context, opts Options) (float64, float64, error)

func (f FixerFunc) Fix(ctx context.Context, opts Options) (float64, float64, error) {
	return f(ctx, opts)
}

// StaticFixer returns fixed coordinates after an optional delay. Used by the
// dev client in place of real positioning hardware.
type StaticFixer struct {
	Latitude  float64
	Longitude float64
	Delay     time.Duration
}

// Fix returns the configured coordinates, honoring cancellation during the
// delay.
func (s StaticFixer) Fix(ctx context.Context, _ Options) (float64, float64, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		}
	}
	return s.Latitude, s.Longitude, nil
}

// Provider acquires one sample per review cycle: permission first, then a
// single timed hardware fix. No automatic retries; the caller re-triggers by
// starting a new cycle.
type Provider struct {
	gate  Gate
	fixer Fixer
	opts  Options
}

// NewProvider builds a provider. gate may be nil; opts falls back to
// DefaultOptions when zero.
func NewProvider(gate Gate, fixer Fixer, opts Options) *Provider {
	if opts == (Options{}) {
		opts = DefaultOptions
	}
	return &Provider{gate: gate, fixer: fixer, opts: opts}
}

// Acquire resolves one sample. Denied permission never touches the hardware.
// Timeout, hardware failure, or cancellation yield StateUnavailable.
func (p *Provider) Acquire(ctx context.Context) Sample {
	if p.gate != nil {
		granted, err := p.gate.Request(ctx)
		if err != nil {
			return Sample{State: StateUnavailable}
		}
		if !granted {
			return Sample{State: StatePermissionDenied}
		}
	}

	fixCtx := ctx
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		fixCtx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	lat, lon, err := p.fixer.Fix(fixCtx, p.opts)
	if err != nil {
		return Sample{State: StateUnavailable}
	}
	return Sample{
		Latitude:  round6(lat),
		Longitude: round6(lon),
		State:     StateResolved,
	}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
