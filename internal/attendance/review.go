package attendance

import (
	"context"
	"time"

	"presence/internal/location"
)

// Locator acquires one location sample per cycle.
type Locator interface {
	Acquire(ctx context.Context) location.Sample
}

// Encoder turns a capture file reference into the transmittable payload.
type Encoder interface {
	Encode(ctx context.Context, rawPath string) (string, error)
}

// Review holds the assembled evidence for one cycle: the resolved action,
// the location sample, and the encoded photo.
type Review struct {
	Action    Action
	Sample    location.Sample
	Photo     string
	PhotoErr  error
	StartedAt time.Time
}

// Ready reports whether the review can be submitted.
func (r Review) Ready() bool {
	return r.Sample.Ready() && r.Photo != "" && r.PhotoErr == nil
}

// BeginReview resolves the pending action, acquires a location sample, and
// encodes the capture as three independent tasks, returning once all three
// settle. The action is fixed before submission because BeginReview does not
// return until resolution completes.
func (s *Service) BeginReview(ctx context.Context, rawPath string, loc Locator, enc Encoder) Review {
	r := Review{StartedAt: time.Now()}

	actionCh := make(chan Action, 1)
	sampleCh := make(chan location.Sample, 1)
	type encoded struct {
		payload string
		err     error
	}
	photoCh := make(chan encoded, 1)

	go func() { actionCh <- s.ResolveAction(ctx) }()
	go func() { sampleCh <- loc.Acquire(ctx) }()
	go func() {
		payload, err := enc.Encode(ctx, rawPath)
		photoCh <- encoded{payload, err}
	}()

	r.Action = <-actionCh
	r.Sample = <-sampleCh
	enc2 := <-photoCh
	r.Photo, r.PhotoErr = enc2.payload, enc2.err
	return r
}

// SubmitReview submits an assembled review. Not-ready reviews no-op under
// the same guard as Submit.
func (s *Service) SubmitReview(ctx context.Context, r Review) error {
	return s.Submit(ctx, r.Action, r.Sample, r.Photo)
}
