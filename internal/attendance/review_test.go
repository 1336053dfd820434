package attendance

import (
	"context"
	"errors"
	"testing"

	"presence/internal/location"
)

type staticLocator struct{ sample location.Sample }

func (s staticLocator) Acquire(context.Context) location.Sample { return s.sample }

type staticEncoder struct {
	payload string
	err     error
}

func (s staticEncoder) Encode(context.Context, string) (string, error) {
	return s.payload, s.err
}

func TestBeginReviewAssemblesEvidence(t *testing.T) {
	backend := &fakeBackend{status: Status{CheckInTime: "09:00"}}
	svc := NewService(backend, nil)

	review := svc.BeginReview(context.Background(), "file:///tmp/p.jpg",
		staticLocator{resolvedSample()},
		staticEncoder{payload: "data:image/jpeg;base64,xxx"})

	if review.Action != ActionCheckOut {
		t.Fatalf("action = %v, want check-out", review.Action)
	}
	if !review.Ready() {
		t.Fatalf("review not ready: %+v", review)
	}
	if review.Sample.String() != "12.971599, 77.594566" {
		t.Fatalf("sample = %q", review.Sample.String())
	}
}

func TestReviewNotReady(t *testing.T) {
	backend := &fakeBackend{statusErr: errors.New("500")}
	svc := NewService(backend, nil)

	review := svc.BeginReview(context.Background(), "p.jpg",
		staticLocator{location.Sample{State: location.StatePermissionDenied}},
		staticEncoder{payload: "data:image/jpeg;base64,xxx"})

	if review.Action != ActionCheckIn {
		t.Fatalf("resolution failure should default to check-in, got %v", review.Action)
	}
	if review.Ready() {
		t.Fatal("denied location must block readiness")
	}
	if err := svc.SubmitReview(context.Background(), review); err != nil {
		t.Fatalf("blocked submission should no-op, got %v", err)
	}
	if n := len(backend.submitted()); n != 0 {
		t.Fatalf("blocked review reached the backend %d times", n)
	}

	bad := svc.BeginReview(context.Background(), "p.jpg",
		staticLocator{resolvedSample()},
		staticEncoder{err: errors.New("gone")})
	if bad.Ready() {
		t.Fatal("encode failure must block readiness")
	}
}
