package attendance

import (
	"context"
	"log"
	"sync"

	"presence/internal/location"
)

// Backend is the slice of the API client the service depends on.
type Backend interface {
	Status(ctx context.Context) (Status, error)
	Submit(ctx context.Context, sub Submission) error
}

// Service coordinates status resolution and submission for a review cycle.
// One submission may be in flight at a time; a successful submission tears
// the session down, so the next cycle starts from login.
type Service struct {
	backend  Backend
	teardown func() error

	mu             sync.Mutex
	busy           bool
	lastResolveErr error
}

// NewService creates a service. teardown is invoked once after the backend
// acknowledges a submission; nil disables teardown.
func NewService(backend Backend, teardown func() error) *Service {
	return &Service{backend: backend, teardown: teardown}
}

// ResolveAction queries the day's record and derives the pending action. Any
// fetch failure is swallowed and yields check-in; the system always produces
// a best-effort action. The underlying error stays inspectable through
// LastResolveErr.
func (s *Service) ResolveAction(ctx context.Context) Action {
	status, err := s.backend.Status(ctx)

	s.mu.Lock()
	s.lastResolveErr = err
	s.mu.Unlock()

	if err != nil {
		return ActionCheckIn
	}
	return status.PendingAction()
}

// LastResolveErr returns the error swallowed by the most recent
// ResolveAction, or nil when it succeeded.
func (s *Service) LastResolveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResolveErr
}

// Busy reports whether a submission is in flight. The UI disables the
// confirm control while true.
func (s *Service) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Submit sends one action-shaped record. Preconditions are guarded, not
// surfaced: an unresolved location or missing photo means the caller jumped
// the gun, and the call no-ops instead of sending a malformed request. On
// success the session teardown runs exactly once, strictly after the backend
// acknowledged. On failure the session is untouched and the same evidence may
// be resubmitted.
func (s *Service) Submit(ctx context.Context, action Action, sample location.Sample, photo string) error {
	if !sample.Ready() || photo == "" {
		log.Printf("attendance: submit skipped, location or evidence not ready")
		return nil
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil
	}
	s.busy = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	if err := s.backend.Submit(ctx, NewSubmission(action, sample.String(), photo)); err != nil {
		return err
	}

	if s.teardown != nil {
		if err := s.teardown(); err != nil {
			log.Printf("attendance: session teardown failed: %v", err)
		}
	}
	return nil
}
