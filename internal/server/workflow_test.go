package server

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"presence/internal/api"
	"presence/internal/attendance"
	"presence/internal/evidence"
	"presence/internal/location"
	"presence/internal/session"
)

// Exercises the whole review cycle against the real router: login, status
// resolution, location + evidence assembly, submission, and session teardown.
func TestFullReviewCycle(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Router())
	defer srv.Close()

	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var mgr *session.Manager
	client := api.New(srv.URL, 2*time.Second, func() string { return mgr.Token() })
	mgr = session.NewManager(store, client)
	svc := attendance.NewService(client, mgr.Logout)

	ctx := context.Background()
	if err := mgr.Login(ctx, "dev@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	photo := filepath.Join(t.TempDir(), "capture.jpg")
	if err := os.WriteFile(photo, []byte{0xFF, 0xD8, 0xFF, 0xE0, 'x'}, 0o600); err != nil {
		t.Fatal(err)
	}
	provider := location.NewProvider(nil, location.StaticFixer{Latitude: 1, Longitude: 2}, location.DefaultOptions)

	// First cycle of the day resolves to check-in.
	review := svc.BeginReview(ctx, "file://"+photo, provider, evidence.FileEncoder{})
	if review.Action != attendance.ActionCheckIn {
		t.Fatalf("first action = %v", review.Action)
	}
	if !review.Ready() {
		t.Fatalf("review not ready: %+v", review)
	}
	if err := svc.SubmitReview(ctx, review); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Success tore the session down; protected calls now fail until re-login.
	if mgr.Current().Authenticated() {
		t.Fatal("session survived a successful submission")
	}
	if _, err := client.Status(ctx); !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("post-teardown status err = %v, want ErrUnauthorized", err)
	}

	// Re-login: the next pending action is check-out.
	if err := mgr.Login(ctx, "dev@example.com", "secret1"); err != nil {
		t.Fatalf("re-login: %v", err)
	}
	second := svc.BeginReview(ctx, photo, provider, evidence.FileEncoder{})
	if second.Action != attendance.ActionCheckOut {
		t.Fatalf("second action = %v, want check-out", second.Action)
	}
	if err := svc.SubmitReview(ctx, second); err != nil {
		t.Fatalf("check-out submit: %v", err)
	}
}

// A backend failure must leave the session intact so the same evidence can be
// resubmitted.
func TestFailedSubmissionKeepsSession(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Router())
	defer srv.Close()

	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var mgr *session.Manager
	client := api.New(srv.URL, 2*time.Second, func() string { return mgr.Token() })
	mgr = session.NewManager(store, client)
	svc := attendance.NewService(client, mgr.Logout)

	ctx := context.Background()
	if err := mgr.Login(ctx, "dev@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}

	sample := location.Sample{Latitude: 1, Longitude: 2, State: location.StateResolved}

	// Check-out before any check-in: the server rejects it with a message.
	err = svc.Submit(ctx, attendance.ActionCheckOut, sample, "data:image/jpeg;base64,xxx")
	if err == nil {
		t.Fatal("orphan check-out should fail")
	}
	if msg := api.UserMessage(err); msg != "No check-in recorded today" {
		t.Fatalf("UserMessage() = %q", msg)
	}
	if !mgr.Current().Authenticated() {
		t.Fatal("session torn down on failure")
	}

	// Retry with the correct action goes through.
	if err := svc.Submit(ctx, attendance.ActionCheckIn, sample, "data:image/jpeg;base64,xxx"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if mgr.Current().Authenticated() {
		t.Fatal("session kept after successful retry")
	}
}
