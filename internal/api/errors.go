package api

import "errors"

// Sentinel errors for the failure taxonomy. Callers branch with errors.Is;
// backend-provided text rides along in the wrapped message.
var (
	// ErrNetwork marks transport-level failures: DNS, refused connections,
	// timeouts. Never retried automatically.
	ErrNetwork = errors.New("network error")

	// ErrInvalidCredentials marks a login pair the backend rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized marks a protected request rejected for a missing or
	// stale token.
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError carries a non-2xx response on a protected endpoint, with the
// backend message when one was provided.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "request failed"
}

// Is maps 401 responses onto ErrUnauthorized for errors.Is chains.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == 401
}

// UserMessage extracts the text to show for a failed call: the backend
// message when present, else a generic retry prompt.
func UserMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return "Update failed"
}
