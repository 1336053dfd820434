package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks credentials that fail local shape checks; these never
// reach the network.
var ErrValidation = errors.New("invalid credentials format")

// Authenticator exchanges credentials for a session. Implemented by the
// backend client.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (Session, error)
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Manager owns the process-wide current session: login, logout, restore at
// startup, and change notification for route selection and request
// authorization.
type Manager struct {
	store    Store
	auth     Authenticator
	validate *validator.Validate

	mu      sync.RWMutex
	current Session
	subs    []chan Session
}

// NewManager builds a manager over the given store and authenticator.
func NewManager(store Store, auth Authenticator) *Manager {
	return &Manager{
		store:    store,
		auth:     auth,
		validate: validator.New(),
	}
}

// Current returns a snapshot of the session; the zero value means signed out.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token returns the current credential, or "" when signed out. Used by the
// backend client to authorize requests.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

// Subscribe returns a channel that receives a session snapshot after every
// login, logout, and restore. Slow receivers miss updates rather than block
// the writer.
func (m *Manager) Subscribe() <-chan Session {
	ch := make(chan Session, 8)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Login validates the credential shape locally, authenticates against the
// backend, and persists and adopts the resulting session. On any failure the
// current session is left untouched.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := m.validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	sess, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	info, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Set(map[string]string{
		KeyToken:    sess.Token,
		KeyUserInfo: string(info),
	}); err != nil {
		return err
	}
	m.current = sess
	m.notifyLocked()
	return nil
}

// Logout clears the persisted credentials and the in-memory session in one
// step with respect to observers.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Remove(KeyToken, KeyUserInfo); err != nil {
		return err
	}
	m.current = Session{}
	m.notifyLocked()
	return nil
}

// Restore adopts a previously persisted session, if any, without contacting
// the backend. A stored token is trusted until a request rejects it. Call
// once at startup.
func (m *Manager) Restore() error {
	raw, err := m.store.Get(KeyUserInfo)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		// Unreadable payload: stay signed out.
		return nil
	}
	if !sess.Authenticated() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = sess
	m.notifyLocked()
	return nil
}

func (m *Manager) notifyLocked() {
	for _, ch := range m.subs {
		select {
		case ch <- m.current:
		default:
		}
	}
}
