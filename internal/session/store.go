package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys shared with the backend client.
const (
	KeyToken    = "token"
	KeyUserInfo = "userInfo"
)

// Store is the key-value persistence behind the session. Set writes all given
// keys in one step and Remove deletes all given keys in one step, so the
// token and the user payload never go out of sync on disk.
type Store interface {
	Get(key string) (string, error)
	Set(values map[string]string) error
	Remove(keys ...string) error
}

// FileStore persists the key-value map as a single JSON file, written
// atomically via rename. Good enough for a single-user device; swap for a
// platform keystore behind the same interface.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates the directory if needed and returns a store backed by
// <dir>/session.json.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, "session.json")}, nil
}

// Get returns the stored value for key, or "" when absent.
func (f *FileStore) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.load()
	if err != nil {
		return "", err
	}
	return m[key], nil
}

// Set writes all given keys in one atomic file replace.
func (f *FileStore) Set(values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.load()
	if err != nil {
		return err
	}
	for k, v := range values {
		m[k] = v
	}
	return f.save(m)
}

// Remove deletes all given keys in one atomic file replace.
func (f *FileStore) Remove(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(m, k)
	}
	return f.save(m)
}

func (f *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("session store: %w", err)
	}
	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		// Corrupt file: treat as signed out rather than bricking startup.
		return map[string]string{}, nil
	}
	return m, nil
}

func (f *FileStore) save(m map[string]string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}
