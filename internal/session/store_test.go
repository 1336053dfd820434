package session

import "testing"

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Set(map[string]string{
		KeyToken:    "tok-123",
		KeyUserInfo: `{"token":"tok-123","name":"Dev"}`,
	}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(KeyToken)
	if err != nil || got != "tok-123" {
		t.Fatalf("Get(token) = %q, %v", got, err)
	}

	if err := store.Remove(KeyToken, KeyUserInfo); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{KeyToken, KeyUserInfo} {
		if got, _ := store.Get(key); got != "" {
			t.Fatalf("key %q survived removal: %q", key, got)
		}
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(map[string]string{KeyToken: "persisted"}); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := reopened.Get(KeyToken); got != "persisted" {
		t.Fatalf("token after reopen = %q", got)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if got, err := store.Get("nope"); err != nil || got != "" {
		t.Fatalf("Get on empty store = %q, %v", got, err)
	}
}
