package auth

import (
	"testing"
	"time"
)

func TestMemorySessionStore(t *testing.T) {
	t.Run("inserted token is valid", func(t *testing.T) {
		store := NewMemorySessionStore(time.Hour)
		store.Insert("tok1")

		if !store.Valid("tok1") {
			t.Error("expected inserted token to be valid")
		}
	})

	t.Run("unknown token is invalid", func(t *testing.T) {
		store := NewMemorySessionStore(time.Hour)

		if store.Valid("nope") {
			t.Error("expected unknown token to be invalid")
		}
	})

	t.Run("revoked token is invalid", func(t *testing.T) {
		store := NewMemorySessionStore(time.Hour)
		store.Insert("tok1")
		store.Revoke("tok1")

		if store.Valid("tok1") {
			t.Error("expected revoked token to be invalid")
		}
	})

	t.Run("token expires after ttl", func(t *testing.T) {
		store := NewMemorySessionStore(time.Hour)

		current := time.Now()
		store.now = func() time.Time { return current }
		store.Insert("tok1")

		current = current.Add(2 * time.Hour)
		if store.Valid("tok1") {
			t.Error("expected token to expire after ttl")
		}
	})

	t.Run("expired tokens are pruned on insert", func(t *testing.T) {
		store := NewMemorySessionStore(time.Hour)

		current := time.Now()
		store.now = func() time.Time { return current }
		store.Insert("old")

		current = current.Add(2 * time.Hour)
		store.Insert("new")

		if _, ok := store.sessions["old"]; ok {
			t.Error("expected expired token to be pruned")
		}
		if !store.Valid("new") {
			t.Error("expected fresh token to remain valid")
		}
	})
}

func TestNewToken(t *testing.T) {
	t.Run("produces 64 hex characters", func(t *testing.T) {
		token, err := NewToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(token) != 64 {
			t.Errorf("expected 64 characters, got %d", len(token))
		}
		for _, c := range token {
			if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
				t.Fatalf("token contains non-hex character %q", c)
			}
		}
	})

	t.Run("produces unique tokens", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token, err := NewToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if seen[token] {
				t.Fatalf("duplicate token generated: %s", token)
			}
			seen[token] = true
		}
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !CheckPassword(hash, "admin123") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
	if CheckPassword("not-a-hash", "admin123") {
		t.Error("expected malformed hash to fail")
	}
}
