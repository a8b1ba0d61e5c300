package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// SessionStore holds opaque admin session tokens. The interface exists
// so a multi-instance deployment could swap the in-process map for an
// external store; this process assumes a single instance.
type SessionStore interface {
	Insert(token string)
	Valid(token string) bool
	Revoke(token string)
}

// MemorySessionStore keeps sessions in a mutex-guarded map with a TTL.
// Sessions are lost on restart.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionStore creates a session store whose tokens expire
// after ttl.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Insert registers a token. Its expiry starts now.
func (s *MemorySessionStore) Insert(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = s.now().Add(s.ttl)

	// Drop expired entries while we hold the lock; the map stays tiny.
	cutoff := s.now()
	for t, exp := range s.sessions {
		if exp.Before(cutoff) {
			delete(s.sessions, t)
		}
	}
}

// Valid reports whether the token is known and not expired. Expired
// tokens are removed on lookup.
func (s *MemorySessionStore) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.sessions[token]
	if !ok {
		return false
	}
	if exp.Before(s.now()) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Revoke removes a token immediately.
func (s *MemorySessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// NewToken returns a 64-character hex token from crypto/rand.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("crypto/rand failure: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
