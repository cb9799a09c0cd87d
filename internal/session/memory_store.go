package session

import (
	"context"
	"sync"
)

// MemoryStore holds the session in memory only. Used in tests and by callers
// that embed the client in a process whose session should not outlive it.
type MemoryStore struct {
	mu  sync.Mutex
	rec *record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &record{Token: token, User: user.clone()}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	return nil
}

func (s *MemoryStore) CurrentUser(_ context.Context) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil || s.rec.User == nil {
		return nil, false
	}
	return s.rec.User.clone(), true
}

func (s *MemoryStore) Token(_ context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil || s.rec.Token == "" {
		return "", false
	}
	return s.rec.Token, true
}

func (s *MemoryStore) HasToken(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// SetInconsistent stores a token without a user record. Only reachable from
// tests; it reproduces the state a corrupt store or a misbehaving server can
// leave behind, which the guard must repair.
func (s *MemoryStore) SetInconsistent(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &record{Token: token}
}
