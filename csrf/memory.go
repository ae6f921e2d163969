package csrf

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	token   string
	expires time.Time
}

// MemoryStore keeps bindings in process memory. Cookie values are random
// session ids; entries vanish at their TTL.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Bind(_ context.Context, tok string, ttl time.Duration) (string, error) {
	sid, err := newSessionID()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = memoryEntry{token: tok, expires: s.now().Add(ttl)}
	return sid, nil
}

func (s *MemoryStore) Lookup(_ context.Context, sid string) (string, error) {
	s.mu.RLock()
	e, ok := s.entries[sid]
	s.mu.RUnlock()

	if !ok || !s.now().Before(e.expires) {
		return "", ErrTokenNotFound
	}
	return e.token, nil
}

// Len reports how many bindings are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep drops every binding expired at now and returns how many were removed.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for sid, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, sid)
			n++
		}
	}
	return n
}

// Run sweeps expired bindings every interval until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}
