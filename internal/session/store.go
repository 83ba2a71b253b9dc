package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"bulkpickup_app/internal/navigation"
)

// ErrConflict is returned when a concurrent writer kept winning the race
// for the same session.
var ErrConflict = errors.New("session: concurrent update conflict")

// Store keeps one navigation.State per browser session
type Store interface {
	// Load returns the state for id, or navigation.Initial() when the session
	// is unknown or expired.
	Load(ctx context.Context, id string) (navigation.State, error)
	// Update applies fn atomically to the session's state and persists the
	// result.
	Update(ctx context.Context, id string, fn func(navigation.State) navigation.State) (navigation.State, error)
}

type memoryEntry struct {
	state     navigation.State
	expiresAt time.Time
}

// MemoryStore is a process-local Store used when Redis is not configured
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	entries   map[string]memoryEntry
	nextSweep time.Time
}

// NewMemoryStore creates a store whose entries expire after ttl of
// inactivity. A zero ttl never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (navigation.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(id), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(navigation.State) navigation.State) (navigation.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	next := fn(s.current(id)).Normalize()
	entry := memoryEntry{state: next}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.entries[id] = entry
	return next, nil
}

// sweep drops every expired entry at most once per ttl, so sessions that are
// never read again do not pile up. mu must be held.
func (s *MemoryStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Before(s.nextSweep) {
		return
	}
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.nextSweep = now.Add(s.ttl)
}

// Len returns the number of live sessions and drops expired ones
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.entries {
		s.current(id)
	}
	return len(s.entries)
}

// current must be called with mu held
func (s *MemoryStore) current(id string) navigation.State {
	entry, ok := s.entries[id]
	if !ok {
		return navigation.Initial()
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		return navigation.Initial()
	}
	return entry.state
}

// ContextKey is the echo.Context key holding the current session id
const ContextKey = "sessionID"
