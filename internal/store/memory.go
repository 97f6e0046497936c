package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when a session does not exist or has expired.
	ErrNotFound = errors.New("session not found")
	// ErrExists is returned when creating a session whose ID is taken.
	ErrExists = errors.New("session already exists")
)

type entry struct {
	session weather.Session
	issued  uint64 // last ticket handed out by Begin
}

// MemoryStore is a concurrency-safe in-memory session store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session id
	data map[string]*entry

	// retention configuration
	maxSessions int           // max number of live sessions
	maxAge      time.Duration // idle time after which a session expires

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxSessions or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxSessions int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:        make(map[string]*entry),
		maxSessions: maxSessions,
		maxAge:      maxAge,
		now:         time.Now,
	}
}

// Create stores a new session, evicting the least recently updated one
// when the count limit is reached.
func (s *MemoryStore) Create(_ context.Context, session weather.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[session.ID]; ok {
		return fmt.Errorf("%w: %s", ErrExists, session.ID)
	}

	// Enforce retention by count.
	if s.maxSessions > 0 && len(s.data) >= s.maxSessions {
		s.evictOldestLocked()
	}

	s.data[session.ID] = &entry{session: session, issued: session.Seq}
	return nil
}

// Get returns the session if it exists and has not expired.
func (s *MemoryStore) Get(_ context.Context, id string) (weather.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[id]
	if !ok || s.expired(e.session) {
		return weather.Session{}, ErrNotFound
	}
	return e.session, nil
}

// Touch refreshes the idle clock of a live session.
func (s *MemoryStore) Touch(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok || s.expired(e.session) {
		return ErrNotFound
	}
	if at.After(e.session.UpdatedAt) {
		e.session.UpdatedAt = at
	}
	return nil
}

// Begin hands out the next ticket for the session.
func (s *MemoryStore) Begin(_ context.Context, id string) (weather.Session, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok || s.expired(e.session) {
		return weather.Session{}, 0, ErrNotFound
	}
	e.issued++
	return e.session, e.issued, nil
}

// Commit saves the session unless a newer ticket has been issued.
func (s *MemoryStore) Commit(_ context.Context, session weather.Session, ticket uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[session.ID]
	if !ok || s.expired(e.session) {
		return ErrNotFound
	}
	if ticket != e.issued {
		return weather.ErrSuperseded
	}
	e.session = session
	return nil
}

// Prune drops every session idle for longer than maxAge.
func (s *MemoryStore) Prune(_ context.Context, now time.Time) (int, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.maxAge)
	removed := 0
	for id, e := range s.data {
		if e.session.UpdatedAt.Before(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) expired(session weather.Session) bool {
	if s.maxAge <= 0 {
		return false
	}
	return session.UpdatedAt.Before(s.now().Add(-s.maxAge))
}

func (s *MemoryStore) evictOldestLocked() {
	var (
		oldestID string
		oldestAt time.Time
	)
	for id, e := range s.data {
		if oldestID == "" || e.session.UpdatedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.session.UpdatedAt
		}
	}
	if oldestID != "" {
		delete(s.data, oldestID)
	}
}

var _ weather.SessionStore = (*MemoryStore)(nil)
