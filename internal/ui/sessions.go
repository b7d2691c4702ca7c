package ui

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps one State per browser session, in memory only.
// Sessions idle for longer than the TTL are evicted lazily on access.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*session
}

type session struct {
	state    *State
	lastSeen time.Time
}

// NewSessionStore creates a store. A ttl of 0 keeps sessions forever.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Get returns the state for id and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.state, true
}

// Create starts a new idle session and returns its id.
func (s *SessionStore) Create() (string, *State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	id := uuid.NewString()
	state := NewState()
	s.sessions[id] = &session{state: state, lastSeen: s.now()}
	return id, state
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) evictLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
