package handler

import (
	"sync"
	"time"

	"github.com/itchan-dev/supportdesk/frontend/internal/chat"
)

type sessionEntry struct {
	session  *chat.Session
	lastUsed time.Time
}

// sessionStore keeps chat sessions in memory. Sessions idle for longer than
// ttl are dropped; ttl <= 0 keeps them for the life of the process.
type sessionStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

func (s *sessionStore) get(id string) (*chat.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(e, now) {
		delete(s.sessions, id)
		return nil, false
	}
	e.lastUsed = now
	return e.session, true
}

func (s *sessionStore) add(session *chat.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
		}
	}
	s.sessions[session.ID()] = &sessionEntry{session: session, lastUsed: now}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) expired(e *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastUsed) > s.ttl
}
