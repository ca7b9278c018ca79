package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated session.  Sessions are kept in memory;
// they are not persisted.
type Session struct {
	Username string
	Expires  time.Time
}

// SessionManager manages active sessions keyed by random IDs.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewSessionManager constructs an empty session store.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]Session), now: time.Now}
}

// Create starts a new session for the given username which expires after ttl.
func (sm *SessionManager) Create(username string, ttl time.Duration) (string, Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	id := uuid.NewString()
	s := Session{Username: username, Expires: sm.now().Add(ttl)}
	sm.sessions[id] = s
	return id, s
}

// Get retrieves a session by ID.  If the session has expired or does not exist
// it returns false.
func (sm *SessionManager) Get(id string) (Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[id]
	if !ok || sm.now().After(s.Expires) {
		return Session{}, false
	}
	return s, true
}

// Delete removes a session.  It returns true if the session existed.
func (sm *SessionManager) Delete(id string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[id]; ok {
		delete(sm.sessions, id)
		return true
	}
	return false
}

// Purge removes all expired sessions and returns how many were dropped.
func (sm *SessionManager) Purge() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	now := sm.now()
	n := 0
	for id, s := range sm.sessions {
		if now.After(s.Expires) {
			delete(sm.sessions, id)
			n++
		}
	}
	return n
}
