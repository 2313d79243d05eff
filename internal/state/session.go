// internal/state/session.go
package state

import (
	"sync"

	"github.com/user/hotline/internal/types"
)

// SessionStore is the process-wide map of open calls, keyed by CallID.
// A session exists here exactly while its call is open: Put on the start
// webhook, Remove on termination. State is session-scoped and in-memory;
// nothing survives a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[types.CallID]*types.Session
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[types.CallID]*types.Session),
	}
}

// Put registers the session for its call. A duplicate start for the same
// CallID overwrites the prior session; the provider does not duplicate start
// events for one physical call.
func (s *SessionStore) Put(sess *types.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get returns the open session for the call, or false when the call is
// unknown.
func (s *SessionStore) Get(id types.CallID) (*types.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Remove destroys the session for the call. Removing an unknown call is a
// no-op.
func (s *SessionStore) Remove(id types.CallID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of open calls.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
