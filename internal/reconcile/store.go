package reconcile

import "sync"

// SessionStore owns the live reconciliation sessions, keyed by shift.
// Sessions are deliberately memory-only: partial reconciliation state is
// never persisted, and a lost session is re-opened from readings.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionStore constructs an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Put registers a session for its shift. Fails if one is already open.
func (s *SessionStore) Put(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ShiftID]; ok {
		return ErrSessionExists
	}
	s.sessions[sess.ShiftID] = sess
	return nil
}

// Update runs fn against the session for shiftID under the store lock.
// The single lock is sufficient: one shift is reconciled by one user at a
// time and every mutation is a synchronous recomputation of derived state.
func (s *SessionStore) Update(shiftID int64, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[shiftID]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(sess)
}

// Delete discards the session for a shift. Unknown shifts are a no-op.
func (s *SessionStore) Delete(shiftID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, shiftID)
}

// Len reports how many sessions are currently open.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
