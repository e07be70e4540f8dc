// sessions.go - Per-visitor switch state kept in memory
package main

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one visitor's view of the site.
type Session struct {
	ID         string
	Switcher   *Switcher
	CreatedAt  time.Time
	LastAccess time.Time
}

// SessionStore holds a Switcher per visitor. Evicted and expired sessions
// have their switchers stopped so no timer outlives its session.
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	maxSessions int
	ttl         time.Duration
	newSwitcher func(sessionID string) *Switcher
	now         func() time.Time
}

func NewSessionStore(maxSessions int, ttl time.Duration, newSwitcher func(sessionID string) *Switcher) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		ttl:         ttl,
		newSwitcher: newSwitcher,
		now:         time.Now,
	}
}

// Get returns the session for id, creating a fresh one when id is empty,
// unknown or expired. The second result reports whether it was created.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		if now.Sub(sess.LastAccess) <= s.ttl {
			sess.LastAccess = now
			return sess, false
		}
		s.removeLocked(id)
	}

	if len(s.sessions) >= s.maxSessions {
		var oldestID string
		var oldestTime time.Time
		for sid, sess := range s.sessions {
			if oldestTime.IsZero() || sess.LastAccess.Before(oldestTime) {
				oldestID = sid
				oldestTime = sess.LastAccess
			}
		}
		s.removeLocked(oldestID)
	}

	sid := uuid.New().String()
	sess := &Session{
		ID:         sid,
		Switcher:   s.newSwitcher(sid),
		CreatedAt:  now,
		LastAccess: now,
	}
	s.sessions[sess.ID] = sess
	return sess, true
}

func (s *SessionStore) removeLocked(id string) {
	if sess, ok := s.sessions[id]; ok {
		sess.Switcher.Stop()
		delete(s.sessions, id)
	}
}

// Len is the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL.
func (s *SessionStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastAccess.Before(cutoff) {
			s.removeLocked(id)
			removed++
		}
	}
	return removed
}

// Close stops every switcher and drops all sessions.
func (s *SessionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.sessions {
		s.removeLocked(id)
	}
}

// StartCleanup runs Cleanup on interval until the returned func is called.
func (s *SessionStore) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}
