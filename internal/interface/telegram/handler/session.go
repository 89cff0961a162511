package handler

import (
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATCH DIALOG SESSIONS
// The /game dialog is a small per-user state machine kept in memory. An
// abandoned dialog expires after five minutes; the next /game always starts
// a fresh one.
// ══════════════════════════════════════════════════════════════════════════════

// DialogStep is the position inside the match-entry dialog.
type DialogStep int

const (
	// StepWinners waits for the winning pair.
	StepWinners DialogStep = iota

	// StepLosers waits for the losing pair.
	StepLosers

	// StepDryWin waits for the dry-win answer.
	StepDryWin

	// StepConfirm waits for the final confirmation.
	StepConfirm
)

// DefaultSessionTTL is how long an abandoned dialog survives.
const DefaultSessionTTL = 5 * time.Minute

// MatchDraft accumulates the dialog answers.
type MatchDraft struct {
	Step DialogStep

	WinnerIDs   [2]string
	WinnerNames [2]string
	LoserIDs    [2]string
	LoserNames  [2]string

	IsDryWin    bool
	DryWinKnown bool
}

// Session is one user's active dialog.
type Session struct {
	Draft     MatchDraft
	ExpiresAt time.Time
}

// SessionStore keeps active dialogs keyed by Telegram ID.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store. ttl <= 0 means DefaultSessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used in tests.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

// Begin starts a fresh dialog, replacing any existing one.
func (s *SessionStore) Begin(telegramID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		Draft:     MatchDraft{Step: StepWinners},
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.sessions[telegramID] = sess
	s.evictExpired()
	return sess
}

// Get returns the user's active dialog, expiring it lazily.
func (s *SessionStore) Get(telegramID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[telegramID]
	if !ok {
		return nil, false
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.sessions, telegramID)
		return nil, false
	}
	return sess, true
}

// Touch extends the dialog's deadline after a successful step.
func (s *SessionStore) Touch(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[telegramID]; ok {
		sess.ExpiresAt = s.now().Add(s.ttl)
	}
}

// End removes the user's dialog.
func (s *SessionStore) End(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, telegramID)
}

// evictExpired drops stale dialogs. Called under the lock.
func (s *SessionStore) evictExpired() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}
