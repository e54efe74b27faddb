package forms

import (
	"sync"
	"time"
)

const (
	ModeCollecting   = "collecting"
	ModeConfirming   = "confirming"
	ModeEditing      = "editing"
	ModeEditingField = "editing_field"
	// ModeSubmitting is entered the moment a confirm is accepted; further
	// input is ignored so a double-tapped confirm cannot produce a second
	// post while the first one is still in flight.
	ModeSubmitting = "submitting"
)

// Answer holds one step's stored value. Multi-select steps fill List,
// everything else fills Value. Display, when set, is what previews show
// instead of Value (document steps store a file id but show the filename).
type Answer struct {
	Value   string
	Display string
	List    []string
}

// Session is the ephemeral per-chat form state. It is owned by exactly one
// SessionStore entry and only ever mutated under that entry's lock.
type Session struct {
	ChatID   string
	Language string
	Step     int
	Mode     string
	EditStep int
	Answers  map[int]Answer

	// Category drill-down state: Category holds the chosen top-level
	// category (kept after the subcategory is matched, it becomes the
	// auxiliary answer), InCategory marks that we are on level two.
	Category   string
	InCategory bool

	// Set while the multi-select step waits for one free-text addition.
	AwaitingFreeText bool

	Touched time.Time
}

type sessionEntry struct {
	mu   sync.Mutex
	sess *Session
}

// SessionStore maps chat ids to in-progress sessions. Update runs its
// mutation under the chat's own lock, so two near-simultaneous updates for
// the same chat serialize instead of both reading the same step.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
}

func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]*sessionEntry)}
}

// Start creates a fresh session for the chat, replacing any prior one.
func (s *SessionStore) Start(chatID, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[chatID] = &sessionEntry{sess: &Session{
		ChatID:   chatID,
		Language: language,
		Mode:     ModeCollecting,
		Answers:  make(map[int]Answer),
		Touched:  time.Now(),
	}}
}

// Update locks the chat's session and runs fn on it. It reports false when
// the chat has no active session; fn is not called in that case.
func (s *SessionStore) Update(chatID string, fn func(*Session)) bool {
	s.mu.Lock()
	entry, ok := s.entries[chatID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	fn(entry.sess)
	return true
}

func (s *SessionStore) Has(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[chatID]
	return ok
}

func (s *SessionStore) Clear(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, chatID)
}

// SweepIdle drops sessions untouched for longer than ttl and returns how
// many were removed.
func (s *SessionStore) SweepIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-ttl)
	removed := 0
	for chatID, entry := range s.entries {
		entry.mu.Lock()
		idle := entry.sess.Touched.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(s.entries, chatID)
			removed++
		}
	}
	return removed
}
