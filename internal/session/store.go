// Package session holds the shared UI state for the session list and the
// current selection.
package session

import (
	"github.com/google/uuid"

	"github.com/NexAgentsAI/NexAgents/pkg/domain"
)

// EventKind identifies what changed in the store.
type EventKind int

const (
	// ListReplaced means the session list was replaced wholesale.
	ListReplaced EventKind = iota
	// CurrentSet means a session became current.
	CurrentSet
	// CurrentCleared means no session is current anymore.
	CurrentCleared
)

func (k EventKind) String() string {
	switch k {
	case ListReplaced:
		return "list_replaced"
	case CurrentSet:
		return "current_set"
	case CurrentCleared:
		return "current_cleared"
	default:
		return "unknown"
	}
}

// Event describes a single store change.
type Event struct {
	Kind      EventKind
	SessionID uuid.UUID // zero for ListReplaced and CurrentCleared
}

// Store holds the session list and the current selection. It is a plain
// container: no I/O, no validation, no reconciliation policy. All access
// happens on the program's update loop, so there is no locking; keeping
// list and current consistent is the caller's job.
type Store struct {
	sessions []domain.Session
	current  *domain.Session

	nextID      int
	subscribers map[int]func(Event)
}

// NewStore creates an empty store. Build one in main and pass it down;
// nothing in this package holds a shared instance.
func NewStore() *Store {
	return &Store{subscribers: make(map[int]func(Event))}
}

// Sessions returns a copy of the session list.
func (s *Store) Sessions() []domain.Session {
	out := make([]domain.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	return len(s.sessions)
}

// SetSessions replaces the list wholesale. The slice is copied.
func (s *Store) SetSessions(sessions []domain.Session) {
	s.sessions = make([]domain.Session, len(sessions))
	copy(s.sessions, sessions)
	s.notify(Event{Kind: ListReplaced})
}

// Current returns the current session, or nil when none is selected.
func (s *Store) Current() *domain.Session {
	return s.current
}

// SetCurrent sets the current session; nil clears the selection.
func (s *Store) SetCurrent(sess *domain.Session) {
	s.current = sess
	if sess == nil {
		s.notify(Event{Kind: CurrentCleared})
		return
	}
	s.notify(Event{Kind: CurrentSet, SessionID: sess.ID})
}

// Subscribe registers a callback invoked synchronously on every change.
// It returns an unsubscribe function.
func (s *Store) Subscribe(fn func(Event)) func() {
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() { delete(s.subscribers, id) }
}

func (s *Store) notify(e Event) {
	for _, fn := range s.subscribers {
		fn(e)
	}
}
