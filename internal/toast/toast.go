// Package toast is the process-wide transient notification queue. The
// store is created once at application start and injected wherever
// messages surface; it never persists anything.
package toast

import (
	"time"

	"github.com/google/uuid"
)

// TTL is how long a toast stays visible before auto-dismissal.
const TTL = 4 * time.Second

// Kind distinguishes success from error toasts.
type Kind int

// Toast kinds.
const (
	KindSuccess Kind = iota
	KindError
)

// Toast is one queued message.
type Toast struct {
	Deadline time.Time
	ID       string
	Title    string
	Detail   string
	Kind     Kind
}

// Store holds the active toasts. Identical messages are not
// de-duplicated; duplicates stack in arrival order.
type Store struct {
	now    func() time.Time
	toasts []Toast
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// NewStoreWithClock creates a store with a substitute clock for tests.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// Success enqueues a success toast and returns its id.
func (s *Store) Success(title string, detail ...string) string {
	return s.push(KindSuccess, title, detail)
}

// Error enqueues an error toast and returns its id.
func (s *Store) Error(title string, detail ...string) string {
	return s.push(KindError, title, detail)
}

func (s *Store) push(kind Kind, title string, detail []string) string {
	t := Toast{
		ID:       uuid.NewString(),
		Kind:     kind,
		Title:    title,
		Deadline: s.now().Add(TTL),
	}
	if len(detail) > 0 {
		t.Detail = detail[0]
	}

	s.toasts = append(s.toasts, t)
	return t.ID
}

// Dismiss removes a toast by id before its deadline. Unknown ids are
// ignored.
func (s *Store) Dismiss(id string) {
	for i, t := range s.toasts {
		if t.ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return
		}
	}
}

// Active prunes expired toasts and returns the remainder in arrival
// order. Each toast expires on its own deadline, independent of the
// others.
func (s *Store) Active() []Toast {
	now := s.now()
	kept := s.toasts[:0]
	for _, t := range s.toasts {
		if t.Deadline.After(now) {
			kept = append(kept, t)
		}
	}
	s.toasts = kept

	out := make([]Toast, len(s.toasts))
	copy(out, s.toasts)
	return out
}
