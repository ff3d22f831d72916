// Package store holds the client-side copy of one resource collection together
// with its request lifecycle status and the one-shot notices derived from it.
package store

import (
	"errors"
	"sync"
)

// Entity is anything with a stable server-assigned identifier.
type Entity interface {
	GetID() int64
}

// Status is the coarse lifecycle state of the last fetch or mutation.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Outcome records which mutation last completed.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeDeleted Outcome = "deleted"
)

var (
	// ErrDuplicateID is returned when a created item's id is already held.
	ErrDuplicateID = errors.New("an item with this id is already present")
	// ErrUnknownID is returned when an update or delete names an id that is not held.
	ErrUnknownID = errors.New("no item with this id is present")
)

// Snapshot is a copy of the collection state for rendering.
type Snapshot[T Entity] struct {
	Status  Status
	Items   []T
	Failure string
	Outcome Outcome
}

// EntityStore owns the collection state for one resource type. Every method is
// safe for concurrent use.
type EntityStore[T Entity] struct {
	mu      sync.Mutex
	status  Status
	items   []T
	loaded  bool
	outcome Outcome
	failure string
}

// New returns an empty store in the idle state.
func New[T Entity]() *EntityStore[T] {
	return &EntityStore[T]{status: StatusIdle}
}

// BeginLoad marks a fetch or mutation as in flight. Calling it while already
// loading has no further effect.
func (s *EntityStore[T]) BeginLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusLoading
}

// ResolveLoad replaces the items with a freshly fetched collection. Duplicate ids
// in the input collapse to one entry; the later value wins and keeps the first position.
func (s *EntityStore[T]) ResolveLoad(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, 0, len(items))
	pos := make(map[int64]int, len(items))
	for _, item := range items {
		if i, ok := pos[item.GetID()]; ok {
			out[i] = item
			continue
		}
		pos[item.GetID()] = len(out)
		out = append(out, item)
	}

	s.items = out
	s.loaded = true
	s.status = StatusSucceeded
}

// FailLoad records a failure. Items are kept so the last good data stays readable.
func (s *EntityStore[T]) FailLoad(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusFailed
	s.failure = message
}

// CancelLoad leaves the loading state without recording an outcome, for requests
// whose failure is reported elsewhere (inline validation, re-authentication).
func (s *EntityStore[T]) CancelLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusLoading {
		return
	}
	if s.loaded {
		s.status = StatusSucceeded
	} else {
		s.status = StatusIdle
	}
}

// ApplyCreated adds a newly created item.
func (s *EntityStore[T]) ApplyCreated(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(item.GetID()) >= 0 {
		return ErrDuplicateID
	}
	s.items = append(s.items, item)
	s.settle(OutcomeCreated)
	return nil
}

// ApplyUpdated replaces the item with the same id.
func (s *EntityStore[T]) ApplyUpdated(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(item.GetID())
	if i < 0 {
		return ErrUnknownID
	}
	items := make([]T, len(s.items))
	copy(items, s.items)
	items[i] = item
	s.items = items
	s.settle(OutcomeUpdated)
	return nil
}

// ApplyDeleted removes the item with the given id.
func (s *EntityStore[T]) ApplyDeleted(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrUnknownID
	}
	items := make([]T, 0, len(s.items)-1)
	items = append(items, s.items[:i]...)
	items = append(items, s.items[i+1:]...)
	s.items = items
	s.settle(OutcomeDeleted)
	return nil
}

// RecordOutcome marks a server-confirmed mutation as complete without touching the
// items, for when the held collection already reflects it.
func (s *EntityStore[T]) RecordOutcome(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle(o)
}

// ConsumeMutationNotice returns the pending mutation outcome and clears it.
// A second call without an intervening mutation returns OutcomeNone.
func (s *EntityStore[T]) ConsumeMutationNotice() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.outcome
	s.outcome = OutcomeNone
	return o
}

// ConsumeFailure returns the pending failure message and clears it.
func (s *EntityStore[T]) ConsumeFailure() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.failure
	s.failure = ""
	return msg, msg != ""
}

// Status returns the current lifecycle status.
func (s *EntityStore[T]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Items returns a copy of the held items.
func (s *EntityStore[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Snapshot returns a copy of the whole state without consuming anything.
func (s *EntityStore[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return Snapshot[T]{Status: s.status, Items: out, Failure: s.failure, Outcome: s.outcome}
}

func (s *EntityStore[T]) settle(o Outcome) {
	s.outcome = o
	s.status = StatusSucceeded
	s.loaded = true
}

func (s *EntityStore[T]) indexOf(id int64) int {
	for i, item := range s.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}
