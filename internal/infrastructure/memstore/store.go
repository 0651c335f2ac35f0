package memstore

import (
	"sync"

	"github.com/execution-hub/event-console/internal/domain/eventdetails"
)

// Listener observes every applied transition.
type Listener func(eventID string, t eventdetails.Transition, next eventdetails.State)

// Store is the in-process event details state holder.
type Store struct {
	mu        sync.RWMutex
	states    map[string]eventdetails.State
	listeners []Listener
}

func New() *Store {
	return &Store{
		states: make(map[string]eventdetails.State),
	}
}

// Subscribe registers a listener. Listeners run after the state is
// updated, outside the lock.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) Dispatch(eventID string, t eventdetails.Transition) eventdetails.State {
	s.mu.Lock()
	current, ok := s.states[eventID]
	if !ok {
		current = eventdetails.NewState(eventID)
	}
	next := eventdetails.Reduce(current, t)
	s.states[eventID] = next
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(eventID, t, next)
	}
	return next
}

func (s *Store) Snapshot(eventID string) eventdetails.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.states[eventID]; ok {
		return st
	}
	return eventdetails.NewState(eventID)
}
