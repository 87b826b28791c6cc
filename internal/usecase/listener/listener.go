// Package listener keeps the subscriber list of a store.
package listener

import (
	"sort"
	"sync"

	"github.com/Guyuepp/market-front/domain"
)

// Set is a set of listeners. The zero value is ready to use.
type Set struct {
	mu   sync.Mutex
	next int
	fns  map[int]domain.Listener
}

// Add registers l and returns a func that removes it again.
func (s *Set) Add(l domain.Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]domain.Listener)
	}
	id := s.next
	s.next++
	s.fns[id] = l
	return func() {
		s.mu.Lock()
		delete(s.fns, id)
		s.mu.Unlock()
	}
}

// Emit calls every listener in registration order, outside the lock.
func (s *Set) Emit(e domain.StoreEvent) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]domain.Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.fns[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
