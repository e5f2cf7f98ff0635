package manifest

import (
	"sync"
	"sync/atomic"
)

// Store publishes the current manifest to readers on other goroutines.
// Reloads replace the whole manifest; readers holding the old one keep a
// consistent view.
type Store struct {
	current atomic.Pointer[Manifest]
	version atomic.Uint64

	mu     sync.Mutex
	nextID int
	subs   map[int]func(*Manifest)
}

// NewStore returns a store holding m (nil means empty).
func NewStore(m *Manifest) *Store {
	if m == nil {
		m = Empty()
	}
	s := &Store{subs: make(map[int]func(*Manifest))}
	s.current.Store(m)
	return s
}

// Load returns the current manifest.
func (s *Store) Load() *Manifest {
	return s.current.Load()
}

// Version counts swaps since creation.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

// Swap publishes m and notifies subscribers. It returns the previous
// manifest.
func (s *Store) Swap(m *Manifest) *Manifest {
	if m == nil {
		m = Empty()
	}
	old := s.current.Swap(m)
	s.version.Add(1)

	s.mu.Lock()
	subs := make([]func(*Manifest), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(m)
	}
	return old
}

// Subscribe registers fn to run after every Swap. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(*Manifest)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
