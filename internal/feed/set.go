package feed

import "sync"

// Set holds independent feeds keyed by K, such as one per news category.
// Each key has its own cursor and in-flight state; pagers are created on
// first use.
type Set[K comparable, T any] struct {
	mu     sync.Mutex
	pagers map[K]*Pager[T]
	source func(K) PageFunc[T]
}

// NewSet creates a set whose feed for key k pages through source(k)
func NewSet[K comparable, T any](source func(K) PageFunc[T]) *Set[K, T] {
	return &Set[K, T]{
		pagers: make(map[K]*Pager[T]),
		source: source,
	}
}

// Get returns the feed for key, creating it if needed
func (s *Set[K, T]) Get(key K) *Pager[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pagers[key]
	if !ok {
		p = NewPager(s.source(key))
		s.pagers[key] = p
	}
	return p
}

// Reset resets the feed for key, if it exists
func (s *Set[K, T]) Reset(key K) {
	s.mu.Lock()
	p, ok := s.pagers[key]
	s.mu.Unlock()
	if ok {
		p.Reset()
	}
}

// ResetAll resets every feed in the set
func (s *Set[K, T]) ResetAll() {
	s.mu.Lock()
	pagers := make([]*Pager[T], 0, len(s.pagers))
	for _, p := range s.pagers {
		pagers = append(pagers, p)
	}
	s.mu.Unlock()

	for _, p := range pagers {
		p.Reset()
	}
}

// Len returns the number of feeds created so far
func (s *Set[K, T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pagers)
}
