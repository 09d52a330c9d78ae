package util

import (
	"sort"
	"sync"

	"golang.org/x/exp/constraints"
)

// Set is an unordered collection of unique values. The zero value is ready to use.
// It is not safe for concurrent use; see SyncSet.
type Set[T constraints.Ordered] struct {
	items map[T]struct{}
}

// Add inserts item and reports whether it was not present before.
func (s *Set[T]) Add(item T) bool {
	if s.items == nil {
		s.items = make(map[T]struct{})
	}

	if _, ok := s.items[item]; ok {
		return false
	}

	s.items[item] = struct{}{}
	return true
}

func (s *Set[T]) Has(item T) bool {
	_, ok := s.items[item]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.items)
}

// Slice returns the items in ascending order, or nil when empty.
func (s *Set[T]) Slice() []T {
	if len(s.items) == 0 {
		return nil
	}

	out := make([]T, 0, len(s.items))
	for item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SyncSet is a Set guarded by a mutex.
type SyncSet[T constraints.Ordered] struct {
	mu  sync.Mutex
	set Set[T]
}

func (s *SyncSet[T]) Add(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Add(item)
}

func (s *SyncSet[T]) Has(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Has(item)
}

func (s *SyncSet[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Len()
}

func (s *SyncSet[T]) Slice() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Slice()
}
