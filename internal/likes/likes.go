// Package likes tracks the per-session set of liked track ids.
package likes

import (
	"slices"
	"sync"
)

// Set is a concurrency-safe membership set keyed by track id.
type Set struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// Add marks a track as liked.
func (s *Set) Add(id string) {
	s.mu.Lock()
	s.ids[id] = struct{}{}
	s.mu.Unlock()
}

// Remove unmarks a track.
func (s *Set) Remove(id string) {
	s.mu.Lock()
	delete(s.ids, id)
	s.mu.Unlock()
}

// Contains reports whether a track is liked.
func (s *Set) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Toggle flips membership atomically and reports whether the track is now liked.
func (s *Set) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Len returns the number of liked tracks.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the liked track ids in sorted order.
func (s *Set) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids
}
