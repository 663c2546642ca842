package dataset

import "sync"

// Store is the process-wide holder for the most recently uploaded dataset.
// Single-operator by design: all sessions see the same dataset. The mutex
// guards replace/clear against concurrent request workers.
type Store struct {
	mu      sync.RWMutex
	current *Dataset
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a new dataset, discarding any previous one in full.
func (s *Store) Replace(d *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = d
}

// Clear drops the dataset; subsequent renders show the no-dataset state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current returns the stored dataset, or nil when none has been uploaded.
func (s *Store) Current() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
