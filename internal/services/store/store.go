// Package store holds the latest sales summary of every project.
package store

import (
	"maps"
	"sync"
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

// Entry is the latest result for one project. Exactly one of Summary and
// Err is set.
type Entry struct {
	Summary    *models.SalesSummary
	Err        error
	Generation uint64
	UpdatedAt  time.Time
}

// Store maps project ids to their latest Entry. Every refresh cycle gets a
// generation number and writes from older generations are dropped.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	generation uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Begin starts a new generation and returns it. When clear is set, all
// entries are removed first.
func (s *Store) Begin(clear bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if clear {
		s.entries = make(map[string]Entry)
	}
	return s.generation
}

// Generation returns the current generation.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Put records the result of a project fetch. It returns false and stores
// nothing when gen is not the current generation.
func (s *Store) Put(gen uint64, projectID string, summary *models.SalesSummary, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	entry := Entry{Generation: gen, UpdatedAt: time.Now()}
	if err != nil {
		entry.Err = err
	} else {
		entry.Summary = summary
	}
	s.entries[projectID] = entry
	return true
}

// Get returns the entry of a project.
func (s *Store) Get(projectID string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[projectID]
	return e, ok
}

// Snapshot returns a copy of all entries.
func (s *Store) Snapshot() map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Entry, len(s.entries))
	maps.Copy(out, s.entries)
	return out
}

// Summaries returns the successful summaries keyed by project id.
func (s *Store) Summaries() map[string]*models.SalesSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.SalesSummary, len(s.entries))
	for id, e := range s.entries {
		if e.Summary != nil {
			out[id] = e.Summary
		}
	}
	return out
}

// Clear removes every entry without changing the generation.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]Entry)
	s.mu.Unlock()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
