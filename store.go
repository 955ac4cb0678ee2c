package caretrail

import (
	"fmt"
	"sync"
)

// Store is durable, key-indexed storage for incident records. Order of
// List is storage order (insertion order), not sorted. Every call is
// synchronous and all-or-nothing: a failed write leaves the previously
// stored records intact.
type Store interface {
	// List returns all incidents in storage order.
	List() ([]Incident, error)

	// Append adds one incident. Ids must be unique across the store.
	Append(inc Incident) error

	// Remove deletes an incident by id, reporting whether it existed.
	Remove(id string) (bool, error)

	// ReplaceAll swaps the whole incident set, used by import/restore.
	ReplaceAll(incidents []Incident) error
}

// MemStore is an in-memory Store, primarily for tests and previews.
type MemStore struct {
	mu        sync.RWMutex
	incidents []Incident
}

// NewMemStore creates a MemStore seeded with the given incidents.
func NewMemStore(incidents ...Incident) *MemStore {
	s := &MemStore{}
	s.incidents = append(s.incidents, incidents...)
	return s
}

// List returns a copy of the stored incidents in insertion order.
func (s *MemStore) List() ([]Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Incident, len(s.incidents))
	copy(out, s.incidents)
	return out, nil
}

// Append adds an incident, rejecting duplicate ids.
func (s *MemStore) Append(inc Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.incidents {
		if existing.ID == inc.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, inc.ID)
		}
	}
	s.incidents = append(s.incidents, inc)
	return nil
}

// Remove deletes by id, preserving the order of the remaining records.
func (s *MemStore) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, inc := range s.incidents {
		if inc.ID == id {
			s.incidents = append(s.incidents[:i], s.incidents[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ReplaceAll swaps the whole set.
func (s *MemStore) ReplaceAll(incidents []Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents = make([]Incident, len(incidents))
	copy(s.incidents, incidents)
	return nil
}
