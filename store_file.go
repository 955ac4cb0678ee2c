package caretrail

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists incidents as a single JSON document. Writes go to
// a temporary file first and land with an atomic rename, so a failure
// mid-write leaves either the old document or the new one, never a
// corrupt mix.
type FileStore struct {
	path      string
	mu        sync.Mutex
	incidents []Incident
}

// NewFileStore opens (or creates) a file-backed store at path. An
// absent file starts the store empty.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", ErrPersistence, err)
	}

	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read store: %v", ErrPersistence, err)
	}
	if err := json.Unmarshal(data, &s.incidents); err != nil {
		return nil, fmt.Errorf("%w: decode store: %v", ErrPersistence, err)
	}
	return s, nil
}

// List returns a copy of the stored incidents in insertion order.
func (s *FileStore) List() ([]Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Incident, len(s.incidents))
	copy(out, s.incidents)
	return out, nil
}

// Append adds an incident and persists the new set. The in-memory view
// only advances once the write landed.
func (s *FileStore) Append(inc Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.incidents {
		if existing.ID == inc.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, inc.ID)
		}
	}

	next := make([]Incident, 0, len(s.incidents)+1)
	next = append(next, s.incidents...)
	next = append(next, inc)
	if err := s.persist(next); err != nil {
		return err
	}
	s.incidents = next
	return nil
}

// Remove deletes by id and persists the new set.
func (s *FileStore) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, inc := range s.incidents {
		if inc.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	next := make([]Incident, 0, len(s.incidents)-1)
	next = append(next, s.incidents[:idx]...)
	next = append(next, s.incidents[idx+1:]...)
	if err := s.persist(next); err != nil {
		return false, err
	}
	s.incidents = next
	return true, nil
}

// ReplaceAll swaps and persists the whole set.
func (s *FileStore) ReplaceAll(incidents []Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Incident, len(incidents))
	copy(next, incidents)
	if err := s.persist(next); err != nil {
		return err
	}
	s.incidents = next
	return nil
}

// persist writes the document to a temporary file and swaps it in with
// an atomic rename.
func (s *FileStore) persist(incidents []Incident) error {
	data, err := json.MarshalIndent(incidents, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode store: %v", ErrPersistence, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: write store: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace store: %v", ErrPersistence, err)
	}
	return nil
}
