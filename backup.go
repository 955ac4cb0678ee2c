package caretrail

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// BackupVersion is written into every exported backup document.
const BackupVersion = "1.0"

// Backup is the portable backup/restore document: the full incident
// collection plus opaque settings. Importing replaces the store
// wholesale.
type Backup struct {
	Version    string         `json:"version"`
	ExportID   string         `json:"exportId"`
	ExportDate time.Time      `json:"exportDate"`
	Incidents  []Incident     `json:"incidents"`
	Settings   map[string]any `json:"settings,omitempty"`
}

// ExportBackup snapshots the full store into a backup document.
func ExportBackup(store Store, settings map[string]any) (*Backup, error) {
	incidents, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("export backup: %w", err)
	}
	if incidents == nil {
		incidents = []Incident{}
	}
	return &Backup{
		Version:    BackupVersion,
		ExportID:   uuid.NewString(),
		ExportDate: time.Now(),
		Incidents:  incidents,
		Settings:   settings,
	}, nil
}

// WriteBackup serializes a backup document.
func (b *Backup) WriteBackup(w io.Writer) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// ImportBackup validates a backup document and replaces the store's
// contents with its incidents. The incidents field must be present:
// an empty collection is valid, an absent one is not. On any failure
// the store is left untouched. Returns the number of imported records.
func ImportBackup(store Store, data []byte) (int, error) {
	var probe struct {
		Incidents json.RawMessage `json:"incidents"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	if probe.Incidents == nil {
		return 0, fmt.Errorf("%w: incidents field missing", ErrImportFormat)
	}

	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	seen := make(map[string]bool, len(b.Incidents))
	for _, inc := range b.Incidents {
		if err := inc.Validate(); err != nil {
			return 0, fmt.Errorf("%w: incident %s: %v", ErrImportFormat, inc.ID, err)
		}
		if seen[inc.ID] {
			return 0, fmt.Errorf("%w: duplicate incident id %s", ErrImportFormat, inc.ID)
		}
		seen[inc.ID] = true
	}

	if err := store.ReplaceAll(b.Incidents); err != nil {
		return 0, fmt.Errorf("import backup: %w", err)
	}
	return len(b.Incidents), nil
}
