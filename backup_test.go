package caretrail_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jmorrin/caretrail"
	"github.com/jmorrin/caretrail/testutil"
)

func TestBackup_RoundTrip(t *testing.T) {
	source := caretrail.NewMemStore(testutil.SampleIncidents()...)

	backup, err := caretrail.ExportBackup(source, map[string]any{"voice_capture": true})
	if err != nil {
		t.Fatalf("ExportBackup() error = %v", err)
	}
	if backup.Version != caretrail.BackupVersion {
		t.Errorf("Version = %q, want %q", backup.Version, caretrail.BackupVersion)
	}
	if backup.ExportID == "" {
		t.Error("ExportID is empty")
	}

	var buf bytes.Buffer
	if err := backup.WriteBackup(&buf); err != nil {
		t.Fatalf("WriteBackup() error = %v", err)
	}

	target := caretrail.NewMemStore()
	n, err := caretrail.ImportBackup(target, buf.Bytes())
	if err != nil {
		t.Fatalf("ImportBackup() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ImportBackup() = %d records, want 2", n)
	}

	got, _ := target.List()
	want, _ := source.List()
	if len(got) != len(want) {
		t.Fatalf("imported %d incidents, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("incident %d id = %q, want %q", i, got[i].ID, want[i].ID)
		}
		if !got[i].Timestamp.Equal(want[i].Timestamp) {
			t.Errorf("incident %d timestamp = %v, want %v", i, got[i].Timestamp, want[i].Timestamp)
		}
		if got[i].Category != want[i].Category ||
			got[i].Severity != want[i].Severity ||
			got[i].Transcript != want[i].Transcript ||
			got[i].Location != want[i].Location {
			t.Errorf("incident %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestImportBackup_MissingIncidentsField(t *testing.T) {
	store := caretrail.NewMemStore(testutil.SampleIncidents()...)

	_, err := caretrail.ImportBackup(store, []byte(`{"version":"1.0","settings":{}}`))
	if !errors.Is(err, caretrail.ErrImportFormat) {
		t.Fatalf("ImportBackup() error = %v, want ErrImportFormat", err)
	}

	// No partial overwrite.
	incidents, _ := store.List()
	if len(incidents) != 2 {
		t.Errorf("store has %d incidents, want untouched 2", len(incidents))
	}
}

func TestImportBackup_MalformedDocument(t *testing.T) {
	store := caretrail.NewMemStore()

	_, err := caretrail.ImportBackup(store, []byte(`{not json`))
	if !errors.Is(err, caretrail.ErrImportFormat) {
		t.Fatalf("ImportBackup() error = %v, want ErrImportFormat", err)
	}
}

func TestImportBackup_InvalidIncidentRejected(t *testing.T) {
	store := caretrail.NewMemStore(testutil.SampleIncidents()...)

	doc := []byte(`{
		"version": "1.0",
		"incidents": [
			{"id": "bad", "timestamp": "2024-01-01T10:00:00Z", "category": "Meltdown", "severity": 9, "transcript": "t"}
		]
	}`)
	_, err := caretrail.ImportBackup(store, doc)
	if !errors.Is(err, caretrail.ErrImportFormat) {
		t.Fatalf("ImportBackup() error = %v, want ErrImportFormat", err)
	}

	incidents, _ := store.List()
	if len(incidents) != 2 {
		t.Errorf("store has %d incidents, want untouched 2", len(incidents))
	}
}

func TestImportBackup_EmptyIncidentsIsValid(t *testing.T) {
	store := caretrail.NewMemStore(testutil.SampleIncidents()...)

	n, err := caretrail.ImportBackup(store, []byte(`{"version":"1.0","incidents":[]}`))
	if err != nil {
		t.Fatalf("ImportBackup() error = %v", err)
	}
	if n != 0 {
		t.Errorf("ImportBackup() = %d, want 0", n)
	}

	incidents, _ := store.List()
	if len(incidents) != 0 {
		t.Errorf("store has %d incidents, want 0 after restore of empty set", len(incidents))
	}
}

func TestImportBackup_DuplicateIDsRejected(t *testing.T) {
	store := caretrail.NewMemStore()

	doc := []byte(`{
		"version": "1.0",
		"incidents": [
			{"id": "same", "timestamp": "2024-01-01T10:00:00Z", "category": "Meltdown", "severity": 2, "transcript": "t1"},
			{"id": "same", "timestamp": "2024-01-02T10:00:00Z", "category": "Meltdown", "severity": 3, "transcript": "t2"}
		]
	}`)
	_, err := caretrail.ImportBackup(store, doc)
	if !errors.Is(err, caretrail.ErrImportFormat) {
		t.Fatalf("ImportBackup() error = %v, want ErrImportFormat", err)
	}
}

func TestImportBackup_PersistenceErrorSurfaced(t *testing.T) {
	doc := []byte(`{"version":"1.0","incidents":[]}`)

	_, err := caretrail.ImportBackup(failStore{}, doc)
	if !errors.Is(err, caretrail.ErrPersistence) {
		t.Fatalf("ImportBackup() error = %v, want ErrPersistence", err)
	}
}
