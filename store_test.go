package caretrail_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmorrin/caretrail"
	"github.com/jmorrin/caretrail/testutil"
)

// storeContract exercises the Store guarantees shared by every
// implementation.
func storeContract(t *testing.T, store caretrail.Store) {
	t.Helper()

	// Starts empty.
	incidents, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(incidents) != 0 {
		t.Fatalf("new store has %d incidents, want 0", len(incidents))
	}

	// Append preserves insertion order.
	a := testutil.Incident("store-a", 0, 2)
	b := testutil.Incident("store-b", 1, 4)
	c := testutil.Incident("store-c", 2, 3)
	for _, inc := range []caretrail.Incident{a, b, c} {
		if err := store.Append(inc); err != nil {
			t.Fatalf("Append(%s) error = %v", inc.ID, err)
		}
	}

	incidents, err = store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(incidents) != 3 {
		t.Fatalf("List() returned %d incidents, want 3", len(incidents))
	}
	for i, want := range []string{"store-a", "store-b", "store-c"} {
		if incidents[i].ID != want {
			t.Errorf("List()[%d].ID = %q, want %q", i, incidents[i].ID, want)
		}
	}
	if !incidents[1].Timestamp.Equal(b.Timestamp) {
		t.Errorf("List()[1].Timestamp = %v, want %v", incidents[1].Timestamp, b.Timestamp)
	}

	// Duplicate ids are rejected without changing the store.
	if err := store.Append(testutil.Incident("store-b", 5, 1)); !errors.Is(err, caretrail.ErrDuplicateID) {
		t.Errorf("Append(duplicate) error = %v, want ErrDuplicateID", err)
	}
	incidents, _ = store.List()
	if len(incidents) != 3 {
		t.Errorf("store has %d incidents after rejected append, want 3", len(incidents))
	}

	// Remove reports presence.
	removed, err := store.Remove("store-b")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if !removed {
		t.Error("Remove(store-b) = false, want true")
	}
	removed, err = store.Remove("no-such-id")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed {
		t.Error("Remove(no-such-id) = true, want false")
	}

	incidents, _ = store.List()
	if len(incidents) != 2 {
		t.Fatalf("store has %d incidents after remove, want 2", len(incidents))
	}
	if incidents[0].ID != "store-a" || incidents[1].ID != "store-c" {
		t.Errorf("remaining order = %s, %s; want store-a, store-c", incidents[0].ID, incidents[1].ID)
	}

	// ReplaceAll swaps the whole set.
	if err := store.ReplaceAll(testutil.SampleIncidents()); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	incidents, _ = store.List()
	if len(incidents) != 2 {
		t.Fatalf("store has %d incidents after replace, want 2", len(incidents))
	}
	if incidents[0].ID != "inc-001" {
		t.Errorf("List()[0].ID = %q, want inc-001", incidents[0].ID)
	}
	if len(incidents[1].PeopleInvolved) != 1 || incidents[1].PeopleInvolved[0] != "Child" {
		t.Errorf("List()[1].PeopleInvolved = %v, want [Child]", incidents[1].PeopleInvolved)
	}

	// ReplaceAll with an empty set empties the store.
	if err := store.ReplaceAll(nil); err != nil {
		t.Fatalf("ReplaceAll(nil) error = %v", err)
	}
	incidents, _ = store.List()
	if len(incidents) != 0 {
		t.Errorf("store has %d incidents after empty replace, want 0", len(incidents))
	}
}

func TestMemStore(t *testing.T) {
	storeContract(t, caretrail.NewMemStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.json")
	store, err := caretrail.NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	storeContract(t, store)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.json")

	store, err := caretrail.NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	for _, inc := range testutil.SampleIncidents() {
		if err := store.Append(inc); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	reopened, err := caretrail.NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	incidents, err := reopened.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(incidents) != 2 {
		t.Fatalf("reopened store has %d incidents, want 2", len(incidents))
	}
	if incidents[0].ID != "inc-001" || incidents[1].ID != "inc-002" {
		t.Errorf("reopened order = %s, %s", incidents[0].ID, incidents[1].ID)
	}
	if incidents[0].Transcript != "t1" {
		t.Errorf("reopened transcript = %q, want t1", incidents[0].Transcript)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.db")
	store, err := caretrail.OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	defer store.Close()

	storeContract(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.db")

	store, err := caretrail.OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	sample := testutil.SampleIncidents()
	for _, inc := range sample {
		if err := store.Append(inc); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := caretrail.OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	incidents, err := reopened.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(incidents) != 2 {
		t.Fatalf("reopened store has %d incidents, want 2", len(incidents))
	}
	for i := range sample {
		if incidents[i].ID != sample[i].ID {
			t.Errorf("incident %d id = %q, want %q", i, incidents[i].ID, sample[i].ID)
		}
		if !incidents[i].Timestamp.Equal(sample[i].Timestamp) {
			t.Errorf("incident %d timestamp = %v, want %v", i, incidents[i].Timestamp, sample[i].Timestamp)
		}
		if incidents[i].Severity != sample[i].Severity {
			t.Errorf("incident %d severity = %d, want %d", i, incidents[i].Severity, sample[i].Severity)
		}
	}
}
