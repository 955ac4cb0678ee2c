package caretrail

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS incidents (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT    NOT NULL UNIQUE,
	recorded_at TEXT   NOT NULL,
	category   TEXT    NOT NULL,
	severity   INTEGER NOT NULL,
	location   TEXT    NOT NULL DEFAULT '',
	transcript TEXT    NOT NULL,
	people     TEXT    NOT NULL DEFAULT '[]'
);`

// SQLiteStore is an embedded-database Store. The seq column preserves
// insertion order; timestamps are stored as RFC 3339 text.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path and ensures
// the schema exists. Use ":memory:" for an ephemeral store.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrPersistence, err)
	}
	// The driver is not safe for concurrent writers on one file.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", ErrPersistence, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns all incidents in insertion order.
func (s *SQLiteStore) List() ([]Incident, error) {
	rows, err := s.db.Query(`
		SELECT id, recorded_at, category, severity, location, transcript, people
		FROM incidents ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("%w: list incidents: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var incidents []Incident
	for rows.Next() {
		var (
			inc        Incident
			recordedAt string
			people     string
		)
		if err := rows.Scan(&inc.ID, &recordedAt, &inc.Category, &inc.Severity,
			&inc.Location, &inc.Transcript, &people); err != nil {
			return nil, fmt.Errorf("%w: scan incident: %v", ErrPersistence, err)
		}
		inc.Timestamp, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: parse timestamp for %s: %v", ErrPersistence, inc.ID, err)
		}
		if err := json.Unmarshal([]byte(people), &inc.PeopleInvolved); err != nil {
			return nil, fmt.Errorf("%w: decode people for %s: %v", ErrPersistence, inc.ID, err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate incidents: %v", ErrPersistence, err)
	}
	return incidents, nil
}

// Append adds one incident, rejecting duplicate ids.
func (s *SQLiteStore) Append(inc Incident) error {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM incidents WHERE id = ?`, inc.ID).Scan(&exists)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrDuplicateID, inc.ID)
	case err != sql.ErrNoRows:
		return fmt.Errorf("%w: check incident %s: %v", ErrPersistence, inc.ID, err)
	}

	people, err := json.Marshal(peopleOrEmpty(inc.PeopleInvolved))
	if err != nil {
		return fmt.Errorf("%w: encode people: %v", ErrPersistence, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO incidents (id, recorded_at, category, severity, location, transcript, people)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inc.ID, inc.Timestamp.Format(time.RFC3339Nano), inc.Category, inc.Severity,
		inc.Location, inc.Transcript, string(people))
	if err != nil {
		return fmt.Errorf("%w: insert incident %s: %v", ErrPersistence, inc.ID, err)
	}
	return nil
}

// Remove deletes an incident by id.
func (s *SQLiteStore) Remove(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM incidents WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%w: delete incident %s: %v", ErrPersistence, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: delete incident %s: %v", ErrPersistence, id, err)
	}
	return n > 0, nil
}

// ReplaceAll swaps the whole set inside one transaction, so a failure
// mid-import leaves the prior records untouched.
func (s *SQLiteStore) ReplaceAll(incidents []Incident) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin replace: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM incidents`); err != nil {
		return fmt.Errorf("%w: clear incidents: %v", ErrPersistence, err)
	}
	for _, inc := range incidents {
		people, err := json.Marshal(peopleOrEmpty(inc.PeopleInvolved))
		if err != nil {
			return fmt.Errorf("%w: encode people: %v", ErrPersistence, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO incidents (id, recorded_at, category, severity, location, transcript, people)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			inc.ID, inc.Timestamp.Format(time.RFC3339Nano), inc.Category, inc.Severity,
			inc.Location, inc.Transcript, string(people)); err != nil {
			return fmt.Errorf("%w: insert incident %s: %v", ErrPersistence, inc.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit replace: %v", ErrPersistence, err)
	}
	return nil
}

func peopleOrEmpty(people []string) []string {
	if people == nil {
		return []string{}
	}
	return people
}
