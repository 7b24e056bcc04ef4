package report

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Archive keeps a local history of finished benchmark runs in SQLite so past
// results remain queryable after the individual report files are gone.
type Archive struct {
	db *sql.DB
}

// Entry is one archived run.
type Entry struct {
	ID        int64
	Name      string
	Repeats   int
	AverageMs float64
	CreatedAt time.Time
	Report    *Report
}

// OpenArchive opens (and if needed creates and migrates) the archive at path.
func OpenArchive(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping archive: %w", err)
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate archive: %w", err)
	}
	return a, nil
}

func (a *Archive) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		repeats INTEGER NOT NULL,
		average_ms REAL NOT NULL,
		report TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := a.db.Exec(query)
	return err
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Insert archives a finished report.
func (a *Archive) Insert(r *Report) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `INSERT INTO runs (name, repeats, average_ms, report, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err = a.db.Exec(query, r.Name, r.Repeats, r.Statistics.AverageMs, string(raw), time.Now())
	return err
}

// Recent returns the most recent entries, newest first.
func (a *Archive) Recent(limit int) ([]Entry, error) {
	query := `SELECT id, name, repeats, average_ms, report, created_at FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := a.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e   Entry
			raw string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Repeats, &e.AverageMs, &raw, &e.CreatedAt); err != nil {
			return nil, err
		}

		var r Report
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("corrupt archived report %d: %w", e.ID, err)
		}
		e.Report = &r
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
