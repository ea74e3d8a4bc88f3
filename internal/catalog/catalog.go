// Package catalog persists a running record of type registrations and
// capability failures to a small SQLite database, for offline
// diagnosis of a long-lived process's type system. Grounded on the
// sql.DB-plus-mutex wrapper shape in
// SeleniaProject-Orizon/internal/stdlib/database/drivers.go
// (SQLiteDatabase), backed here by a real driver, modernc.org/sqlite,
// since nothing else in the retrieved pack imports one.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS type_registrations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type_name TEXT NOT NULL,
	kind TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS failure_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type_name TEXT NOT NULL,
	operation TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);
`

// Catalog is a mutex-guarded handle over the diagnostic database. The
// mutex mirrors the pattern the Orizon SQLite wrapper uses even though
// database/sql is already safe for concurrent use: every method holds
// it, so calls on one Catalog run one at a time.
type Catalog struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens the SQLite database at path and ensures the
// schema exists.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: applying schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

// RecordRegistration logs a type_registrations row, mirroring one
// Registry.Register call from internal/qitype.
func (c *Catalog) RecordRegistration(ctx context.Context, typeName, kind string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO type_registrations (type_name, kind, recorded_at) VALUES (?, ?, ?)`,
		typeName, kind, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// RecordFailure logs a failure_events row, mirroring one
// FailureReporter.Fail call.
func (c *Catalog) RecordFailure(ctx context.Context, typeName, operation string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO failure_events (type_name, operation, recorded_at) VALUES (?, ?, ?)`,
		typeName, operation, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// RegistrationRecord is one row of the type_registrations table.
type RegistrationRecord struct {
	TypeName   string
	Kind       string
	RecordedAt string
}

// ListRegistrations returns every recorded registration, most recent
// first.
func (c *Catalog) ListRegistrations(ctx context.Context) ([]RegistrationRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, err := c.db.QueryContext(ctx,
		`SELECT type_name, kind, recorded_at FROM type_registrations ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegistrationRecord
	for rows.Next() {
		var r RegistrationRecord
		if err := rows.Scan(&r.TypeName, &r.Kind, &r.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FailureCount returns how many distinct type names have ever
// recorded a failure event.
func (c *Catalog) FailureCount(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT type_name) FROM failure_events`).Scan(&n)
	return n, err
}
