// Package storage persists routes, polylines, detour decisions, the
// computed-waypoint catalog, and anchor links (spec.md §4.8, §6). It
// targets SQLite by default; backend_mysql.go and backend_postgres.go
// open the same schema against MySQL/Postgres for deployments that need a
// shared server rather than an embedded file.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL connection used by the persistence adapter. Per
// spec.md §5, the connection is the only shared mutable resource and is
// held exclusively for the duration of one compute transaction — SQLite's
// single-writer discipline is enforced by capping the pool at one
// connection, exactly as the teacher's storage layer does.
type DB struct {
	conn    *sql.DB
	dialect Dialect
}

// Open creates (or opens) a SQLite database file at dbPath and runs migrations.
func Open(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer — limit to a single connection so
	// concurrent goroutines serialize instead of tripping SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, dialect: SQLiteDialect{}}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.conn.Close() }

// Query, QueryRow and Exec rebind '?'-style placeholders to the active
// dialect before delegating to the underlying connection, so store code
// written once against SQLite's placeholder style also runs against
// Postgres (sqlTx does the equivalent for in-transaction writes).
func (db *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return db.conn.Query(db.dialect.Rebind(query), args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, db.dialect.Rebind(query), args...)
}

func (db *DB) QueryRow(query string, args ...any) *sql.Row {
	return db.conn.QueryRow(db.dialect.Rebind(query), args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, db.dialect.Rebind(query), args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, db.dialect.Rebind(query), args...)
}

func (db *DB) migrate() error {
	for _, stmt := range db.dialect.SchemaStatements() {
		if _, err := db.conn.Exec(stmt); err != nil {
			if db.dialect.IgnorableMigrationError(err) {
				continue
			}
			return fmt.Errorf("migration failed: %s: %w", truncate(stmt, 60), err)
		}
	}
	return nil
}

// UpsertPlanetSQL exposes the dialect's insert-or-update statement for the
// planets table to PlanetStore, since ON CONFLICT (SQLite/Postgres) and ON
// DUPLICATE KEY UPDATE (MySQL) are not interchangeable SQL.
func (db *DB) UpsertPlanetSQL() string { return db.dialect.UpsertPlanetSQL() }

// IsUniqueViolation exposes the dialect's unique-constraint error
// detection to stores that need to tell a lost insert race from a real
// failure.
func (db *DB) IsUniqueViolation(err error) bool { return db.dialect.IsUniqueViolation(err) }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
