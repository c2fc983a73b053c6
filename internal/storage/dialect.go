package storage

import (
	"strconv"
	"strings"
)

// Dialect abstracts the SQL that differs across the three backends the
// persistence adapter supports (spec.md §6 calls out "database driver
// concerns" as out of scope for the core's domain logic, but the adapter
// itself still has to speak each driver's placeholder syntax, schema
// dialect, and upsert clause).
type Dialect interface {
	// Rebind converts a query written with '?' placeholders into this
	// dialect's native placeholder style.
	Rebind(query string) string
	// Name identifies the dialect for callers that need to branch on it.
	Name() string
	// SchemaStatements returns the full set of migration statements for
	// this dialect's SQL variant.
	SchemaStatements() []string
	// UpsertPlanetSQL returns the insert-or-update statement for the
	// planets table, '?'-placeholdered in column order (id, name, x, y).
	UpsertPlanetSQL() string
	// IgnorableMigrationError reports whether err is safe to ignore during
	// a re-run of the migration (e.g. an index that already exists on a
	// dialect whose CREATE INDEX has no IF NOT EXISTS form).
	IgnorableMigrationError(err error) bool
	// IsUniqueViolation reports whether err is this dialect's driver
	// signaling a unique-constraint conflict, so a fingerprint-keyed upsert
	// that lost a race to insert first can fall back to re-reading the
	// winner's row instead of surfacing the raw driver error.
	IsUniqueViolation(err error) bool
}

// SQLiteDialect and MySQLDialect both use '?' placeholders natively.
type SQLiteDialect struct{}

func (SQLiteDialect) Rebind(q string) string { return q }
func (SQLiteDialect) Name() string           { return "sqlite" }

func (SQLiteDialect) SchemaStatements() []string { return ansiSchemaStatements() }

func (SQLiteDialect) UpsertPlanetSQL() string {
	return `INSERT INTO planets (id, name, x, y) VALUES (?, ?, ?, ?)
	        ON CONFLICT(id) DO UPDATE SET name = excluded.name, x = excluded.x, y = excluded.y`
}

func (SQLiteDialect) IgnorableMigrationError(error) bool { return false }

// IsUniqueViolation matches modernc.org/sqlite's own wording of SQLite's
// constraint-failure message rather than a typed error, since the driver
// surfaces it as a plain error string.
func (SQLiteDialect) IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// PostgresDialect rewrites '?' to '$1', '$2', ... in positional order.
// Its schema and upsert clause are otherwise ANSI-compatible with SQLite's.
type PostgresDialect struct{}

func (PostgresDialect) Name() string { return "postgres" }

func (PostgresDialect) Rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (PostgresDialect) SchemaStatements() []string { return ansiSchemaStatements() }

func (PostgresDialect) UpsertPlanetSQL() string {
	return `INSERT INTO planets (id, name, x, y) VALUES (?, ?, ?, ?)
	        ON CONFLICT(id) DO UPDATE SET name = excluded.name, x = excluded.x, y = excluded.y`
}

func (PostgresDialect) IgnorableMigrationError(error) bool { return false }

// IsUniqueViolation matches lib/pq's own wording of Postgres error code
// 23505 (unique_violation) rather than importing the pq package just to
// type-assert *pq.Error, mirroring IgnorableMigrationError's string-match
// approach below for MySQL.
func (PostgresDialect) IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// MySQLDialect speaks MySQL's own schema and upsert dialect: no partial
// (WHERE-qualified) unique indexes, no IF NOT EXISTS on CREATE INDEX, and
// ON DUPLICATE KEY UPDATE instead of ON CONFLICT.
type MySQLDialect struct{}

func (MySQLDialect) Rebind(q string) string { return q }
func (MySQLDialect) Name() string           { return "mysql" }

func (MySQLDialect) SchemaStatements() []string { return mysqlSchemaStatements() }

func (MySQLDialect) UpsertPlanetSQL() string {
	return `INSERT INTO planets (id, name, x, y) VALUES (?, ?, ?, ?)
	        ON DUPLICATE KEY UPDATE name = VALUES(name), x = VALUES(x), y = VALUES(y)`
}

// IgnorableMigrationError tolerates re-running CREATE INDEX against an
// index MySQL already created on a prior Open, since MySQL (unlike SQLite
// and Postgres) has no CREATE INDEX IF NOT EXISTS form.
func (MySQLDialect) IgnorableMigrationError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate key name")
}

// IsUniqueViolation matches go-sql-driver/mysql's error 1062 wording
// ("Duplicate entry '...' for key ..."), the same string-match approach
// IgnorableMigrationError already uses above for MySQL's own error text.
func (MySQLDialect) IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
