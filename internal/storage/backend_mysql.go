package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// OpenMySQL opens a MySQL-backed store using the same schema and store
// types as the default SQLite backend, for deployments that need a shared
// server instead of an embedded file (spec.md §6 treats the backend choice
// as a deployment concern orthogonal to the routing core).
func OpenMySQL(dsn string) (*DB, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	conn.SetMaxOpenConns(8)

	db := &DB{conn: conn, dialect: MySQLDialect{}}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
