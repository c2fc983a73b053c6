package storage

import (
	"database/sql"

	"hyperroute/internal/domain"
)

// sqlTx adapts *sql.Tx to the domain.Tx contract, rebinding '?' queries to
// the active dialect so store code never has to special-case Postgres.
type sqlTx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *sqlTx) Exec(query string, args ...any) (int64, error) {
	res, err := t.tx.Exec(t.dialect.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// QueryRow runs a read against the transaction's own connection, not the
// pool (see domain.Tx), so lookups issued from inside a WithTx callback
// never contend with the transaction that is already holding SQLite's one
// permitted connection.
func (t *sqlTx) QueryRow(query string, args ...any) *sql.Row {
	return t.tx.QueryRow(t.dialect.Rebind(query), args...)
}

// WithTx runs fn inside an exclusive write transaction (spec.md §4.8, §5):
// it commits on success and rolls back — leaving the prior persisted route
// intact — on error or panic.
func (db *DB) WithTx(fn func(tx domain.Tx) error) error {
	sqltx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = sqltx.Rollback()
		}
	}()

	if err := fn(&sqlTx{tx: sqltx, dialect: db.dialect}); err != nil {
		return err
	}
	if err := sqltx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
