package repository

import (
	"context"
	"database/sql"
)

// Dialect names the SQL flavour a repository talks to.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite3"
)

// lockClause is appended to SELECTs that must hold the row until commit.
// SQLite takes the database write lock at BEGIN IMMEDIATE instead.
func (d Dialect) lockClause() string {
	if d == DialectMySQL {
		return " FOR UPDATE"
	}
	return ""
}

// txOptions returns the isolation used for mutation transactions.  Under
// READ COMMITTED every statement sees rows committed before it ran, which
// is what the overlap check needs once the room lock is held.
func (d Dialect) txOptions() *sql.TxOptions {
	if d == DialectMySQL {
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	}
	return nil
}

// Querier is the part of *sql.DB and *sql.Tx the repositories need, so
// reads can run either standalone or inside an open transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction.  The transaction is committed when
// fn returns nil and rolled back otherwise, including on panic, so no
// partial write survives a failed operation.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
